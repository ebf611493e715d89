// Package collection provides pure, generic filtering, searching and sorting
// over in-memory entity lists.
package collection

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Collection describes how entities of type T are searched, filtered and
// sorted. A Collection holds no items; it is safe for concurrent use once
// built.
type Collection[T any] struct {
	searchable []func(T) []string
	fields     map[string]func(T) string
	sorts      map[string]func(a, b T) int
}

// New creates an empty collection definition.
func New[T any]() *Collection[T] {
	return &Collection[T]{
		fields: make(map[string]func(T) string),
		sorts:  make(map[string]func(a, b T) int),
	}
}

// SearchText registers a single-valued searchable field.
func (c *Collection[T]) SearchText(get func(T) string) *Collection[T] {
	c.searchable = append(c.searchable, func(v T) []string { return []string{get(v)} })
	return c
}

// SearchList registers a multi-valued searchable field, such as a skill list.
func (c *Collection[T]) SearchList(get func(T) []string) *Collection[T] {
	c.searchable = append(c.searchable, get)
	return c
}

// Field registers a categorical field usable in equality filters.
func (c *Collection[T]) Field(name string, get func(T) string) *Collection[T] {
	c.fields[name] = get
	return c
}

// SortBy registers a named sort key.
func (c *Collection[T]) SortBy(name string, compare func(a, b T) int) *Collection[T] {
	c.sorts[name] = compare
	return c
}

// HasField reports whether name is a registered categorical field.
func (c *Collection[T]) HasField(name string) bool {
	_, ok := c.fields[name]
	return ok
}

// HasSort reports whether name is a registered sort key.
func (c *Collection[T]) HasSort(name string) bool {
	_, ok := c.sorts[name]
	return ok
}

// Filter returns the items matching every predicate of q, in input order
// unless q names a sort key. The input slice is never modified. An empty query
// returns items unchanged.
func (c *Collection[T]) Filter(items []T, q Query) []T {
	if q.IsEmpty() {
		return items
	}

	// A Caser is stateful, so each call folds with its own.
	fold := cases.Fold()
	terms := make([]string, 0, len(q.Terms))
	for _, t := range q.Terms {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, fold.String(t))
		}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if c.matches(fold, item, terms, q.Filters) {
			out = append(out, item)
		}
	}

	if q.Sort != "" {
		if compare, ok := c.sorts[q.Sort]; ok {
			slices.SortStableFunc(out, func(a, b T) int {
				if q.Desc {
					return compare(b, a)
				}
				return compare(a, b)
			})
		}
	}
	return out
}

func (c *Collection[T]) matches(fold cases.Caser, item T, terms []string, filters []Filter) bool {
	for _, f := range filters {
		get, ok := c.fields[f.Field]
		if !ok {
			return false
		}
		if get(item) != f.Value {
			return false
		}
	}
	for _, term := range terms {
		if !c.containsTerm(fold, item, term) {
			return false
		}
	}
	return true
}

func (c *Collection[T]) containsTerm(fold cases.Caser, item T, term string) bool {
	for _, get := range c.searchable {
		for _, v := range get(item) {
			if strings.Contains(fold.String(v), term) {
				return true
			}
		}
	}
	return false
}

// Page returns the [offset, offset+limit) window of items and whether more
// items follow. A non-positive limit returns everything from offset.
func Page[T any](items []T, offset, limit int) ([]T, bool) {
	total := len(items)
	start := min(max(offset, 0), total)
	end := total
	if limit > 0 {
		end = min(start+limit, total)
	}
	return items[start:end], end < total
}

// Asc builds an ascending comparison on an ordered key.
func Asc[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}
