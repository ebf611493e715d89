package collection

import (
	"strings"
)

// Filter is a categorical equality predicate.
type Filter struct {
	Field string
	Value string
}

// Query is a conjunction of free-text terms and equality filters, with an
// optional sort key. The zero Query matches everything.
type Query struct {
	Terms   []string
	Filters []Filter
	Sort    string
	Desc    bool
}

// IsEmpty reports whether q has no predicate and no sort key.
func (q Query) IsEmpty() bool {
	if q.Sort != "" || len(q.Filters) > 0 {
		return false
	}
	for _, t := range q.Terms {
		if strings.TrimSpace(t) != "" {
			return false
		}
	}
	return true
}

// Search replaces the free-text part of q.
func (q Query) Search(text string) Query {
	if strings.TrimSpace(text) == "" {
		q.Terms = nil
		return q
	}
	q.Terms = []string{text}
	return q
}

// With sets the filter on field to value, replacing any previous filter on
// the same field. An empty value removes the filter.
func (q Query) With(field, value string) Query {
	q = q.Without(field)
	if value == "" {
		return q
	}
	q.Filters = append(q.Filters, Filter{Field: field, Value: value})
	return q
}

// Without removes every filter on field. Other filters are untouched.
func (q Query) Without(field string) Query {
	kept := make([]Filter, 0, len(q.Filters))
	for _, f := range q.Filters {
		if f.Field != field {
			kept = append(kept, f)
		}
	}
	q.Filters = kept
	return q
}

// Sorted sets the sort key.
func (q Query) Sorted(key string, desc bool) Query {
	q.Sort = key
	q.Desc = desc
	return q
}

// And returns the conjunction of q and other. The sort key of other, when
// set, takes precedence.
func (q Query) And(other Query) Query {
	out := Query{
		Terms:   append(append([]string(nil), q.Terms...), other.Terms...),
		Filters: append(append([]Filter(nil), q.Filters...), other.Filters...),
		Sort:    q.Sort,
		Desc:    q.Desc,
	}
	if other.Sort != "" {
		out.Sort = other.Sort
		out.Desc = other.Desc
	}
	return out
}
