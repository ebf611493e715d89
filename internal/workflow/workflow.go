// Package workflow implements one-shot approval gates: requests that move from
// pending to accepted or declined exactly once.
package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cofounderbay/networking-core/internal/model"
)

// Record is one request tracked by a Workflow. Payload carries the fields that
// differ between intro requests, connection requests, proposals and
// applications.
type Record[T any] struct {
	ID          string              `json:"id"`
	Direction   model.Direction     `json:"direction"`
	Status      model.RequestStatus `json:"status"`
	Counterpart model.Counterpart   `json:"counterpart"`
	Payload     T                   `json:"payload"`
	model.Timestamps
}

// Hook observes a record after a transition has been applied.
type Hook[T any] func(rec Record[T])

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Direction model.Direction
	Status    model.RequestStatus
}

func (f Filter) match(direction model.Direction, status model.RequestStatus) bool {
	if f.Direction != "" && f.Direction != direction {
		return false
	}
	if f.Status != "" && f.Status != status {
		return false
	}
	return true
}

// Workflow holds the requests owned by one acting user. Operations are
// serialized and applied in call order.
type Workflow[T any] struct {
	name  string
	owner model.ActorID

	mu      sync.RWMutex
	records map[string]*Record[T]
	order   []string

	onAccept  []Hook[T]
	onDecline []Hook[T]

	clock func() time.Time
	newID func() string
}

// New creates an empty workflow named name for owner.
func New[T any](name string, owner model.ActorID) *Workflow[T] {
	return &Workflow[T]{
		name:    name,
		owner:   owner,
		records: make(map[string]*Record[T]),
		clock:   time.Now,
		newID:   func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Name returns the workflow name.
func (w *Workflow[T]) Name() string { return w.name }

// Owner returns the acting user that controls incoming records.
func (w *Workflow[T]) Owner() model.ActorID { return w.owner }

// OnAccept registers a hook run after every successful accept.
func (w *Workflow[T]) OnAccept(h Hook[T]) {
	w.mu.Lock()
	w.onAccept = append(w.onAccept, h)
	w.mu.Unlock()
}

// OnDecline registers a hook run after every successful decline.
func (w *Workflow[T]) OnDecline(h Hook[T]) {
	w.mu.Lock()
	w.onDecline = append(w.onDecline, h)
	w.mu.Unlock()
}

// Seed loads initial records. It fails without applying anything if a record
// has an unknown status or direction, or an id collides.
func (w *Workflow[T]) Seed(records ...Record[T]) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("%s: seed record without id", w.name)
		}
		if _, exists := w.records[rec.ID]; exists || seen[rec.ID] {
			return fmt.Errorf("%s: duplicate record id %s", w.name, rec.ID)
		}
		if !rec.Status.Valid() {
			return fmt.Errorf("%s: record %s has unknown status %q", w.name, rec.ID, rec.Status)
		}
		if rec.Direction != model.DirectionIncoming && rec.Direction != model.DirectionOutgoing {
			return fmt.Errorf("%s: record %s has unknown direction %q", w.name, rec.ID, rec.Direction)
		}
		seen[rec.ID] = true
	}

	for _, rec := range records {
		r := rec
		if r.CreatedAt.IsZero() {
			r.CreatedAt = w.clock()
		}
		w.records[r.ID] = &r
		w.order = append(w.order, r.ID)
	}
	return nil
}

// Submit creates an outgoing pending request from the owner to counterpart.
func (w *Workflow[T]) Submit(actor model.ActorID, counterpart model.Counterpart, payload T) (Record[T], error) {
	if actor != w.owner {
		return Record[T]{}, fmt.Errorf("%s submit: %w", w.name, model.ErrNotAuthorized)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if counterpart.ProfileID != "" {
		for _, id := range w.order {
			r := w.records[id]
			if r.Direction == model.DirectionOutgoing && r.Status == model.StatusPending &&
				r.Counterpart.ProfileID == counterpart.ProfileID {
				return Record[T]{}, fmt.Errorf("%s submit to %s: %w", w.name, counterpart.ProfileID, model.ErrDuplicateRequest)
			}
		}
	}

	rec := &Record[T]{
		ID:          w.newID(),
		Direction:   model.DirectionOutgoing,
		Status:      model.StatusPending,
		Counterpart: counterpart,
		Payload:     payload,
		Timestamps:  model.Timestamps{CreatedAt: w.clock()},
	}
	w.records[rec.ID] = rec
	w.order = append(w.order, rec.ID)
	return rec.snapshot(), nil
}

// Accept moves an incoming pending request to accepted.
func (w *Workflow[T]) Accept(actor model.ActorID, id string) (Record[T], error) {
	rec, hooks, err := w.decide(actor, id, model.StatusAccepted)
	if err != nil {
		return Record[T]{}, err
	}
	for _, h := range hooks {
		h(rec)
	}
	return rec, nil
}

// Decline moves an incoming pending request to declined.
func (w *Workflow[T]) Decline(actor model.ActorID, id string) (Record[T], error) {
	rec, hooks, err := w.decide(actor, id, model.StatusDeclined)
	if err != nil {
		return Record[T]{}, err
	}
	for _, h := range hooks {
		h(rec)
	}
	return rec, nil
}

func (w *Workflow[T]) decide(actor model.ActorID, id string, to model.RequestStatus) (Record[T], []Hook[T], error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec, ok := w.records[id]
	if !ok {
		return Record[T]{}, nil, fmt.Errorf("%s %s: %w", w.name, id, model.ErrRequestNotFound)
	}
	if actor != w.owner || rec.Direction != model.DirectionIncoming {
		return Record[T]{}, nil, fmt.Errorf("%s %s: %w", w.name, id, model.ErrNotAuthorized)
	}
	if rec.Status != model.StatusPending {
		return Record[T]{}, nil, fmt.Errorf("%s %s %s -> %s: %w", w.name, id, rec.Status, to, model.ErrInvalidTransition)
	}

	w.apply(rec, to)

	hooks := w.onDecline
	if to == model.StatusAccepted {
		hooks = w.onAccept
	}
	return rec.snapshot(), append([]Hook[T](nil), hooks...), nil
}

// Resolve applies an external resolution to an outgoing pending request.
// Incoming requests can only be decided by the owner through Accept or
// Decline.
func (w *Workflow[T]) Resolve(id string, to model.RequestStatus) (Record[T], error) {
	if !to.Terminal() {
		return Record[T]{}, fmt.Errorf("%s %s -> %s: %w", w.name, id, to, model.ErrInvalidTransition)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	rec, ok := w.records[id]
	if !ok {
		return Record[T]{}, fmt.Errorf("%s %s: %w", w.name, id, model.ErrRequestNotFound)
	}
	if rec.Direction != model.DirectionOutgoing {
		return Record[T]{}, fmt.Errorf("%s %s: %w", w.name, id, model.ErrNotAuthorized)
	}
	if rec.Status != model.StatusPending {
		return Record[T]{}, fmt.Errorf("%s %s %s -> %s: %w", w.name, id, rec.Status, to, model.ErrInvalidTransition)
	}

	w.apply(rec, to)
	return rec.snapshot(), nil
}

func (w *Workflow[T]) apply(rec *Record[T], to model.RequestStatus) {
	now := w.clock()
	rec.Status = to
	rec.ResolvedAt = &now
}

// Get returns a copy of the record with the given id.
func (w *Workflow[T]) Get(id string) (Record[T], error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	rec, ok := w.records[id]
	if !ok {
		return Record[T]{}, fmt.Errorf("%s %s: %w", w.name, id, model.ErrRequestNotFound)
	}
	return rec.snapshot(), nil
}

// List returns copies of the matching records in insertion order.
func (w *Workflow[T]) List(f Filter) []Record[T] {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Record[T], 0, len(w.order))
	for _, id := range w.order {
		rec := w.records[id]
		if f.match(rec.Direction, rec.Status) {
			out = append(out, rec.snapshot())
		}
	}
	return out
}

// PendingCount counts pending records in the given direction.
func (w *Workflow[T]) PendingCount(direction model.Direction) int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	n := 0
	for _, rec := range w.records {
		if rec.Direction == direction && rec.Status == model.StatusPending {
			n++
		}
	}
	return n
}

func (r *Record[T]) snapshot() Record[T] {
	out := *r
	if r.ResolvedAt != nil {
		t := *r.ResolvedAt
		out.ResolvedAt = &t
	}
	return out
}
