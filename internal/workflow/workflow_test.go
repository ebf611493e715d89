package workflow

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cofounderbay/networking-core/internal/model"
)

const owner model.ActorID = "jane"

type note struct {
	Message string
}

func newTestWorkflow(t *testing.T) *Workflow[note] {
	t.Helper()

	w := New[note]("connections", owner)
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	w.clock = func() time.Time { return base }
	n := 0
	w.newID = func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}

	err := w.Seed(
		Record[note]{ID: "pr1", Direction: model.DirectionIncoming, Status: model.StatusPending,
			Counterpart: model.Counterpart{ProfileID: "elena", Name: "Elena V."}, Payload: note{"I'm building a fintech startup"}},
		Record[note]{ID: "pr2", Direction: model.DirectionIncoming, Status: model.StatusPending,
			Counterpart: model.Counterpart{ProfileID: "nikos", Name: "Nikos M."}},
		Record[note]{ID: "pr3", Direction: model.DirectionOutgoing, Status: model.StatusPending,
			Counterpart: model.Counterpart{ProfileID: "tom", Name: "Tom H."}},
	)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return w
}

func TestAcceptThenDeclineIsRejected(t *testing.T) {
	w := newTestWorkflow(t)

	rec, err := w.Accept(owner, "pr1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if rec.Status != model.StatusAccepted {
		t.Fatalf("expected accepted, got %s", rec.Status)
	}
	if rec.ResolvedAt == nil {
		t.Fatalf("expected resolved_at to be set")
	}

	if _, err := w.Decline(owner, "pr1"); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	got, _ := w.Get("pr1")
	if got.Status != model.StatusAccepted {
		t.Fatalf("status changed to %s", got.Status)
	}
}

func TestTerminalStatesAreIdempotent(t *testing.T) {
	w := newTestWorkflow(t)

	if _, err := w.Decline(owner, "pr2"); err != nil {
		t.Fatalf("decline: %v", err)
	}

	for _, op := range []func(model.ActorID, string) (Record[note], error){w.Accept, w.Decline} {
		if _, err := op(owner, "pr2"); !errors.Is(err, model.ErrInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
		got, _ := w.Get("pr2")
		if got.Status != model.StatusDeclined {
			t.Fatalf("terminal status changed to %s", got.Status)
		}
	}
}

func TestOutgoingCannotBeDecidedLocally(t *testing.T) {
	w := newTestWorkflow(t)

	if _, err := w.Accept(owner, "pr3"); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
	if _, err := w.Decline(owner, "pr3"); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
	got, _ := w.Get("pr3")
	if got.Status != model.StatusPending {
		t.Fatalf("outgoing status changed to %s", got.Status)
	}
}

func TestOtherActorIsNotAuthorized(t *testing.T) {
	w := newTestWorkflow(t)

	if _, err := w.Accept("mallory", "pr1"); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
	if _, err := w.Submit("mallory", model.Counterpart{ProfileID: "x"}, note{}); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("expected not authorized on submit, got %v", err)
	}
}

func TestUnknownRequest(t *testing.T) {
	w := newTestWorkflow(t)

	if _, err := w.Accept(owner, "missing"); !errors.Is(err, model.ErrRequestNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := w.Get("missing"); !errors.Is(err, model.ErrRequestNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHooksRunAfterTransition(t *testing.T) {
	w := newTestWorkflow(t)

	var accepted, declined []string
	w.OnAccept(func(rec Record[note]) {
		// Hooks may read the workflow without deadlocking.
		got, _ := w.Get(rec.ID)
		accepted = append(accepted, got.ID+":"+string(got.Status))
	})
	w.OnDecline(func(rec Record[note]) { declined = append(declined, rec.ID) })

	w.Accept(owner, "pr1")
	w.Decline(owner, "pr2")
	w.Accept(owner, "pr1")

	if len(accepted) != 1 || accepted[0] != "pr1:accepted" {
		t.Fatalf("unexpected accept hooks: %v", accepted)
	}
	if len(declined) != 1 || declined[0] != "pr2" {
		t.Fatalf("unexpected decline hooks: %v", declined)
	}
}

func TestSubmitAndResolve(t *testing.T) {
	w := newTestWorkflow(t)

	rec, err := w.Submit(owner, model.Counterpart{ProfileID: "yuki", Name: "Yuki T."}, note{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.ID != "gen-1" || rec.Direction != model.DirectionOutgoing || rec.Status != model.StatusPending {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := w.Submit(owner, model.Counterpart{ProfileID: "yuki"}, note{}); !errors.Is(err, model.ErrDuplicateRequest) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	if _, err := w.Resolve(rec.ID, model.StatusPending); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for pending target, got %v", err)
	}
	if _, err := w.Resolve("pr1", model.StatusAccepted); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("expected not authorized for incoming, got %v", err)
	}

	resolved, err := w.Resolve(rec.ID, model.StatusAccepted)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != model.StatusAccepted {
		t.Fatalf("expected accepted, got %s", resolved.Status)
	}
	if _, err := w.Resolve(rec.ID, model.StatusDeclined); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	// Once resolved, a new request to the same counterpart is allowed.
	if _, err := w.Submit(owner, model.Counterpart{ProfileID: "yuki"}, note{}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
}

func TestListAndPendingCount(t *testing.T) {
	w := newTestWorkflow(t)

	if n := w.PendingCount(model.DirectionIncoming); n != 2 {
		t.Fatalf("expected 2 incoming pending, got %d", n)
	}
	w.Accept(owner, "pr1")
	if n := w.PendingCount(model.DirectionIncoming); n != 1 {
		t.Fatalf("expected 1 incoming pending, got %d", n)
	}

	incoming := w.List(Filter{Direction: model.DirectionIncoming})
	if len(incoming) != 2 || incoming[0].ID != "pr1" || incoming[1].ID != "pr2" {
		t.Fatalf("unexpected incoming list: %+v", incoming)
	}

	pending := w.List(Filter{Status: model.StatusPending})
	if len(pending) != 2 || pending[0].ID != "pr2" || pending[1].ID != "pr3" {
		t.Fatalf("unexpected pending list: %+v", pending)
	}
}

func TestListReturnsCopies(t *testing.T) {
	w := newTestWorkflow(t)

	list := w.List(Filter{})
	list[0].Status = model.StatusDeclined

	got, _ := w.Get(list[0].ID)
	if got.Status != model.StatusPending {
		t.Fatalf("store mutated through snapshot")
	}
}

func TestSeedRejectsInvalidRecords(t *testing.T) {
	w := New[note]("proposals", owner)

	tests := []struct {
		name string
		rec  Record[note]
	}{
		{"missing id", Record[note]{Direction: model.DirectionIncoming, Status: model.StatusPending}},
		{"bad status", Record[note]{ID: "a", Direction: model.DirectionIncoming, Status: "reviewing"}},
		{"bad direction", Record[note]{ID: "b", Direction: "sideways", Status: model.StatusPending}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.Seed(tt.rec); err == nil {
				t.Fatalf("expected seed error")
			}
		})
	}

	ok := Record[note]{ID: "p1", Direction: model.DirectionIncoming, Status: model.StatusPending}
	if err := w.Seed(ok, ok); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if len(w.List(Filter{})) != 0 {
		t.Fatalf("failed seed must not apply records")
	}
}
