package profile

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/cofounderbay/networking-core/internal/model"
)

const me model.ActorID = "jane"

func initial() model.OwnProfile {
	return model.OwnProfile{
		Name:       "Jane Doe",
		Headline:   "Product strategist & startup builder",
		Bio:        "10+ years building digital products.",
		Location:   "Athens, Greece",
		LinkedIn:   "linkedin.com/in/janedoe",
		Skills:     []string{"Product Strategy", "UX Research", "Agile"},
		Interests:  []string{"AI/ML"},
		LookingFor: "Technical Co-founder",
	}
}

func TestEditSaveCycle(t *testing.T) {
	e := NewEditor(me, initial())

	if _, err := e.Set(me, FieldHeadline, "x"); !errors.Is(err, model.ErrNotEditing) {
		t.Fatalf("expected not editing, got %v", err)
	}

	if _, err := e.Begin(me); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := e.Set(me, FieldHeadline, "Serial founder"); err != nil {
		t.Fatalf("set: %v", err)
	}
	draft, err := e.AddSkill(me, "  Fundraising ")
	if err != nil {
		t.Fatalf("add skill: %v", err)
	}
	if got := draft.Skills[len(draft.Skills)-1]; got != "Fundraising" {
		t.Fatalf("expected trimmed skill, got %q", got)
	}

	if e.Profile().Headline != initial().Headline {
		t.Fatalf("saved profile changed before save")
	}

	saved, err := e.Save(me)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Headline != "Serial founder" || len(saved.Skills) != 4 {
		t.Fatalf("unexpected saved profile: %+v", saved)
	}
	if _, editing := e.Draft(); editing {
		t.Fatalf("expected edit mode to end")
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	e := NewEditor(me, initial())

	e.Begin(me)
	e.RemoveSkill(me, "Agile")
	e.AddInterest(me, "ClimateTech")
	if err := e.Cancel(me); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if !reflect.DeepEqual(e.Profile(), initial()) {
		t.Fatalf("cancel leaked draft changes: %+v", e.Profile())
	}
	if err := e.Cancel(me); !errors.Is(err, model.ErrNotEditing) {
		t.Fatalf("expected not editing, got %v", err)
	}
}

func TestApplyIsAllOrNothing(t *testing.T) {
	e := NewEditor(me, initial())

	if _, err := e.Apply(me, WithSkill("Go")); !errors.Is(err, model.ErrNotEditing) {
		t.Fatalf("expected not editing, got %v", err)
	}

	before, _ := e.Begin(me)
	_, err := e.Apply(me,
		SetTo(FieldHeadline, "Serial founder"),
		WithSkill("Go"),
		SetTo(Field("favorite"), "x"),
	)
	if !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected unknown field, got %v", err)
	}
	if draft, _ := e.Draft(); !reflect.DeepEqual(draft, before) {
		t.Fatalf("failed batch leaked into draft: %+v", draft)
	}

	draft, err := e.Apply(me, SetTo(FieldHeadline, "Serial founder"), WithSkill("Go"), WithoutInterest("AI/ML"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if draft.Headline != "Serial founder" || !reflect.DeepEqual(draft.Skills, []string{"Product Strategy", "UX Research", "Agile", "Go"}) || len(draft.Interests) != 0 {
		t.Fatalf("unexpected draft: %+v", draft)
	}
}

func TestApplyRacingCancelNeverSavesPartialBatch(t *testing.T) {
	for i := 0; i < 50; i++ {
		e := NewEditor(me, initial())
		e.Begin(me)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			e.Apply(me, SetTo(FieldHeadline, "Serial founder"), WithSkill("Go"), SetTo(FieldLocation, "Berlin"))
		}()
		go func() {
			defer wg.Done()
			e.Cancel(me)
		}()
		wg.Wait()

		// Whichever ran first, the draft is gone or holds the whole batch.
		if draft, editing := e.Draft(); editing {
			if draft.Headline != "Serial founder" || draft.Location != "Berlin" || len(draft.Skills) != 4 {
				t.Fatalf("partial batch in draft: %+v", draft)
			}
		}
		if !reflect.DeepEqual(e.Profile(), initial()) {
			t.Fatalf("saved profile changed without save: %+v", e.Profile())
		}
	}
}

func TestTagsIgnoreBlankAndDuplicates(t *testing.T) {
	e := NewEditor(me, initial())
	e.Begin(me)

	e.AddSkill(me, "Agile")
	e.AddSkill(me, "   ")
	e.AddInterest(me, "AI/ML")
	draft, _ := e.RemoveInterest(me, "Unknown")

	if len(draft.Skills) != 3 || len(draft.Interests) != 1 {
		t.Fatalf("unexpected tags: %v %v", draft.Skills, draft.Interests)
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("looking_for")
	if err != nil || f != FieldLookingFor {
		t.Fatalf("parse looking_for: %v %v", f, err)
	}
	if _, err := ParseField("skills"); !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected unknown field, got %v", err)
	}

	for _, f := range Fields {
		if _, err := f.Get(initial()); err != nil {
			t.Fatalf("field %s not wired: %v", f, err)
		}
	}
}

func TestOtherActorCannotEdit(t *testing.T) {
	e := NewEditor(me, initial())

	if _, err := e.Begin("mallory"); !errors.Is(err, model.ErrNotAuthorized) {
		t.Fatalf("expected not authorized, got %v", err)
	}
}

func TestCompletion(t *testing.T) {
	if got := Completion(initial()); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}

	p := initial()
	p.LinkedIn = ""
	p.Skills = p.Skills[:2]
	if got := Completion(p); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}

	if got := Completion(model.OwnProfile{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
