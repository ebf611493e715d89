// Package profile implements draft-based editing of the acting user's own
// profile over an explicit set of editable fields.
package profile

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/cofounderbay/networking-core/internal/model"
)

// Field names an editable scalar field of model.OwnProfile.
type Field string

const (
	FieldName         Field = "name"
	FieldHeadline     Field = "headline"
	FieldBio          Field = "bio"
	FieldLocation     Field = "location"
	FieldAvailability Field = "availability"
	FieldEmail        Field = "email"
	FieldLinkedIn     Field = "linkedin"
	FieldGitHub       Field = "github"
	FieldWebsite      Field = "website"
	FieldStage        Field = "stage"
	FieldCommitment   Field = "commitment"
	FieldCompensation Field = "compensation"
	FieldLookingFor   Field = "looking_for"
)

// Fields lists every editable field.
var Fields = []Field{
	FieldName, FieldHeadline, FieldBio, FieldLocation, FieldAvailability,
	FieldEmail, FieldLinkedIn, FieldGitHub, FieldWebsite,
	FieldStage, FieldCommitment, FieldCompensation, FieldLookingFor,
}

// ParseField validates a field name coming from a form.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if !slices.Contains(Fields, f) {
		return "", fmt.Errorf("field %q: %w", name, model.ErrUnknownField)
	}
	return f, nil
}

func (f Field) target(p *model.OwnProfile) *string {
	switch f {
	case FieldName:
		return &p.Name
	case FieldHeadline:
		return &p.Headline
	case FieldBio:
		return &p.Bio
	case FieldLocation:
		return &p.Location
	case FieldAvailability:
		return &p.Availability
	case FieldEmail:
		return &p.Email
	case FieldLinkedIn:
		return &p.LinkedIn
	case FieldGitHub:
		return &p.GitHub
	case FieldWebsite:
		return &p.Website
	case FieldStage:
		return &p.Stage
	case FieldCommitment:
		return &p.Commitment
	case FieldCompensation:
		return &p.Compensation
	case FieldLookingFor:
		return &p.LookingFor
	}
	return nil
}

// Get returns the value of f on p.
func (f Field) Get(p model.OwnProfile) (string, error) {
	ptr := f.target(&p)
	if ptr == nil {
		return "", fmt.Errorf("field %q: %w", f, model.ErrUnknownField)
	}
	return *ptr, nil
}

// Editor holds the saved profile and, while editing, a draft.
type Editor struct {
	owner model.ActorID

	mu    sync.Mutex
	saved model.OwnProfile
	draft *model.OwnProfile
}

// NewEditor creates an editor around an initial saved profile.
func NewEditor(owner model.ActorID, initial model.OwnProfile) *Editor {
	return &Editor{owner: owner, saved: initial.Clone()}
}

func (e *Editor) authorize(actor model.ActorID) error {
	if actor != e.owner {
		return fmt.Errorf("profile of %s: %w", e.owner, model.ErrNotAuthorized)
	}
	return nil
}

// Profile returns the saved profile.
func (e *Editor) Profile() model.OwnProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saved.Clone()
}

// Draft returns the current draft and whether editing is in progress.
func (e *Editor) Draft() (model.OwnProfile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft == nil {
		return model.OwnProfile{}, false
	}
	return e.draft.Clone(), true
}

// Begin starts editing from the saved profile. Calling it while already
// editing keeps the existing draft.
func (e *Editor) Begin(actor model.ActorID) (model.OwnProfile, error) {
	if err := e.authorize(actor); err != nil {
		return model.OwnProfile{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		d := e.saved.Clone()
		e.draft = &d
	}
	return e.draft.Clone(), nil
}

// Change is one edit of a draft.
type Change func(d *model.OwnProfile) error

// SetTo sets the scalar field f.
func SetTo(f Field, value string) Change {
	return func(d *model.OwnProfile) error {
		ptr := f.target(d)
		if ptr == nil {
			return fmt.Errorf("field %q: %w", f, model.ErrUnknownField)
		}
		*ptr = value
		return nil
	}
}

// WithSkill appends a trimmed skill unless blank or present.
func WithSkill(skill string) Change {
	return func(d *model.OwnProfile) error {
		d.Skills = addTag(d.Skills, skill)
		return nil
	}
}

// WithoutSkill removes a skill.
func WithoutSkill(skill string) Change {
	return func(d *model.OwnProfile) error {
		d.Skills = removeTag(d.Skills, skill)
		return nil
	}
}

// WithInterest appends a trimmed interest unless blank or present.
func WithInterest(interest string) Change {
	return func(d *model.OwnProfile) error {
		d.Interests = addTag(d.Interests, interest)
		return nil
	}
}

// WithoutInterest removes an interest.
func WithoutInterest(interest string) Change {
	return func(d *model.OwnProfile) error {
		d.Interests = removeTag(d.Interests, interest)
		return nil
	}
}

// Apply runs changes in order against a copy of the draft and stores the
// result only when all of them succeed. The whole batch holds the lock, so a
// concurrent Save or Cancel sees either none or all of it.
func (e *Editor) Apply(actor model.ActorID, changes ...Change) (model.OwnProfile, error) {
	if err := e.authorize(actor); err != nil {
		return model.OwnProfile{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return model.OwnProfile{}, model.ErrNotEditing
	}
	d := e.draft.Clone()
	for _, change := range changes {
		if err := change(&d); err != nil {
			return model.OwnProfile{}, err
		}
	}
	e.draft = &d
	return d.Clone(), nil
}

// Set updates one scalar field of the draft.
func (e *Editor) Set(actor model.ActorID, f Field, value string) (model.OwnProfile, error) {
	return e.Apply(actor, SetTo(f, value))
}

// AddSkill appends a trimmed skill to the draft unless blank or present.
func (e *Editor) AddSkill(actor model.ActorID, skill string) (model.OwnProfile, error) {
	return e.Apply(actor, WithSkill(skill))
}

// RemoveSkill removes a skill from the draft.
func (e *Editor) RemoveSkill(actor model.ActorID, skill string) (model.OwnProfile, error) {
	return e.Apply(actor, WithoutSkill(skill))
}

// AddInterest appends a trimmed interest to the draft unless blank or present.
func (e *Editor) AddInterest(actor model.ActorID, interest string) (model.OwnProfile, error) {
	return e.Apply(actor, WithInterest(interest))
}

// RemoveInterest removes an interest from the draft.
func (e *Editor) RemoveInterest(actor model.ActorID, interest string) (model.OwnProfile, error) {
	return e.Apply(actor, WithoutInterest(interest))
}

// Save commits the draft and leaves edit mode.
func (e *Editor) Save(actor model.ActorID) (model.OwnProfile, error) {
	if err := e.authorize(actor); err != nil {
		return model.OwnProfile{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return model.OwnProfile{}, model.ErrNotEditing
	}
	e.saved = *e.draft
	e.draft = nil
	return e.saved.Clone(), nil
}

// Cancel discards the draft.
func (e *Editor) Cancel(actor model.ActorID) error {
	if err := e.authorize(actor); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.draft == nil {
		return model.ErrNotEditing
	}
	e.draft = nil
	return nil
}

// Completion returns the percentage of completed profile items of the saved
// profile, rounded to the nearest integer.
func (e *Editor) Completion() int {
	return Completion(e.Profile())
}

// Completion scores p on headline, bio, at least three skills, location,
// LinkedIn and intent.
func Completion(p model.OwnProfile) int {
	items := []bool{
		p.Headline != "",
		p.Bio != "",
		len(p.Skills) >= 3,
		p.Location != "",
		p.LinkedIn != "",
		p.LookingFor != "",
	}
	done := 0
	for _, ok := range items {
		if ok {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(items)) * 100))
}

func addTag(tags []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(tags, tag) {
		return tags
	}
	return append(tags, tag)
}

func removeTag(tags []string, tag string) []string {
	return slices.DeleteFunc(tags, func(t string) bool { return t == tag })
}
