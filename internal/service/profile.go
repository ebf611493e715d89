package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/profile"
	"github.com/cofounderbay/networking-core/pkg/logger"
	"github.com/cofounderbay/networking-core/pkg/tracing"
)

// ProfileService handles editing of the acting user's own profile.
type ProfileService struct {
	base
}

// NewProfileService creates a new profile service.
func NewProfileService(registry *Registry, publisher EventPublisher, log *logger.Logger) *ProfileService {
	return &ProfileService{base: base{registry: registry, publisher: publisher, logger: log}}
}

func view(e *profile.Editor) *model.ProfileView {
	v := &model.ProfileView{Profile: e.Profile(), Completion: e.Completion()}
	if d, ok := e.Draft(); ok {
		v.Draft = &d
		v.Editing = true
	}
	return v
}

// Get returns the saved profile and the draft, if editing.
func (s *ProfileService) Get(ctx context.Context, actor model.ActorID) (*model.ProfileView, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	return view(ws.Editor), nil
}

// Edit starts editing. Calling it while editing keeps the current draft.
func (s *ProfileService) Edit(ctx context.Context, actor model.ActorID) (*model.ProfileView, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	if _, err := ws.Editor.Begin(actor); err != nil {
		return nil, s.rejected("profile_edit", actor, err)
	}
	return view(ws.Editor), nil
}

// Patch applies p to the draft as one change. Field names are validated
// first and an unknown field leaves the draft untouched.
func (s *ProfileService) Patch(ctx context.Context, actor model.ActorID, p *model.ProfilePatch) (*model.ProfileView, error) {
	_, span := tracing.Start(ctx, "profile.patch", "actor", actor.String())
	var err error
	defer func() { tracing.End(span, err) }()

	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	changes := make([]profile.Change, 0, len(names)+len(p.AddSkills)+len(p.RemoveSkills)+len(p.AddInterests)+len(p.RemoveInterests))
	for _, name := range names {
		f, perr := profile.ParseField(name)
		if perr != nil {
			err = perr
			return nil, s.rejected("profile_patch", actor, err)
		}
		changes = append(changes, profile.SetTo(f, p.Fields[name]))
	}
	for _, v := range p.AddSkills {
		changes = append(changes, profile.WithSkill(v))
	}
	for _, v := range p.RemoveSkills {
		changes = append(changes, profile.WithoutSkill(v))
	}
	for _, v := range p.AddInterests {
		changes = append(changes, profile.WithInterest(v))
	}
	for _, v := range p.RemoveInterests {
		changes = append(changes, profile.WithoutInterest(v))
	}

	if _, err = ws.Editor.Apply(actor, changes...); err != nil {
		err = fmt.Errorf("patch: %w", err)
		return nil, s.rejected("profile_patch", actor, err)
	}
	return view(ws.Editor), nil
}

// Save commits the draft.
func (s *ProfileService) Save(ctx context.Context, actor model.ActorID) (*model.ProfileView, error) {
	ctx, span := tracing.Start(ctx, "profile.save", "actor", actor.String())
	var err error
	defer func() { tracing.End(span, err) }()

	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	saved, err := ws.Editor.Save(actor)
	if err != nil {
		return nil, s.rejected("profile_save", actor, err)
	}

	v := view(ws.Editor)
	s.logger.Info("profile saved",
		logger.ActorField(actor.String()),
		zap.Int("completion", v.Completion),
	)
	s.publish(ctx, actor, model.EventProfileSaved, saved)
	return v, nil
}

// Cancel discards the draft.
func (s *ProfileService) Cancel(ctx context.Context, actor model.ActorID) (*model.ProfileView, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	if err := ws.Editor.Cancel(actor); err != nil {
		return nil, s.rejected("profile_cancel", actor, err)
	}
	return view(ws.Editor), nil
}
