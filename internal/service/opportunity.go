package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/workflow"
	"github.com/cofounderbay/networking-core/pkg/logger"
	"github.com/cofounderbay/networking-core/pkg/metrics"
	"github.com/cofounderbay/networking-core/pkg/tracing"
)

type (
	// Proposal is a proposal record.
	Proposal = workflow.Record[model.Proposal]
	// Application is an application record.
	Application = workflow.Record[model.Application]
)

// OpportunityService handles proposals received and applications sent.
type OpportunityService struct {
	base
}

// NewOpportunityService creates a new opportunity service.
func NewOpportunityService(registry *Registry, publisher EventPublisher, log *logger.Logger) *OpportunityService {
	return &OpportunityService{base: base{registry: registry, publisher: publisher, logger: log}}
}

// Proposals lists proposals matching f.
func (s *OpportunityService) Proposals(ctx context.Context, actor model.ActorID, f workflow.Filter) ([]Proposal, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	return ws.Proposals.List(f), nil
}

// AcceptProposal accepts an incoming proposal and opens a conversation with
// the counterpart if none exists.
func (s *OpportunityService) AcceptProposal(ctx context.Context, actor model.ActorID, id string) (Proposal, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return Proposal{}, err
	}
	rec, err := decide(ctx, &s.base, ws.Proposals, actor, id, model.StatusAccepted)
	if err != nil {
		return Proposal{}, err
	}
	s.publishOpened(ctx, ws, WorkflowProposals, rec.ID)
	return rec, nil
}

// DeclineProposal declines an incoming proposal.
func (s *OpportunityService) DeclineProposal(ctx context.Context, actor model.ActorID, id string) (Proposal, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return Proposal{}, err
	}
	return decide(ctx, &s.base, ws.Proposals, actor, id, model.StatusDeclined)
}

// Applications lists the acting user's applications matching f.
func (s *OpportunityService) Applications(ctx context.Context, actor model.ActorID, f workflow.Filter) ([]Application, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	return ws.Applications.List(f), nil
}

// Apply submits an application to an opportunity. A second application to
// the same opportunity while the first is pending is rejected.
func (s *OpportunityService) Apply(ctx context.Context, actor model.ActorID, opportunityID string, req *model.ApplyRequest) (Application, error) {
	ctx, span := tracing.Start(ctx, "opportunities.apply", "actor", actor.String(), "opportunity_id", opportunityID)
	var err error
	defer func() { tracing.End(span, err) }()

	ws, err := s.workspace(actor)
	if err != nil {
		return Application{}, err
	}
	opp, err := ws.Opportunity(opportunityID)
	if err != nil {
		return Application{}, s.rejected("apply", actor, err)
	}

	app := model.Application{
		OpportunityID:    opp.ID,
		OpportunityTitle: opp.Title,
		OrgName:          opp.OrgName,
		Message:          strings.TrimSpace(req.Message),
	}
	rec, err := ws.Applications.Submit(actor, app.CounterpartRef(), app)
	if err != nil {
		return Application{}, s.rejected("apply", actor, err)
	}

	metrics.RecordTransition(WorkflowApplications, string(rec.Status))
	s.logger.Info("application submitted",
		logger.ActorField(actor.String()),
		zap.String("request_id", rec.ID),
		zap.String("opportunity_id", opp.ID),
	)
	s.publish(ctx, actor, model.EventRequestSubmitted, RequestPayload{
		Workflow: WorkflowApplications, RequestID: rec.ID, Status: rec.Status, Counterpart: rec.Counterpart,
	})
	return rec, nil
}
