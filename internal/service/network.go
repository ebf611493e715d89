package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cofounderbay/networking-core/internal/catalog"
	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/workflow"
	"github.com/cofounderbay/networking-core/pkg/logger"
	"github.com/cofounderbay/networking-core/pkg/metrics"
	"github.com/cofounderbay/networking-core/pkg/tracing"
)

// ConnectionRequest is a connection request record.
type ConnectionRequest = workflow.Record[model.ConnectionRequest]

// NetworkService handles connections, suggestions and connection requests.
type NetworkService struct {
	base
}

// NewNetworkService creates a new network service.
func NewNetworkService(registry *Registry, publisher EventPublisher, log *logger.Logger) *NetworkService {
	return &NetworkService{base: base{registry: registry, publisher: publisher, logger: log}}
}

// Connections filters the established connections.
func (s *NetworkService) Connections(ctx context.Context, actor model.ActorID, opts ListOptions) (*model.ListResponse[model.Connection], error) {
	_, span := tracing.Start(ctx, "network.connections", "actor", actor.String())
	defer span.End()

	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	return list("connections", catalog.Connections, ws.Connections(), opts), nil
}

// Suggestions filters the suggested connections.
func (s *NetworkService) Suggestions(ctx context.Context, actor model.ActorID, opts ListOptions) (*model.ListResponse[model.Suggestion], error) {
	_, span := tracing.Start(ctx, "network.suggestions", "actor", actor.String())
	defer span.End()

	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	return list("suggestions", catalog.Suggestions, ws.Suggestions(), opts), nil
}

// Connect sends a connection request to a suggested profile. The request
// stays pending until it is resolved externally.
func (s *NetworkService) Connect(ctx context.Context, actor model.ActorID, suggestionID, message string) (ConnectionRequest, error) {
	ctx, span := tracing.Start(ctx, "network.connect", "actor", actor.String(), "suggestion_id", suggestionID)
	var err error
	defer func() { tracing.End(span, err) }()

	ws, err := s.workspace(actor)
	if err != nil {
		return ConnectionRequest{}, err
	}
	sg, err := ws.Suggestion(suggestionID)
	if err != nil {
		return ConnectionRequest{}, s.rejected("connect", actor, err)
	}

	who := model.Counterpart{ProfileID: sg.ID, Name: sg.Name, Initials: sg.Initials, Role: sg.Role}
	rec, err := ws.Requests.Submit(actor, who, model.ConnectionRequest{
		Counterpart:       who,
		Message:           message,
		MutualConnections: sg.MutualConnections,
	})
	if err != nil {
		return ConnectionRequest{}, s.rejected("connect", actor, err)
	}

	metrics.RecordTransition(WorkflowConnections, string(rec.Status))
	s.logger.Info("connection request sent",
		logger.ActorField(actor.String()),
		zap.String("request_id", rec.ID),
		zap.String("counterpart", who.ProfileID),
	)
	s.publish(ctx, actor, model.EventRequestSubmitted, RequestPayload{
		Workflow: WorkflowConnections, RequestID: rec.ID, Status: rec.Status, Counterpart: who,
	})
	return rec, nil
}

// Requests lists connection requests matching f in arrival order.
func (s *NetworkService) Requests(ctx context.Context, actor model.ActorID, f workflow.Filter) ([]ConnectionRequest, error) {
	_, span := tracing.Start(ctx, "network.requests", "actor", actor.String())
	defer span.End()

	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	return ws.Requests.List(f), nil
}

// AcceptRequest accepts an incoming connection request.
func (s *NetworkService) AcceptRequest(ctx context.Context, actor model.ActorID, id string) (ConnectionRequest, error) {
	return s.decide(ctx, actor, id, model.StatusAccepted)
}

// DeclineRequest declines an incoming connection request.
func (s *NetworkService) DeclineRequest(ctx context.Context, actor model.ActorID, id string) (ConnectionRequest, error) {
	return s.decide(ctx, actor, id, model.StatusDeclined)
}

func (s *NetworkService) decide(ctx context.Context, actor model.ActorID, id string, to model.RequestStatus) (ConnectionRequest, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return ConnectionRequest{}, err
	}
	return decide(ctx, &s.base, ws.Requests, actor, id, to)
}

// decide runs a workflow transition with the shared logging, metrics, tracing
// and publishing.
func decide[T any](ctx context.Context, b *base, w *workflow.Workflow[T], actor model.ActorID, id string, to model.RequestStatus) (workflow.Record[T], error) {
	ctx, span := tracing.Start(ctx, w.Name()+"."+string(to), "actor", actor.String(), "request_id", id)
	var err error
	defer func() { tracing.End(span, err) }()

	op := w.Accept
	eventType := model.EventRequestAccepted
	if to == model.StatusDeclined {
		op = w.Decline
		eventType = model.EventRequestDeclined
	}

	rec, err := op(actor, id)
	if err != nil {
		return workflow.Record[T]{}, b.rejected(fmt.Sprintf("%s_%s", w.Name(), to), actor, err)
	}

	metrics.RecordTransition(w.Name(), string(rec.Status))
	b.logger.Info("request resolved",
		logger.ActorField(actor.String()),
		zap.String("workflow", w.Name()),
		zap.String("request_id", rec.ID),
		zap.String("status", string(rec.Status)),
	)
	b.publish(ctx, actor, eventType, RequestPayload{
		Workflow: w.Name(), RequestID: rec.ID, Status: rec.Status, Counterpart: rec.Counterpart,
	})
	return rec, nil
}
