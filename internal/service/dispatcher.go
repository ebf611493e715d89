package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/pkg/logger"
	"github.com/cofounderbay/networking-core/pkg/metrics"
	"github.com/cofounderbay/networking-core/pkg/tracing"
)

// Dispatcher applies inbound events to the acting user's stores through the
// same operations the bridge uses. Events are applied one at a time in
// arrival order.
type Dispatcher struct {
	registry *Registry
	logger   *logger.Logger
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(registry *Registry, log *logger.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: log}
}

// Apply applies event. Errors are the core's recoverable errors or a
// malformed payload; in both cases state is unchanged.
func (d *Dispatcher) Apply(ctx context.Context, event *model.Event) error {
	_, span := tracing.Start(ctx, "dispatch."+string(event.Type), "actor", event.Actor.String(), "event_id", event.ID)
	var err error
	defer func() { tracing.End(span, err) }()

	err = d.apply(event)
	status := "ok"
	if err != nil {
		status = Reason(err)
		d.logger.Warn("inbound event rejected",
			logger.ActorField(event.Actor.String()),
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
	metrics.EventsAppliedTotal.WithLabelValues(string(event.Type), status).Inc()
	return err
}

func (d *Dispatcher) apply(event *model.Event) error {
	ws, err := d.registry.Workspace(event.Actor)
	if err != nil {
		return err
	}

	switch event.Type {
	case model.EventDelivery:
		var p model.DeliveryPayload
		if err := decode(event, &p); err != nil {
			return err
		}
		msg, err := ws.Threads.AdvanceDelivery(p.ConversationID, p.MessageID, p.Status)
		if err != nil {
			return err
		}
		metrics.DeliveryUpdatesTotal.WithLabelValues(string(msg.DeliveryStatus)).Inc()
		return nil

	case model.EventTyping:
		var p model.TypingPayload
		if err := decode(event, &p); err != nil {
			return err
		}
		return ws.Threads.SetTyping(p.ConversationID, p.Typing)

	case model.EventPresence:
		var p model.PresencePayload
		if err := decode(event, &p); err != nil {
			return err
		}
		return ws.Threads.SetOnline(p.ConversationID, p.Online)

	case model.EventMessage:
		var p model.InboundMessagePayload
		if err := decode(event, &p); err != nil {
			return err
		}
		if _, err := ws.Threads.ReceiveMessage(p.ConversationID, p.Text); err != nil {
			return err
		}
		metrics.MessagesTotal.WithLabelValues(string(model.SenderCounterpart)).Inc()
		return nil

	case model.EventReaction:
		var p model.ReactionPayload
		if err := decode(event, &p); err != nil {
			return err
		}
		_, err := ws.Threads.ReceiveReaction(p.ConversationID, p.MessageID, p.Emoji, p.Added)
		return err

	case model.EventResolution:
		var p model.ResolutionPayload
		if err := decode(event, &p); err != nil {
			return err
		}
		return d.resolve(ws, p)

	default:
		return fmt.Errorf("event type %q: %w", event.Type, model.ErrUnknownField)
	}
}

// resolve applies the counterpart's answer to an outgoing request.
func (d *Dispatcher) resolve(ws *Workspace, p model.ResolutionPayload) error {
	switch p.Workflow {
	case WorkflowConnections:
		rec, err := ws.Requests.Resolve(p.RequestID, p.Status)
		if err != nil {
			return err
		}
		if rec.Status == model.StatusAccepted {
			ws.AddConnection(rec.Counterpart, rec.Payload.MutualConnections)
		}
		metrics.RecordTransition(WorkflowConnections, string(rec.Status))
		return nil
	case WorkflowApplications:
		rec, err := ws.Applications.Resolve(p.RequestID, p.Status)
		if err != nil {
			return err
		}
		metrics.RecordTransition(WorkflowApplications, string(rec.Status))
		return nil
	default:
		return fmt.Errorf("workflow %q: %w", p.Workflow, model.ErrUnknownField)
	}
}

func decode(event *model.Event, v any) error {
	if err := json.Unmarshal(event.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}
	return nil
}
