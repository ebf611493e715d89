package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/pkg/logger"
	"github.com/cofounderbay/networking-core/pkg/metrics"
)

// EventPublisher records applied mutations on the event log.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *model.Event) (uint64, error)
}

// base carries what every service shares.
type base struct {
	registry  *Registry
	publisher EventPublisher
	logger    *logger.Logger
}

func (b *base) workspace(actor model.ActorID) (*Workspace, error) {
	return b.registry.Workspace(actor)
}

// publish records an applied mutation. The local store is authoritative, so
// a publish failure is logged and never undoes the mutation.
// publishOpened publishes the conversation opened by accepting a request, if
// the accept created one.
func (b *base) publishOpened(ctx context.Context, ws *Workspace, workflowName, requestID string) {
	conv, ok := ws.TakeOpened(workflowName, requestID)
	if !ok {
		return
	}
	b.publish(ctx, ws.Actor, model.EventConversationOpened, ConversationPayload{
		ConversationID: conv.ID, Counterpart: conv.Counterpart,
	})
}

func (b *base) publish(ctx context.Context, actor model.ActorID, eventType model.EventType, payload any) {
	if b.publisher == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("failed to marshal event payload",
			zap.String("type", string(eventType)),
			zap.Error(err),
		)
		return
	}

	event := &model.Event{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Actor:     actor,
		Type:      eventType,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	}
	seq, err := b.publisher.PublishEvent(ctx, event)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(eventType), "error").Inc()
		b.logger.Warn("failed to publish event",
			logger.ActorField(actor.String()),
			zap.String("type", string(eventType)),
			zap.Error(err),
		)
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(string(eventType), "ok").Inc()
	b.logger.Debug("event published",
		zap.String("event_id", event.ID),
		zap.String("type", string(eventType)),
		zap.Uint64("sequence", seq),
	)
}

// rejected counts and logs a refused mutation, and returns err unchanged.
func (b *base) rejected(operation string, actor model.ActorID, err error) error {
	metrics.RecordRejected(operation, Reason(err))
	b.logger.Debug("mutation rejected",
		zap.String("operation", operation),
		logger.ActorField(actor.String()),
		zap.Error(err),
	)
	return err
}

// Reason returns a stable label for a core error.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, model.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, model.ErrEmptyMessage):
		return "empty_message"
	case errors.Is(err, model.ErrMessageNotFound):
		return "message_not_found"
	case errors.Is(err, model.ErrInvalidStatusRegression):
		return "status_regression"
	case errors.Is(err, model.ErrRequestNotFound):
		return "request_not_found"
	case errors.Is(err, model.ErrConversationNotFound):
		return "conversation_not_found"
	case errors.Is(err, model.ErrDuplicateRequest):
		return "duplicate_request"
	case errors.Is(err, model.ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, model.ErrNotEditing):
		return "not_editing"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrEmptyReaction):
		return "empty_reaction"
	case errors.Is(err, model.ErrInvalidStatus):
		return "invalid_status"
	default:
		return "internal"
	}
}

// Outbound event payloads.

// MessageSentPayload records a message appended by the acting user.
type MessageSentPayload struct {
	Message model.Message `json:"message"`
}

// ReactionToggledPayload records a self reaction change.
type ReactionToggledPayload struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	Emoji          string `json:"emoji"`
	Added          bool   `json:"added"`
}

// ConversationPayload names a conversation.
type ConversationPayload struct {
	ConversationID string            `json:"conversation_id"`
	Counterpart    model.Counterpart `json:"counterpart"`
}

// RequestPayload records a workflow transition or submission.
type RequestPayload struct {
	Workflow    string              `json:"workflow"`
	RequestID   string              `json:"request_id"`
	Status      model.RequestStatus `json:"status"`
	Counterpart model.Counterpart   `json:"counterpart"`
}
