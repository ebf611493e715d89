package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/cofounderbay/networking-core/internal/catalog"
	"github.com/cofounderbay/networking-core/internal/model"
	"github.com/cofounderbay/networking-core/internal/workflow"
	"github.com/cofounderbay/networking-core/pkg/logger"
	"github.com/cofounderbay/networking-core/pkg/metrics"
	"github.com/cofounderbay/networking-core/pkg/tracing"
)

// IntroRequest is an intro request record.
type IntroRequest = workflow.Record[model.ConnectionRequest]

// MessagingService handles conversations, intro requests and badges.
type MessagingService struct {
	base
}

// NewMessagingService creates a new messaging service.
func NewMessagingService(registry *Registry, publisher EventPublisher, log *logger.Logger) *MessagingService {
	return &MessagingService{base: base{registry: registry, publisher: publisher, logger: log}}
}

// Conversations filters the conversation list. Without an explicit sort the
// most recently active conversation comes first.
func (s *MessagingService) Conversations(ctx context.Context, actor model.ActorID, opts ListOptions) (*model.ListResponse[model.Conversation], error) {
	_, span := tracing.Start(ctx, "messaging.conversations", "actor", actor.String())
	defer span.End()

	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	if opts.Query.Sort == "" {
		opts.Query = opts.Query.Sorted("recent", true)
	}
	return list("conversations", catalog.Conversations, ws.Threads.Conversations(), opts), nil
}

// Messages returns the log of a conversation and whether the counterpart is
// typing.
func (s *MessagingService) Messages(ctx context.Context, actor model.ActorID, conversationID string) (*model.ListMessagesResponse, error) {
	_, span := tracing.Start(ctx, "messaging.messages", "actor", actor.String(), "conversation_id", conversationID)
	defer span.End()

	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	msgs, err := ws.Threads.ListMessages(conversationID)
	if err != nil {
		return nil, err
	}
	typing, err := ws.Threads.Typing(conversationID)
	if err != nil {
		return nil, err
	}
	return &model.ListMessagesResponse{Messages: msgs, Typing: typing}, nil
}

// Send appends a message written by the acting user.
func (s *MessagingService) Send(ctx context.Context, actor model.ActorID, conversationID string, req *model.SendMessageRequest) (model.Message, error) {
	ctx, span := tracing.Start(ctx, "messaging.send", "actor", actor.String(), "conversation_id", conversationID)
	var err error
	defer func() { tracing.End(span, err) }()

	ws, err := s.workspace(actor)
	if err != nil {
		return model.Message{}, err
	}
	msg, err := ws.Threads.SendMessage(actor, conversationID, req.Text)
	if err != nil {
		return model.Message{}, s.rejected("send_message", actor, err)
	}

	metrics.MessagesTotal.WithLabelValues(string(model.SenderSelf)).Inc()
	s.logger.Info("message sent",
		logger.ActorField(actor.String()),
		zap.String("conversation_id", conversationID),
		zap.String("message_id", msg.ID),
	)
	s.publish(ctx, actor, model.EventMessageSent, MessageSentPayload{Message: msg})
	return msg, nil
}

// ToggleReaction adds or removes the acting user's reaction on a message.
func (s *MessagingService) ToggleReaction(ctx context.Context, actor model.ActorID, conversationID, messageID string, req *model.ToggleReactionRequest) (model.Message, error) {
	ctx, span := tracing.Start(ctx, "messaging.toggle_reaction",
		"actor", actor.String(), "conversation_id", conversationID, "message_id", messageID)
	var err error
	defer func() { tracing.End(span, err) }()

	ws, err := s.workspace(actor)
	if err != nil {
		return model.Message{}, err
	}
	msg, err := ws.Threads.ToggleReaction(actor, conversationID, messageID, req.Emoji)
	if err != nil {
		return model.Message{}, s.rejected("toggle_reaction", actor, err)
	}

	added := msg.Reactions[req.Emoji].ReactedBySelf
	action := "removed"
	if added {
		action = "added"
	}
	metrics.ReactionsTotal.WithLabelValues(action).Inc()
	s.logger.Debug("reaction toggled",
		logger.ActorField(actor.String()),
		zap.String("message_id", messageID),
		zap.String("action", action),
	)
	s.publish(ctx, actor, model.EventReactionToggled, ReactionToggledPayload{
		ConversationID: conversationID, MessageID: messageID, Emoji: req.Emoji, Added: added,
	})
	return msg, nil
}

// MarkRead clears the unread counter of a conversation.
func (s *MessagingService) MarkRead(ctx context.Context, actor model.ActorID, conversationID string) (model.Conversation, error) {
	ctx, span := tracing.Start(ctx, "messaging.mark_read", "actor", actor.String(), "conversation_id", conversationID)
	var err error
	defer func() { tracing.End(span, err) }()

	ws, err := s.workspace(actor)
	if err != nil {
		return model.Conversation{}, err
	}
	conv, err := ws.Threads.MarkRead(actor, conversationID)
	if err != nil {
		return model.Conversation{}, s.rejected("mark_read", actor, err)
	}
	s.publish(ctx, actor, model.EventConversationRead, ConversationPayload{
		ConversationID: conv.ID, Counterpart: conv.Counterpart,
	})
	return conv, nil
}

// Typing reports whether the counterpart of a conversation is typing.
func (s *MessagingService) Typing(ctx context.Context, actor model.ActorID, conversationID string) (bool, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return false, err
	}
	return ws.Threads.Typing(conversationID)
}

// Intros lists intro requests matching f.
func (s *MessagingService) Intros(ctx context.Context, actor model.ActorID, f workflow.Filter) ([]IntroRequest, error) {
	_, span := tracing.Start(ctx, "messaging.intros", "actor", actor.String())
	defer span.End()

	ws, err := s.workspace(actor)
	if err != nil {
		return nil, err
	}
	return ws.Intros.List(f), nil
}

// AcceptIntro accepts an incoming intro request and opens a conversation with
// the counterpart if none exists. Only a newly opened conversation is
// published.
func (s *MessagingService) AcceptIntro(ctx context.Context, actor model.ActorID, id string) (IntroRequest, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return IntroRequest{}, err
	}
	rec, err := decide(ctx, &s.base, ws.Intros, actor, id, model.StatusAccepted)
	if err != nil {
		return IntroRequest{}, err
	}
	s.publishOpened(ctx, ws, WorkflowIntros, rec.ID)
	return rec, nil
}

// DeclineIntro declines an incoming intro request.
func (s *MessagingService) DeclineIntro(ctx context.Context, actor model.ActorID, id string) (IntroRequest, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return IntroRequest{}, err
	}
	return decide(ctx, &s.base, ws.Intros, actor, id, model.StatusDeclined)
}

// Badges returns the navigation counters of the acting user.
func (s *MessagingService) Badges(ctx context.Context, actor model.ActorID) (model.Badges, error) {
	ws, err := s.workspace(actor)
	if err != nil {
		return model.Badges{}, err
	}
	return ws.Badges(), nil
}
