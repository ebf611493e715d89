// Package thread owns the per-conversation message logs of the acting user:
// optimistic send, delivery acknowledgments, reactions, unread counters and
// typing state.
package thread

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cofounderbay/networking-core/internal/model"
)

type conversation struct {
	meta     model.Conversation
	messages []*model.Message
	index    map[string]int
	typing   bool
}

func (c *conversation) find(messageID string) (*model.Message, bool) {
	i, ok := c.index[messageID]
	if !ok {
		return nil, false
	}
	return c.messages[i], true
}

func (c *conversation) append(msg *model.Message) {
	c.index[msg.ID] = len(c.messages)
	c.messages = append(c.messages, msg)
}

// refreshLast keeps the denormalized last message in sync with the log tail.
func (c *conversation) refreshLast() {
	if len(c.messages) == 0 {
		return
	}
	last := c.messages[len(c.messages)-1].Clone()
	c.meta.LastMessage = &last
}

func (c *conversation) snapshot() model.Conversation {
	return c.meta.Clone()
}

// Store is the single source of truth for conversations and messages of one
// acting user. Operations are serialized and applied strictly in call order.
type Store struct {
	owner model.ActorID

	mu            sync.Mutex
	conversations map[string]*conversation
	order         []string
	byCounterpart map[string]string
	last          time.Time

	clock func() time.Time
	newID func() string
}

// NewStore creates an empty store for owner.
func NewStore(owner model.ActorID) *Store {
	return &Store{
		owner:         owner,
		conversations: make(map[string]*conversation),
		byCounterpart: make(map[string]string),
		clock:         time.Now,
		newID:         func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Owner returns the acting user this store belongs to.
func (s *Store) Owner() model.ActorID { return s.owner }

// now returns a timestamp strictly after every timestamp handed out before.
func (s *Store) now() time.Time {
	t := s.clock()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

func (s *Store) get(conversationID string) (*conversation, error) {
	c, ok := s.conversations[conversationID]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, model.ErrConversationNotFound)
	}
	return c, nil
}

func (s *Store) authorize(actor model.ActorID) error {
	if actor != s.owner {
		return fmt.Errorf("actor %s: %w", actor, model.ErrNotAuthorized)
	}
	return nil
}

// AddConversation loads a conversation and its existing messages, typically
// from seed data. Messages keep their ids and timestamps and must be in
// chronological order.
func (s *Store) AddConversation(conv model.Conversation, messages []model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv.ID == "" {
		return fmt.Errorf("add conversation: empty id")
	}
	if _, exists := s.conversations[conv.ID]; exists {
		return fmt.Errorf("add conversation %s: already exists", conv.ID)
	}
	if conv.Unread < 0 {
		return fmt.Errorf("add conversation %s: negative unread count", conv.ID)
	}

	c := &conversation{meta: conv.Clone(), index: make(map[string]int, len(messages))}
	var prev time.Time
	for _, m := range messages {
		if _, dup := c.index[m.ID]; dup || m.ID == "" {
			return fmt.Errorf("add conversation %s: invalid message id %q", conv.ID, m.ID)
		}
		if m.CreatedAt.Before(prev) {
			return fmt.Errorf("add conversation %s: message %s out of order", conv.ID, m.ID)
		}
		prev = m.CreatedAt

		msg := m.Clone()
		msg.ConversationID = conv.ID
		if msg.Sender == model.SenderSelf && msg.DeliveryStatus == "" {
			msg.DeliveryStatus = model.DeliverySent
		}
		for emoji, r := range msg.Reactions {
			if r.Count < 1 {
				delete(msg.Reactions, emoji)
			}
		}
		c.append(&msg)
	}
	c.refreshLast()
	if prev.After(s.last) {
		s.last = prev
	}

	s.conversations[conv.ID] = c
	s.order = append(s.order, conv.ID)
	if conv.Counterpart.ProfileID != "" {
		s.byCounterpart[conv.Counterpart.ProfileID] = conv.ID
	}
	return nil
}

// EnsureConversation returns the conversation with counterpart, creating an
// empty one if none exists. The boolean reports whether it was created.
func (s *Store) EnsureConversation(counterpart model.Counterpart) (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byCounterpart[counterpart.ProfileID]; ok && counterpart.ProfileID != "" {
		return s.conversations[id].snapshot(), false
	}

	c := &conversation{
		meta:  model.Conversation{ID: s.newID(), Counterpart: counterpart},
		index: make(map[string]int),
	}
	s.conversations[c.meta.ID] = c
	s.order = append(s.order, c.meta.ID)
	if counterpart.ProfileID != "" {
		s.byCounterpart[counterpart.ProfileID] = c.meta.ID
	}
	return c.snapshot(), true
}

// SendMessage appends a self-authored message optimistically and returns it.
// The actor is reading the thread it writes to, so the unread counter resets.
func (s *Store) SendMessage(actor model.ActorID, conversationID, text string) (model.Message, error) {
	if err := s.authorize(actor); err != nil {
		return model.Message{}, err
	}
	if strings.TrimSpace(text) == "" {
		return model.Message{}, fmt.Errorf("send to %s: %w", conversationID, model.ErrEmptyMessage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return model.Message{}, err
	}

	msg := &model.Message{
		ID:             s.newID(),
		ConversationID: conversationID,
		Sender:         model.SenderSelf,
		Text:           text,
		CreatedAt:      s.now(),
		DeliveryStatus: model.DeliverySent,
		Reactions:      map[string]model.Reaction{},
	}
	c.append(msg)
	c.meta.Unread = 0
	c.refreshLast()

	return msg.Clone(), nil
}

// ReceiveMessage appends a counterpart message delivered by an external
// event. It bumps the unread counter and clears the typing indicator.
func (s *Store) ReceiveMessage(conversationID, text string) (model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return model.Message{}, fmt.Errorf("receive in %s: %w", conversationID, model.ErrEmptyMessage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return model.Message{}, err
	}

	msg := &model.Message{
		ID:             s.newID(),
		ConversationID: conversationID,
		Sender:         model.SenderCounterpart,
		Text:           text,
		CreatedAt:      s.now(),
		Reactions:      map[string]model.Reaction{},
	}
	c.append(msg)
	c.meta.Unread++
	c.typing = false
	c.refreshLast()

	return msg.Clone(), nil
}

// ToggleReaction adds the actor's emoji reaction to a message, or removes it
// if already present. Toggling twice leaves the reactions unchanged.
func (s *Store) ToggleReaction(actor model.ActorID, conversationID, messageID, emoji string) (model.Message, error) {
	if err := s.authorize(actor); err != nil {
		return model.Message{}, err
	}
	if strings.TrimSpace(emoji) == "" {
		return model.Message{}, fmt.Errorf("react on %s: %w", messageID, model.ErrEmptyReaction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return model.Message{}, err
	}
	msg, ok := c.find(messageID)
	if !ok {
		return model.Message{}, fmt.Errorf("react on %s in %s: %w", messageID, conversationID, model.ErrMessageNotFound)
	}

	if msg.Reactions == nil {
		msg.Reactions = map[string]model.Reaction{}
	}
	r, exists := msg.Reactions[emoji]
	switch {
	case exists && r.ReactedBySelf:
		r.Count--
		r.ReactedBySelf = false
	default:
		r.Count++
		r.ReactedBySelf = true
	}
	if r.Count <= 0 {
		delete(msg.Reactions, emoji)
	} else {
		msg.Reactions[emoji] = r
	}
	c.refreshLast()

	return msg.Clone(), nil
}

// ReceiveReaction applies a counterpart reaction being added or removed.
// Removing a reaction the counterpart does not hold is a no-op.
func (s *Store) ReceiveReaction(conversationID, messageID, emoji string, added bool) (model.Message, error) {
	if strings.TrimSpace(emoji) == "" {
		return model.Message{}, fmt.Errorf("react on %s: %w", messageID, model.ErrEmptyReaction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return model.Message{}, err
	}
	msg, ok := c.find(messageID)
	if !ok {
		return model.Message{}, fmt.Errorf("react on %s in %s: %w", messageID, conversationID, model.ErrMessageNotFound)
	}

	if msg.Reactions == nil {
		msg.Reactions = map[string]model.Reaction{}
	}
	r := msg.Reactions[emoji]
	others := r.Count
	if r.ReactedBySelf {
		others--
	}
	switch {
	case added:
		r.Count++
	case others > 0:
		r.Count--
	}
	if r.Count <= 0 {
		delete(msg.Reactions, emoji)
	} else {
		msg.Reactions[emoji] = r
	}
	c.refreshLast()

	return msg.Clone(), nil
}

// AdvanceDelivery moves a self-authored message forward along
// sent -> delivered -> read. Setting the current status again is a no-op.
func (s *Store) AdvanceDelivery(conversationID, messageID string, status model.DeliveryStatus) (model.Message, error) {
	if !status.Valid() {
		return model.Message{}, fmt.Errorf("delivery %q for %s: %w", status, messageID, model.ErrInvalidStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return model.Message{}, err
	}
	msg, ok := c.find(messageID)
	if !ok {
		return model.Message{}, fmt.Errorf("delivery for %s in %s: %w", messageID, conversationID, model.ErrMessageNotFound)
	}
	if msg.Sender != model.SenderSelf {
		return model.Message{}, fmt.Errorf("delivery for counterpart message %s: %w", messageID, model.ErrNotAuthorized)
	}
	if status.Rank() < msg.DeliveryStatus.Rank() {
		return model.Message{}, fmt.Errorf("delivery for %s %s -> %s: %w", messageID, msg.DeliveryStatus, status, model.ErrInvalidStatusRegression)
	}

	msg.DeliveryStatus = status
	c.refreshLast()

	return msg.Clone(), nil
}

// MarkRead clears the unread counter of a conversation.
func (s *Store) MarkRead(actor model.ActorID, conversationID string) (model.Conversation, error) {
	if err := s.authorize(actor); err != nil {
		return model.Conversation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return model.Conversation{}, err
	}
	c.meta.Unread = 0
	return c.snapshot(), nil
}

// SetTyping records the latest "counterpart is typing" signal.
func (s *Store) SetTyping(conversationID string, typing bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return err
	}
	c.typing = typing
	return nil
}

// Typing reports whether the counterpart is currently typing.
func (s *Store) Typing(conversationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return false, err
	}
	return c.typing, nil
}

// SetOnline records the counterpart's presence.
func (s *Store) SetOnline(conversationID string, online bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return err
	}
	c.meta.Online = online
	return nil
}

// ListMessages returns a fresh copy of the conversation's messages in
// insertion order.
func (s *Store) ListMessages(conversationID string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.Clone()
	}
	return out, nil
}

// Conversation returns a copy of one conversation.
func (s *Store) Conversation(conversationID string) (model.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(conversationID)
	if err != nil {
		return model.Conversation{}, err
	}
	return c.snapshot(), nil
}

// Conversations returns copies of all conversations in insertion order.
func (s *Store) Conversations() []model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.conversations[id].snapshot())
	}
	return out
}

// TotalUnread sums unread counters across conversations.
func (s *Store) TotalUnread() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, c := range s.conversations {
		total += c.meta.Unread
	}
	return total
}
