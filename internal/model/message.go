package model

import (
	"time"
)

// Sender identifies the author of a message relative to the acting user.
type Sender string

const (
	SenderSelf        Sender = "self"
	SenderCounterpart Sender = "counterpart"
)

// DeliveryStatus tracks a self-authored message through acknowledgment.
type DeliveryStatus string

const (
	DeliverySent      DeliveryStatus = "sent"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryRead      DeliveryStatus = "read"
)

// Rank orders delivery statuses; unknown statuses rank 0.
func (s DeliveryStatus) Rank() int {
	switch s {
	case DeliverySent:
		return 1
	case DeliveryDelivered:
		return 2
	case DeliveryRead:
		return 3
	}
	return 0
}

// Valid reports whether s is a known status.
func (s DeliveryStatus) Valid() bool { return s.Rank() > 0 }

// Reaction aggregates one emoji on one message. Count is always >= 1.
type Reaction struct {
	Count         int  `json:"count"`
	ReactedBySelf bool `json:"reacted_by_self"`
}

// Message is a chat message.
type Message struct {
	ID             string              `json:"id"`
	ConversationID string              `json:"conversation_id"`
	Sender         Sender              `json:"sender"`
	Text           string              `json:"text"`
	CreatedAt      time.Time           `json:"created_at"`
	DeliveryStatus DeliveryStatus      `json:"delivery_status,omitempty"`
	Reactions      map[string]Reaction `json:"reactions"`
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	reactions := make(map[string]Reaction, len(m.Reactions))
	for emoji, r := range m.Reactions {
		reactions[emoji] = r
	}
	m.Reactions = reactions
	return m
}

// SendMessageRequest is the request to send a new message.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// ToggleReactionRequest is the request to toggle a reaction.
type ToggleReactionRequest struct {
	Emoji string `json:"emoji"`
}

// ListMessagesResponse is the response for listing messages.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
	Typing   bool      `json:"typing"`
}
