package model

import (
	"encoding/json"
	"time"
)

// EventType names an applied mutation or an inbound external event.
type EventType string

const (
	// Outbound: mutations applied by the acting user's client.
	EventMessageSent        EventType = "message_sent"
	EventReactionToggled    EventType = "reaction_toggled"
	EventConversationRead   EventType = "conversation_read"
	EventRequestAccepted    EventType = "request_accepted"
	EventRequestDeclined    EventType = "request_declined"
	EventRequestSubmitted   EventType = "request_submitted"
	EventProfileSaved       EventType = "profile_saved"
	EventConversationOpened EventType = "conversation_opened"

	// Inbound: acknowledgments and counterpart activity.
	EventDelivery   EventType = "delivery"
	EventTyping     EventType = "typing"
	EventMessage    EventType = "message"
	EventReaction   EventType = "reaction"
	EventResolution EventType = "resolution"
	EventPresence   EventType = "presence"
)

// Event is the envelope exchanged on the event boundary.
type Event struct {
	ID        string          `json:"id"`
	Actor     ActorID         `json:"actor"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Sequence  uint64          `json:"sequence,omitempty"`
}

// DeliveryPayload acknowledges delivery progress of a self-authored message.
type DeliveryPayload struct {
	ConversationID string         `json:"conversation_id"`
	MessageID      string         `json:"message_id"`
	Status         DeliveryStatus `json:"status"`
}

// TypingPayload carries the counterpart's current typing state.
type TypingPayload struct {
	ConversationID string `json:"conversation_id"`
	Typing         bool   `json:"typing"`
}

// PresencePayload carries the counterpart's online state.
type PresencePayload struct {
	ConversationID string `json:"conversation_id"`
	Online         bool   `json:"online"`
}

// InboundMessagePayload is a message written by the counterpart.
type InboundMessagePayload struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// ReactionPayload is a counterpart reaction being added or removed.
type ReactionPayload struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	Emoji          string `json:"emoji"`
	Added          bool   `json:"added"`
}

// ResolutionPayload resolves an outgoing request externally.
type ResolutionPayload struct {
	Workflow  string        `json:"workflow"`
	RequestID string        `json:"request_id"`
	Status    RequestStatus `json:"status"`
}
