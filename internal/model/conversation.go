package model

// Conversation is a chat thread with one counterpart.
type Conversation struct {
	ID          string      `json:"id"`
	Counterpart Counterpart `json:"counterpart"`
	Unread      int         `json:"unread"`
	Online      bool        `json:"online"`
	LastMessage *Message    `json:"last_message,omitempty"`
}

// Clone returns a deep copy of c.
func (c Conversation) Clone() Conversation {
	if c.LastMessage != nil {
		m := c.LastMessage.Clone()
		c.LastMessage = &m
	}
	return c
}
