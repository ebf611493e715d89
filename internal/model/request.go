package model

import (
	"time"
)

// Direction tells whether a request was received or sent by the acting user.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// RequestStatus is the tri-state outcome of a request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusDeclined RequestStatus = "declined"
)

// Terminal reports whether no further transition is allowed out of s.
func (s RequestStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	return s == StatusPending || s.Terminal()
}

// ConnectionRequest is an intro or connection request.
type ConnectionRequest struct {
	Counterpart       Counterpart `json:"counterpart"`
	Message           string      `json:"message,omitempty"`
	MutualConnections int         `json:"mutual_connections,omitempty"`
}

// Proposal is a collaboration or investment offer.
type Proposal struct {
	Counterpart  Counterpart `json:"counterpart"`
	Scope        string      `json:"scope"`
	Timeframe    string      `json:"timeframe"`
	Compensation string      `json:"compensation"`
}

// Application is the acting user's application to an opportunity.
type Application struct {
	OpportunityID    string `json:"opportunity_id,omitempty"`
	OpportunityTitle string `json:"opportunity_title"`
	OrgName          string `json:"org_name"`
	Message          string `json:"message"`
	// Reviewing is a display hint set by the listing service while the
	// application is still pending.
	Reviewing bool `json:"reviewing,omitempty"`
}

// CounterpartRef returns a reference usable as a workflow counterpart key.
func (a Application) CounterpartRef() Counterpart {
	return Counterpart{ProfileID: a.OpportunityID, Name: a.OrgName}
}

// Timestamps common to workflow records.
type Timestamps struct {
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
