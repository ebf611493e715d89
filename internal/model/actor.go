package model

// ActorID identifies the user on whose behalf a mutation is performed.
type ActorID string

// String implements fmt.Stringer.
func (a ActorID) String() string { return string(a) }

// Counterpart is a lightweight reference to the other party of a request or
// conversation, denormalized for list display.
type Counterpart struct {
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	Initials  string `json:"initials"`
	Role      string `json:"role"`
}
