// Package model defines data structures for the networking core.
package model

import (
	"fmt"
)

// Role is the directory role of a profile.
type Role string

const (
	RoleFounder      Role = "Founder"
	RoleInvestor     Role = "Investor"
	RoleProfessional Role = "Professional"
	RoleMentor       Role = "Mentor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFounder, RoleInvestor, RoleProfessional, RoleMentor:
		return true
	}
	return false
}

// Profile is a read-only directory record.
type Profile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Role         Role     `json:"role"`
	Headline     string   `json:"headline"`
	Skills       []string `json:"skills"`
	Location     string   `json:"location"`
	Availability string   `json:"availability"`
	MatchScore   int      `json:"match_score"`
	Stage        string   `json:"stage"`
	LookingFor   string   `json:"looking_for"`
}

// Validate checks the invariants a directory record must satisfy before it is
// loaded.
func (p Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile: empty id")
	}
	if !p.Role.Valid() {
		return fmt.Errorf("profile %s: unknown role %q", p.ID, p.Role)
	}
	if p.MatchScore < 0 || p.MatchScore > 100 {
		return fmt.Errorf("profile %s: match score %d out of range", p.ID, p.MatchScore)
	}
	return nil
}

// Connection is an established relationship shown on the network page.
type Connection struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Initials          string   `json:"initials"`
	Role              string   `json:"role"`
	Company           string   `json:"company"`
	Location          string   `json:"location"`
	ConnectedSince    string   `json:"connected_since"`
	MutualConnections int      `json:"mutual_connections"`
	Online            bool     `json:"online"`
	Skills            []string `json:"skills"`
}

// Suggestion is a suggested connection with a static match score.
type Suggestion struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Initials          string   `json:"initials"`
	Role              string   `json:"role"`
	Company           string   `json:"company"`
	MatchScore        int      `json:"match_score"`
	Reason            string   `json:"reason"`
	MutualConnections int      `json:"mutual_connections"`
	Skills            []string `json:"skills"`
}

// OwnProfile is the acting user's editable profile.
type OwnProfile struct {
	Name         string   `json:"name"`
	Headline     string   `json:"headline"`
	Bio          string   `json:"bio"`
	Location     string   `json:"location"`
	Availability string   `json:"availability"`
	Email        string   `json:"email"`
	LinkedIn     string   `json:"linkedin"`
	GitHub       string   `json:"github"`
	Website      string   `json:"website"`
	Skills       []string `json:"skills"`
	Interests    []string `json:"interests"`
	Stage        string   `json:"stage"`
	Commitment   string   `json:"commitment"`
	Compensation string   `json:"compensation"`
	LookingFor   string   `json:"looking_for"`
}

// Clone returns a deep copy of p.
func (p OwnProfile) Clone() OwnProfile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Interests = append([]string(nil), p.Interests...)
	return p
}
