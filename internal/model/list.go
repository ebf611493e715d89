package model

// ListResponse is a window of a filtered list.
type ListResponse[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// Badges are the counters shown in navigation chrome.
type Badges struct {
	UnreadMessages   int `json:"unread_messages"`
	PendingIntros    int `json:"pending_intros"`
	PendingRequests  int `json:"pending_requests"`
	PendingProposals int `json:"pending_proposals"`
}

// ProfileView is the acting user's profile with its edit state.
type ProfileView struct {
	Profile    OwnProfile  `json:"profile"`
	Draft      *OwnProfile `json:"draft,omitempty"`
	Editing    bool        `json:"editing"`
	Completion int         `json:"completion"`
}

// ProfilePatch carries edits to apply to the draft. Fields maps editable
// field names to new values.
type ProfilePatch struct {
	Fields          map[string]string `json:"fields,omitempty"`
	AddSkills       []string          `json:"add_skills,omitempty"`
	RemoveSkills    []string          `json:"remove_skills,omitempty"`
	AddInterests    []string          `json:"add_interests,omitempty"`
	RemoveInterests []string          `json:"remove_interests,omitempty"`
}

// ApplyRequest is the body of an application to an opportunity.
type ApplyRequest struct {
	Message string `json:"message"`
}

// ConnectRequest is the optional note attached to a connection request.
type ConnectRequest struct {
	Message string `json:"message"`
}
