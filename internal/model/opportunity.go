package model

// OpportunityType classifies a listing.
type OpportunityType string

const (
	OpportunityCofounder OpportunityType = "cofounder"
	OpportunityJob       OpportunityType = "job"
	OpportunityFreelance OpportunityType = "freelance"
)

// Opportunity is a read-only listing.
type Opportunity struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	OrgName      string          `json:"org_name"`
	OrgInitials  string          `json:"org_initials"`
	Type         OpportunityType `json:"type"`
	Description  string          `json:"description"`
	Skills       []string        `json:"skills"`
	Location     string          `json:"location"`
	Compensation string          `json:"compensation"`
	Stage        string          `json:"stage"`
	Posted       string          `json:"posted"`
	Applicants   int             `json:"applicants"`
}
