package entity

import "time"

// Job statuses. The first six form the application pipeline; the rest are
// terminal or housekeeping states.
const (
	StatusBookmarked   = "Bookmarked"
	StatusApplying     = "Applying"
	StatusApplied      = "Applied"
	StatusInterviewing = "Interviewing"
	StatusNegotiating  = "Negotiating"
	StatusAccepted     = "Accepted"
	StatusWithdrew     = "I Withdrew"
	StatusNotSelected  = "Not Selected"
	StatusNoResponse   = "No Response"
	StatusArchived     = "Archived"
)

// PipelineStatuses in pipeline order.
var PipelineStatuses = []string{
	StatusBookmarked,
	StatusApplying,
	StatusApplied,
	StatusInterviewing,
	StatusNegotiating,
	StatusAccepted,
}

// AllStatuses is every status a job may hold.
var AllStatuses = []string{
	StatusBookmarked,
	StatusApplying,
	StatusApplied,
	StatusInterviewing,
	StatusNegotiating,
	StatusAccepted,
	StatusWithdrew,
	StatusNotSelected,
	StatusNoResponse,
	StatusArchived,
}

// ValidStatus reports whether s is a known job status.
func ValidStatus(s string) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Job is a tracked job posting owned by a single user.
type Job struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"-"`
	Position       string     `json:"position"`
	Company        string     `json:"company"`
	Location       string     `json:"location,omitempty"`
	MinSalary      *int64     `json:"minSalary,omitempty"`
	MaxSalary      *int64     `json:"maxSalary,omitempty"`
	Status         string     `json:"status"`
	DateSaved      time.Time  `json:"dateSaved"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	DateApplied    *time.Time `json:"dateApplied,omitempty"`
	FollowUp       *time.Time `json:"followUp,omitempty"`
	Excitement     int        `json:"excitement"`
	JobDescription string     `json:"jobDescription,omitempty"`
	Keywords       []string   `json:"keywords"`
	Link           string     `json:"link,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	AttachmentURL  string     `json:"attachmentUrl,omitempty"`
	Archived       bool       `json:"archived"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
