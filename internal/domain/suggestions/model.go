package suggestions

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a suggestion id does not exist.
var ErrNotFound = errors.New("suggestion not found")

// ReviewStatus is the lifecycle state of a suggestion.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Suggestion is a user-submitted request to add or change a registry
// entry, subject to admin review. Only Review ever changes after
// creation.
type Suggestion struct {
	ID            int64
	Username      string
	DesiredStatus string
	Proof         string
	Reason        string
	SuggestedBy   string
	CreatedAt     time.Time
	Review        ReviewStatus
}
