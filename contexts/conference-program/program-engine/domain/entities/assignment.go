package entities

import "time"

type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusInReview  AssignmentStatus = "in_review"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

// BulkAssignment links a reviewer to a submission through the equitable
// allocation pass. An event's bulk assignments are replaced on every run.
type BulkAssignment struct {
	AssignmentID string
	EventID      string
	ReviewerID   string
	SubmissionID string
	Status       AssignmentStatus
	Generation   int64
	CreatedAt    time.Time
}

// ManualAssignment is the single reviewer binding for a submission. At most
// one exists per submission.
type ManualAssignment struct {
	AssignmentID string
	SubmissionID string
	ReviewerID   string
	AssignedBy   string
	Status       AssignmentStatus
	AssignedAt   time.Time
	UpdatedAt    time.Time
}

type ReviewerLoad struct {
	ReviewerID string
	Count      int
}

type ReviewerWorkload struct {
	ReviewerID  string
	BulkCount   int
	ManualCount int
}
