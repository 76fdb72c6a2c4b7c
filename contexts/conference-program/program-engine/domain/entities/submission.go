package entities

import (
	"strings"
	"time"
)

type SubmissionStatus string

const (
	SubmissionStatusPending             SubmissionStatus = "pending"
	SubmissionStatusApproved            SubmissionStatus = "approved"
	SubmissionStatusApprovedWithChanges SubmissionStatus = "approved_with_changes"
	SubmissionStatusRejected            SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending,
		SubmissionStatusApproved,
		SubmissionStatusApprovedWithChanges,
		SubmissionStatusRejected:
		return true
	default:
		return false
	}
}

// Submission carries two reviewer relations that are maintained independently:
// AssignedReviewerIDs is owned by bulk allocation and AssignedReviewerID by the
// manual registry. Neither takes precedence over the other.
type Submission struct {
	SubmissionID        string
	EventID             string
	Title               string
	AuthorID            string
	Status              SubmissionStatus
	TopicID             string
	SessionID           string
	AssignedReviewerIDs []string
	AssignedReviewerID  string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (s Submission) HasTopic() bool {
	return strings.TrimSpace(s.TopicID) != ""
}

func (s Submission) IsScheduled() bool {
	return strings.TrimSpace(s.SessionID) != ""
}

func (s Submission) HasBulkReviewer(reviewerID string) bool {
	for _, id := range s.AssignedReviewerIDs {
		if id == reviewerID {
			return true
		}
	}
	return false
}

// AddBulkReviewer appends reviewerID unless it is already present.
func (s *Submission) AddBulkReviewer(reviewerID string) {
	if s.HasBulkReviewer(reviewerID) {
		return
	}
	s.AssignedReviewerIDs = append(s.AssignedReviewerIDs, reviewerID)
}

// RemoveBulkReviewers drops every reviewer id contained in drop.
func (s *Submission) RemoveBulkReviewers(drop map[string]struct{}) {
	if len(drop) == 0 || len(s.AssignedReviewerIDs) == 0 {
		return
	}
	kept := make([]string, 0, len(s.AssignedReviewerIDs))
	for _, id := range s.AssignedReviewerIDs {
		if _, ok := drop[id]; ok {
			continue
		}
		kept = append(kept, id)
	}
	s.AssignedReviewerIDs = kept
}

// ReviewerRelations exposes both reviewer relations side by side so callers
// can detect disagreement instead of having it resolved silently.
type ReviewerRelations struct {
	BulkReviewerIDs  []string
	ManualReviewerID string
	Disagree         bool
}

func (s Submission) ReviewerRelations() ReviewerRelations {
	bulk := append([]string(nil), s.AssignedReviewerIDs...)
	manual := strings.TrimSpace(s.AssignedReviewerID)
	disagree := manual != "" && len(bulk) > 0 && !s.HasBulkReviewer(manual)
	return ReviewerRelations{
		BulkReviewerIDs:  bulk,
		ManualReviewerID: manual,
		Disagree:         disagree,
	}
}

type Reviewer struct {
	ReviewerID string
	Name       string
	Email      string
	Active     bool
	EventIDs   []string
}

// CanReview reports whether the reviewer is active and rostered for eventID.
// A reviewer without event scoping is available to every event.
func (r Reviewer) CanReview(eventID string) bool {
	if !r.Active {
		return false
	}
	if len(r.EventIDs) == 0 {
		return true
	}
	for _, id := range r.EventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}
