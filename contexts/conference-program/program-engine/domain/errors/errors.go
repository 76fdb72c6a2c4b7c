package errors

import "errors"

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrReviewerNotFound   = errors.New("reviewer not found")
	ErrAssignmentNotFound = errors.New("manual assignment not found")

	ErrNoReviewersAvailable = errors.New("no active reviewers available for event")
	ErrNoPendingWork        = errors.New("no pending submissions for event")
	ErrDuplicateAssignment  = errors.New("submission already has a manual assignment")

	ErrInvalidInput        = errors.New("invalid program engine input")
	ErrInvalidSessionInput = errors.New("invalid session input")
	ErrInvalidEventWindow  = errors.New("event end date is before start date")

	ErrGenerationConflict = errors.New("generation changed since it was inspected")
)

type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindNoReviewersAvailable Kind = "no_reviewers_available"
	KindNoPendingWork        Kind = "no_pending_work"
	KindDuplicateAssignment  Kind = "duplicate_assignment"
	KindValidation           Kind = "validation"
	KindConflict             Kind = "conflict"
	KindInternal             Kind = "internal"
)

// KindOf classifies err so callers can branch without matching every
// sentinel. Errors outside this package are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrSubmissionNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrReviewerNotFound),
		errors.Is(err, ErrAssignmentNotFound):
		return KindNotFound
	case errors.Is(err, ErrNoReviewersAvailable):
		return KindNoReviewersAvailable
	case errors.Is(err, ErrNoPendingWork):
		return KindNoPendingWork
	case errors.Is(err, ErrDuplicateAssignment):
		return KindDuplicateAssignment
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidSessionInput),
		errors.Is(err, ErrInvalidEventWindow):
		return KindValidation
	case errors.Is(err, ErrGenerationConflict):
		return KindConflict
	default:
		return KindInternal
	}
}
