package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "confhub/contexts/conference-program/program-engine/application"
	"confhub/contexts/conference-program/program-engine/domain/entities"
	domainerrors "confhub/contexts/conference-program/program-engine/domain/errors"
	"confhub/contexts/conference-program/program-engine/ports"
)

type CreateManualAssignmentCommand struct {
	SubmissionID string
	ReviewerID   string
	AssignedBy   string
}

type ReassignCommand struct {
	SubmissionID  string
	NewReviewerID string
	AssignedBy    string
}

type DeleteManualAssignmentCommand struct {
	AssignmentID string
}

type ReassignResult struct {
	Assignment         entities.ManualAssignment
	PreviousReviewerID string
	Created            bool
}

// ManualAssignmentUseCase binds one reviewer to one submission. Uniqueness
// per submission is checked on Create; Reassign edits the existing record in
// place and therefore skips that check. Each operation runs as one unit of
// work and notifies only after it succeeds.
type ManualAssignmentUseCase struct {
	UnitOfWork  ports.UnitOfWork
	Submissions ports.SubmissionRepository
	Reviewers   ports.ReviewerReader
	Assignments ports.ManualAssignmentRepository
	Notifier    ports.Notifier
	Metrics     ports.Metrics
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc ManualAssignmentUseCase) Create(ctx context.Context, cmd CreateManualAssignmentCommand) (entities.ManualAssignment, error) {
	submissionID := strings.TrimSpace(cmd.SubmissionID)
	reviewerID := strings.TrimSpace(cmd.ReviewerID)
	if submissionID == "" || reviewerID == "" {
		return entities.ManualAssignment{}, domainerrors.ErrInvalidInput
	}

	var (
		assignment entities.ManualAssignment
		submission entities.Submission
	)
	err := atomically(ctx, uc.UnitOfWork, func(ctx context.Context) error {
		submissions, found, err := uc.loadSubmission(ctx, submissionID)
		if err != nil {
			return err
		}
		if err := uc.ensureReviewer(ctx, reviewerID); err != nil {
			return err
		}
		assignments, err := uc.Assignments.ListManualAssignments(ctx)
		if err != nil {
			return err
		}
		for _, existing := range assignments {
			if existing.SubmissionID == submissionID {
				return domainerrors.ErrDuplicateAssignment
			}
		}
		submission = found
		assignment, err = uc.create(ctx, submissions, submission, assignments, reviewerID, cmd.AssignedBy)
		return err
	})
	if err != nil {
		return entities.ManualAssignment{}, err
	}
	uc.afterCreate(ctx, assignment, submission)
	return assignment, nil
}

// Reassign moves an existing manual assignment to a new reviewer, resetting
// its status to pending. Without an existing record it behaves as Create.
func (uc ManualAssignmentUseCase) Reassign(ctx context.Context, cmd ReassignCommand) (ReassignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	submissionID := strings.TrimSpace(cmd.SubmissionID)
	reviewerID := strings.TrimSpace(cmd.NewReviewerID)
	if submissionID == "" || reviewerID == "" {
		return ReassignResult{}, domainerrors.ErrInvalidInput
	}

	var (
		result     ReassignResult
		submission entities.Submission
	)
	err := atomically(ctx, uc.UnitOfWork, func(ctx context.Context) error {
		submissions, found, err := uc.loadSubmission(ctx, submissionID)
		if err != nil {
			return err
		}
		submission = found
		if err := uc.ensureReviewer(ctx, reviewerID); err != nil {
			return err
		}
		assignments, err := uc.Assignments.ListManualAssignments(ctx)
		if err != nil {
			return err
		}
		idx := -1
		for i, existing := range assignments {
			if existing.SubmissionID == submissionID {
				idx = i
				break
			}
		}
		if idx < 0 {
			created, err := uc.create(ctx, submissions, submission, assignments, reviewerID, cmd.AssignedBy)
			if err != nil {
				return err
			}
			result = ReassignResult{Assignment: created, Created: true}
			return nil
		}

		now := resolveNow(uc.Clock)
		updated := append([]entities.ManualAssignment(nil), assignments...)
		assignment := updated[idx]
		previousReviewerID := assignment.ReviewerID
		assignment.ReviewerID = reviewerID
		assignment.AssignedBy = strings.TrimSpace(cmd.AssignedBy)
		assignment.Status = entities.AssignmentStatusPending
		assignment.AssignedAt = now
		assignment.UpdatedAt = now
		updated[idx] = assignment

		if err := uc.Assignments.ReplaceManualAssignments(ctx, updated); err != nil {
			return err
		}
		if err := uc.setManualReviewer(ctx, submissions, submissionID, reviewerID, now); err != nil {
			return err
		}
		result = ReassignResult{Assignment: assignment, PreviousReviewerID: previousReviewerID}
		return nil
	})
	if err != nil {
		return ReassignResult{}, err
	}
	if result.Created {
		uc.afterCreate(ctx, result.Assignment, submission)
		return result, nil
	}

	notifier := resolveNotifier(uc.Notifier)
	notifier.Notify(ctx, assignedNotification(submission, reviewerID))
	if result.PreviousReviewerID != "" && result.PreviousReviewerID != reviewerID {
		notifier.Notify(ctx, entities.Notification{
			UserID:  result.PreviousReviewerID,
			Kind:    entities.NotificationKindReassignment,
			Title:   "Review reassigned",
			Message: fmt.Sprintf("Submission %q has been reassigned to another reviewer.", submission.Title),
			Link:    "/reviews/" + submission.SubmissionID,
		})
	}
	resolveMetrics(uc.Metrics).ObserveManualAssignment("reassign")

	logger.Info("manual assignment reassigned",
		"event", "program_manual_assignment_reassigned",
		"module", application.LogModule,
		"layer", "application",
		"assignment_id", result.Assignment.AssignmentID,
		"submission_id", submissionID,
		"previous_reviewer_id", result.PreviousReviewerID,
		"reviewer_id", reviewerID,
	)
	return result, nil
}

func (uc ManualAssignmentUseCase) Delete(ctx context.Context, cmd DeleteManualAssignmentCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	assignmentID := strings.TrimSpace(cmd.AssignmentID)
	if assignmentID == "" {
		return domainerrors.ErrInvalidInput
	}

	var removed entities.ManualAssignment
	err := atomically(ctx, uc.UnitOfWork, func(ctx context.Context) error {
		assignments, err := uc.Assignments.ListManualAssignments(ctx)
		if err != nil {
			return err
		}
		found := false
		kept := make([]entities.ManualAssignment, 0, len(assignments))
		for _, assignment := range assignments {
			if assignment.AssignmentID == assignmentID {
				removed = assignment
				found = true
				continue
			}
			kept = append(kept, assignment)
		}
		if !found {
			return domainerrors.ErrAssignmentNotFound
		}
		if err := uc.Assignments.ReplaceManualAssignments(ctx, kept); err != nil {
			return err
		}

		submissions, err := uc.Submissions.ListSubmissions(ctx)
		if err != nil {
			return err
		}
		return uc.setManualReviewer(ctx, submissions, removed.SubmissionID, "", resolveNow(uc.Clock))
	})
	if err != nil {
		return err
	}
	resolveMetrics(uc.Metrics).ObserveManualAssignment("delete")

	logger.Info("manual assignment deleted",
		"event", "program_manual_assignment_deleted",
		"module", application.LogModule,
		"layer", "application",
		"assignment_id", assignmentID,
		"submission_id", removed.SubmissionID,
	)
	return nil
}

// create writes a new manual assignment. Callers hold the unit of work.
func (uc ManualAssignmentUseCase) create(
	ctx context.Context,
	submissions []entities.Submission,
	submission entities.Submission,
	assignments []entities.ManualAssignment,
	reviewerID string,
	assignedBy string,
) (entities.ManualAssignment, error) {
	assignmentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.ManualAssignment{}, fmt.Errorf("generate manual assignment id: %w", err)
	}
	now := resolveNow(uc.Clock)
	assignment := entities.ManualAssignment{
		AssignmentID: assignmentID,
		SubmissionID: submission.SubmissionID,
		ReviewerID:   reviewerID,
		AssignedBy:   strings.TrimSpace(assignedBy),
		Status:       entities.AssignmentStatusPending,
		AssignedAt:   now,
		UpdatedAt:    now,
	}
	updated := append(append([]entities.ManualAssignment(nil), assignments...), assignment)
	if err := uc.Assignments.ReplaceManualAssignments(ctx, updated); err != nil {
		return entities.ManualAssignment{}, err
	}
	if err := uc.setManualReviewer(ctx, submissions, submission.SubmissionID, reviewerID, now); err != nil {
		return entities.ManualAssignment{}, err
	}
	return assignment, nil
}

func (uc ManualAssignmentUseCase) afterCreate(ctx context.Context, assignment entities.ManualAssignment, submission entities.Submission) {
	resolveNotifier(uc.Notifier).Notify(ctx, assignedNotification(submission, assignment.ReviewerID))
	resolveMetrics(uc.Metrics).ObserveManualAssignment("create")

	application.ResolveLogger(uc.Logger).Info("manual assignment created",
		"event", "program_manual_assignment_created",
		"module", application.LogModule,
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"submission_id", submission.SubmissionID,
		"reviewer_id", assignment.ReviewerID,
	)
}

func (uc ManualAssignmentUseCase) loadSubmission(
	ctx context.Context,
	submissionID string,
) ([]entities.Submission, entities.Submission, error) {
	submissions, err := uc.Submissions.ListSubmissions(ctx)
	if err != nil {
		return nil, entities.Submission{}, err
	}
	for _, submission := range submissions {
		if submission.SubmissionID == submissionID {
			return submissions, submission, nil
		}
	}
	return nil, entities.Submission{}, domainerrors.ErrSubmissionNotFound
}

func (uc ManualAssignmentUseCase) ensureReviewer(ctx context.Context, reviewerID string) error {
	reviewers, err := uc.Reviewers.ListReviewers(ctx)
	if err != nil {
		return err
	}
	for _, reviewer := range reviewers {
		if reviewer.ReviewerID == reviewerID {
			return nil
		}
	}
	return domainerrors.ErrReviewerNotFound
}

func (uc ManualAssignmentUseCase) setManualReviewer(
	ctx context.Context,
	submissions []entities.Submission,
	submissionID string,
	reviewerID string,
	now time.Time,
) error {
	updated := append([]entities.Submission(nil), submissions...)
	for i := range updated {
		if updated[i].SubmissionID == submissionID {
			updated[i].AssignedReviewerID = reviewerID
			updated[i].UpdatedAt = now
		}
	}
	return uc.Submissions.ReplaceSubmissions(ctx, updated)
}

func assignedNotification(submission entities.Submission, reviewerID string) entities.Notification {
	return entities.Notification{
		UserID:  reviewerID,
		Kind:    entities.NotificationKindAssignment,
		Title:   "New review assignment",
		Message: fmt.Sprintf("You have been assigned submission %q for review.", submission.Title),
		Link:    "/reviews/" + submission.SubmissionID,
	}
}
