package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "confhub/contexts/conference-program/program-engine/application"
	"confhub/contexts/conference-program/program-engine/domain/entities"
	domainerrors "confhub/contexts/conference-program/program-engine/domain/errors"
	"confhub/contexts/conference-program/program-engine/domain/services"
	"confhub/contexts/conference-program/program-engine/ports"
)

type AllocateReviewersCommand struct {
	EventID string
	ActorID string
	// ExpectedGeneration, when set, must match the stored bulk-assignment
	// generation or the run is refused before anything is discarded.
	ExpectedGeneration *int64
}

type AllocateReviewersResult struct {
	Assignments []entities.BulkAssignment
	Loads       []entities.ReviewerLoad
	Generation  entities.Generation
	Discarded   int
}

// AllocateReviewersUseCase distributes an event's pending submissions across
// its active reviewers. Every run replaces the event's previous bulk
// assignments. Reads, precondition checks and writes run as one unit of work;
// notifications go out only after it succeeds.
type AllocateReviewersUseCase struct {
	UnitOfWork  ports.UnitOfWork
	Submissions ports.SubmissionRepository
	Reviewers   ports.ReviewerReader
	Assignments ports.BulkAssignmentRepository
	Generations ports.GenerationRepository
	Notifier    ports.Notifier
	Metrics     ports.Metrics
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc AllocateReviewersUseCase) Allocate(ctx context.Context, cmd AllocateReviewersCommand) (AllocateReviewersResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	eventID := strings.TrimSpace(cmd.EventID)
	if eventID == "" {
		return AllocateReviewersResult{}, domainerrors.ErrInvalidInput
	}

	var result AllocateReviewersResult
	err := atomically(ctx, uc.UnitOfWork, func(ctx context.Context) error {
		var err error
		result, err = uc.allocate(ctx, eventID, cmd)
		return err
	})
	if err != nil {
		return AllocateReviewersResult{}, err
	}

	notifier := resolveNotifier(uc.Notifier)
	for _, load := range result.Loads {
		notifier.Notify(ctx, entities.Notification{
			UserID:  load.ReviewerID,
			Kind:    entities.NotificationKindAssignment,
			Title:   "Review assignments updated",
			Message: fmt.Sprintf("You have been assigned %d submission(s) to review.", load.Count),
			Link:    "/reviews?event_id=" + eventID,
		})
	}
	resolveMetrics(uc.Metrics).ObserveAllocation(eventID, len(result.Loads), len(result.Assignments))

	logger.Info("reviewer allocation completed",
		"event", "program_allocation_completed",
		"module", application.LogModule,
		"layer", "application",
		"event_id", eventID,
		"reviewers", len(result.Loads),
		"submissions", len(result.Assignments),
		"discarded", result.Discarded,
		"generation", result.Generation.Number,
	)
	return result, nil
}

func (uc AllocateReviewersUseCase) allocate(ctx context.Context, eventID string, cmd AllocateReviewersCommand) (AllocateReviewersResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	reviewers, err := uc.Reviewers.ListReviewers(ctx)
	if err != nil {
		return AllocateReviewersResult{}, err
	}
	roster := make([]entities.Reviewer, 0, len(reviewers))
	for _, reviewer := range reviewers {
		if reviewer.CanReview(eventID) {
			roster = append(roster, reviewer)
		}
	}
	if len(roster) == 0 {
		logger.Warn("reviewer allocation refused",
			"event", "program_allocation_no_reviewers",
			"module", application.LogModule,
			"layer", "application",
			"event_id", eventID,
		)
		return AllocateReviewersResult{}, domainerrors.ErrNoReviewersAvailable
	}

	submissions, err := uc.Submissions.ListSubmissions(ctx)
	if err != nil {
		return AllocateReviewersResult{}, err
	}
	var pending []int
	for i, submission := range submissions {
		if submission.EventID == eventID && submission.Status == entities.SubmissionStatusPending {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		logger.Warn("reviewer allocation refused",
			"event", "program_allocation_no_pending_work",
			"module", application.LogModule,
			"layer", "application",
			"event_id", eventID,
		)
		return AllocateReviewersResult{}, domainerrors.ErrNoPendingWork
	}

	generations, err := uc.Generations.ListGenerations(ctx)
	if err != nil {
		return AllocateReviewersResult{}, err
	}
	current, _ := findGeneration(generations, eventID, entities.GenerationKindBulkAssignments)
	if err := checkExpectedGeneration(current, cmd.ExpectedGeneration); err != nil {
		return AllocateReviewersResult{}, err
	}

	existing, err := uc.Assignments.ListBulkAssignments(ctx)
	if err != nil {
		return AllocateReviewersResult{}, err
	}
	kept := make([]entities.BulkAssignment, 0, len(existing))
	discardedPairs := make(map[string]map[string]struct{})
	discarded := 0
	for _, assignment := range existing {
		if assignment.EventID != eventID {
			kept = append(kept, assignment)
			continue
		}
		discarded++
		if discardedPairs[assignment.SubmissionID] == nil {
			discardedPairs[assignment.SubmissionID] = make(map[string]struct{})
		}
		discardedPairs[assignment.SubmissionID][assignment.ReviewerID] = struct{}{}
	}

	now := resolveNow(uc.Clock)
	nextNumber := current.Number + 1
	counts := services.SplitEvenly(len(pending), len(roster))
	created := make([]entities.BulkAssignment, 0, len(pending))
	loads := make([]entities.ReviewerLoad, 0, len(roster))
	reviewerOf := make(map[int]string, len(pending))
	cursor := 0
	for i, reviewer := range roster {
		for _, idx := range pending[cursor : cursor+counts[i]] {
			assignmentID, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return AllocateReviewersResult{}, fmt.Errorf("generate bulk assignment id: %w", err)
			}
			reviewerOf[idx] = reviewer.ReviewerID
			created = append(created, entities.BulkAssignment{
				AssignmentID: assignmentID,
				EventID:      eventID,
				ReviewerID:   reviewer.ReviewerID,
				SubmissionID: submissions[idx].SubmissionID,
				Status:       entities.AssignmentStatusPending,
				Generation:   nextNumber,
				CreatedAt:    now,
			})
		}
		cursor += counts[i]
		loads = append(loads, entities.ReviewerLoad{ReviewerID: reviewer.ReviewerID, Count: counts[i]})
	}

	updatedSubmissions := make([]entities.Submission, len(submissions))
	for i, submission := range submissions {
		submission.AssignedReviewerIDs = append([]string(nil), submission.AssignedReviewerIDs...)
		if submission.EventID == eventID {
			if drop, ok := discardedPairs[submission.SubmissionID]; ok {
				submission.RemoveBulkReviewers(drop)
				submission.UpdatedAt = now
			}
		}
		if reviewerID, ok := reviewerOf[i]; ok {
			submission.AddBulkReviewer(reviewerID)
			submission.UpdatedAt = now
		}
		updatedSubmissions[i] = submission
	}

	if err := uc.Assignments.ReplaceBulkAssignments(ctx, append(kept, created...)); err != nil {
		return AllocateReviewersResult{}, err
	}
	if err := uc.Submissions.ReplaceSubmissions(ctx, updatedSubmissions); err != nil {
		return AllocateReviewersResult{}, err
	}
	generations, generation := advanceGeneration(generations, eventID, entities.GenerationKindBulkAssignments, len(created), cmd.ActorID, now)
	if err := uc.Generations.ReplaceGenerations(ctx, generations); err != nil {
		return AllocateReviewersResult{}, err
	}

	return AllocateReviewersResult{
		Assignments: created,
		Loads:       loads,
		Generation:  generation,
		Discarded:   discarded,
	}, nil
}
