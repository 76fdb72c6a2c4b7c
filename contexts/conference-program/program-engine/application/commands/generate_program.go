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

type GenerateProgramCommand struct {
	EventID string
	ActorID string
	// ExpectedGeneration, when set, must match the stored program generation
	// or the run is refused before anything is discarded.
	ExpectedGeneration *int64
}

// GenerateProgramResult lists the event's sessions in order. Unscheduled
// holds approved submissions the program had no room for; they keep an
// empty SessionID and are not an error.
type GenerateProgramResult struct {
	Sessions    []entities.Session
	Unscheduled []string
	Generation  entities.Generation
	Discarded   int
}

// GenerateProgramUseCase rebuilds an event's whole session program from its
// approved submissions. Existing sessions of the event are discarded first.
// The rebuild runs as one unit of work.
type GenerateProgramUseCase struct {
	UnitOfWork  ports.UnitOfWork
	Events      ports.EventReader
	Submissions ports.SubmissionRepository
	Topics      ports.TopicReader
	Sessions    ports.SessionRepository
	Generations ports.GenerationRepository
	Metrics     ports.Metrics
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

type programRun struct {
	result    GenerateProgramResult
	days      int
	buckets   int
	scheduled int
}

func (uc GenerateProgramUseCase) GenerateProgram(ctx context.Context, cmd GenerateProgramCommand) (GenerateProgramResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	eventID := strings.TrimSpace(cmd.EventID)
	if eventID == "" {
		return GenerateProgramResult{}, domainerrors.ErrInvalidInput
	}

	var run programRun
	err := atomically(ctx, uc.UnitOfWork, func(ctx context.Context) error {
		var err error
		run, err = uc.generate(ctx, eventID, cmd)
		return err
	})
	if err != nil {
		return GenerateProgramResult{}, err
	}
	result := run.result

	resolveMetrics(uc.Metrics).ObserveProgram(eventID, len(result.Sessions), run.scheduled, len(result.Unscheduled))
	if len(result.Unscheduled) > 0 {
		logger.Warn("program capacity exceeded",
			"event", "program_generation_overflow",
			"module", application.LogModule,
			"layer", "application",
			"event_id", eventID,
			"unscheduled", len(result.Unscheduled),
		)
	}
	logger.Info("program generated",
		"event", "program_generation_completed",
		"module", application.LogModule,
		"layer", "application",
		"event_id", eventID,
		"days", run.days,
		"buckets", run.buckets,
		"sessions", len(result.Sessions),
		"discarded", result.Discarded,
		"generation", result.Generation.Number,
	)
	return result, nil
}

func (uc GenerateProgramUseCase) generate(ctx context.Context, eventID string, cmd GenerateProgramCommand) (programRun, error) {
	event, err := findEvent(ctx, uc.Events, eventID)
	if err != nil {
		return programRun{}, err
	}
	if event.EndDate.Before(event.StartDate) {
		return programRun{}, domainerrors.ErrInvalidEventWindow
	}

	submissions, err := uc.Submissions.ListSubmissions(ctx)
	if err != nil {
		return programRun{}, err
	}
	var approved []entities.Submission
	for _, submission := range submissions {
		if submission.EventID == eventID && submission.Status == entities.SubmissionStatusApproved {
			approved = append(approved, submission)
		}
	}
	allTopics, err := uc.Topics.ListTopics(ctx)
	if err != nil {
		return programRun{}, err
	}
	var topics []entities.Topic
	for _, topic := range allTopics {
		if topic.EventID == eventID {
			topics = append(topics, topic)
		}
	}

	generations, err := uc.Generations.ListGenerations(ctx)
	if err != nil {
		return programRun{}, err
	}
	current, _ := findGeneration(generations, eventID, entities.GenerationKindProgram)
	if err := checkExpectedGeneration(current, cmd.ExpectedGeneration); err != nil {
		return programRun{}, err
	}

	existing, err := uc.Sessions.ListSessions(ctx)
	if err != nil {
		return programRun{}, err
	}
	kept := make([]entities.Session, 0, len(existing))
	discardedIDs := make(map[string]struct{})
	for _, session := range existing {
		if session.EventID == eventID {
			discardedIDs[session.SessionID] = struct{}{}
			continue
		}
		kept = append(kept, session)
	}

	buckets := services.BucketByTopic(approved, topics)
	planned, unscheduled := services.PlanProgram(event.StartDate, event.DayCount(), buckets)

	now := resolveNow(uc.Clock)
	nextNumber := current.Number + 1
	created := make([]entities.Session, 0, len(planned))
	sessionOf := make(map[string]string)
	for i, plan := range planned {
		sessionID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return programRun{}, fmt.Errorf("generate session id: %w", err)
		}
		created = append(created, entities.Session{
			SessionID:     sessionID,
			EventID:       eventID,
			Title:         plan.Title,
			TopicID:       plan.TopicID,
			Date:          plan.Date,
			StartTime:     plan.StartTime,
			EndTime:       plan.EndTime,
			Location:      plan.Location,
			Kind:          plan.Kind,
			SubmissionIDs: plan.SubmissionIDs,
			OrderIndex:    i,
			Generation:    nextNumber,
			CreatedAt:     now,
		})
		for _, submissionID := range plan.SubmissionIDs {
			sessionOf[submissionID] = sessionID
		}
	}

	updatedSubmissions := make([]entities.Submission, len(submissions))
	for i, submission := range submissions {
		if sessionID, ok := sessionOf[submission.SubmissionID]; ok {
			submission.SessionID = sessionID
			submission.UpdatedAt = now
		} else if _, stale := discardedIDs[submission.SessionID]; stale {
			submission.SessionID = ""
			submission.UpdatedAt = now
		}
		updatedSubmissions[i] = submission
	}

	if err := uc.Sessions.ReplaceSessions(ctx, append(kept, created...)); err != nil {
		return programRun{}, err
	}
	if err := uc.Submissions.ReplaceSubmissions(ctx, updatedSubmissions); err != nil {
		return programRun{}, err
	}
	generations, generation := advanceGeneration(generations, eventID, entities.GenerationKindProgram, len(created), cmd.ActorID, now)
	if err := uc.Generations.ReplaceGenerations(ctx, generations); err != nil {
		return programRun{}, err
	}

	return programRun{
		result: GenerateProgramResult{
			Sessions:    created,
			Unscheduled: unscheduled,
			Generation:  generation,
			Discarded:   len(discardedIDs),
		},
		days:      event.DayCount(),
		buckets:   len(buckets),
		scheduled: len(sessionOf),
	}, nil
}

func findEvent(ctx context.Context, reader ports.EventReader, eventID string) (entities.Event, error) {
	events, err := reader.ListEvents(ctx)
	if err != nil {
		return entities.Event{}, err
	}
	for _, event := range events {
		if event.EventID == eventID {
			return event, nil
		}
	}
	return entities.Event{}, domainerrors.ErrEventNotFound
}
