package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "confhub/contexts/conference-program/program-engine/application"
	"confhub/contexts/conference-program/program-engine/domain/entities"
	domainerrors "confhub/contexts/conference-program/program-engine/domain/errors"
	"confhub/contexts/conference-program/program-engine/ports"
)

type CreateSessionCommand struct {
	EventID       string
	Title         string
	TopicID       string
	Date          string
	StartTime     string
	EndTime       string
	Location      string
	Kind          entities.SessionKind
	SubmissionIDs []string
}

// SessionUseCase covers hand-made sessions such as keynotes and plenaries.
// They live next to generated sessions and are discarded with them on the
// next program generation. Listed submissions move into the new session.
type SessionUseCase struct {
	UnitOfWork  ports.UnitOfWork
	Events      ports.EventReader
	Submissions ports.SubmissionRepository
	Sessions    ports.SessionRepository
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func (uc SessionUseCase) CreateSession(ctx context.Context, cmd CreateSessionCommand) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)
	session := entities.Session{
		EventID:       strings.TrimSpace(cmd.EventID),
		Title:         strings.TrimSpace(cmd.Title),
		TopicID:       strings.TrimSpace(cmd.TopicID),
		Date:          strings.TrimSpace(cmd.Date),
		StartTime:     strings.TrimSpace(cmd.StartTime),
		EndTime:       strings.TrimSpace(cmd.EndTime),
		Location:      strings.TrimSpace(cmd.Location),
		Kind:          cmd.Kind,
		SubmissionIDs: uniqueIDs(cmd.SubmissionIDs),
	}
	if session.Kind == "" {
		session.Kind = entities.SessionKindTalk
	}
	if err := session.Validate(); err != nil {
		logger.Warn("session validation failed",
			"event", "program_session_validation_failed",
			"module", application.LogModule,
			"layer", "application",
			"event_id", session.EventID,
			"reason", err.Error(),
		)
		return entities.Session{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidSessionInput, err)
	}

	err := atomically(ctx, uc.UnitOfWork, func(ctx context.Context) error {
		if _, err := findEvent(ctx, uc.Events, session.EventID); err != nil {
			return err
		}

		submissions, err := uc.Submissions.ListSubmissions(ctx)
		if err != nil {
			return err
		}
		members := make(map[string]struct{}, len(session.SubmissionIDs))
		for _, id := range session.SubmissionIDs {
			members[id] = struct{}{}
		}
		linked := 0
		for _, submission := range submissions {
			if _, ok := members[submission.SubmissionID]; ok && submission.EventID == session.EventID {
				linked++
			}
		}
		if linked != len(members) {
			return domainerrors.ErrSubmissionNotFound
		}

		existing, err := uc.Sessions.ListSessions(ctx)
		if err != nil {
			return err
		}
		nextIndex := 0
		for _, item := range existing {
			if item.EventID == session.EventID && item.OrderIndex >= nextIndex {
				nextIndex = item.OrderIndex + 1
			}
		}

		sessionID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return fmt.Errorf("generate session id: %w", err)
		}
		session.SessionID = sessionID
		session.OrderIndex = nextIndex
		session.CreatedAt = resolveNow(uc.Clock)

		updated := make([]entities.Session, 0, len(existing)+1)
		for _, item := range existing {
			if item.EventID == session.EventID && len(members) > 0 {
				item.SubmissionIDs = withoutIDs(item.SubmissionIDs, members)
			}
			updated = append(updated, item)
		}
		updated = append(updated, session)
		if err := uc.Sessions.ReplaceSessions(ctx, updated); err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}

		updatedSubmissions := make([]entities.Submission, len(submissions))
		for i, submission := range submissions {
			if _, ok := members[submission.SubmissionID]; ok {
				submission.SessionID = session.SessionID
				submission.UpdatedAt = session.CreatedAt
			}
			updatedSubmissions[i] = submission
		}
		return uc.Submissions.ReplaceSubmissions(ctx, updatedSubmissions)
	})
	if err != nil {
		return entities.Session{}, err
	}

	logger.Info("session created",
		"event", "program_session_created",
		"module", application.LogModule,
		"layer", "application",
		"event_id", session.EventID,
		"session_id", session.SessionID,
		"kind", string(session.Kind),
		"submissions", len(session.SubmissionIDs),
	)
	return session, nil
}

func uniqueIDs(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		id := strings.TrimSpace(item)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func withoutIDs(ids []string, drop map[string]struct{}) []string {
	var out []string
	for _, id := range ids {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
