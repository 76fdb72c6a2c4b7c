package commands

import (
	"context"
	"log/slog"
	"strings"

	application "confhub/contexts/conference-program/program-engine/application"
	"confhub/contexts/conference-program/program-engine/domain/entities"
	domainerrors "confhub/contexts/conference-program/program-engine/domain/errors"
	"confhub/contexts/conference-program/program-engine/domain/services"
	"confhub/contexts/conference-program/program-engine/ports"
)

type SaveAgendaCommand struct {
	AttendeeID string
	EventID    string
	SessionIDs []string
}

// SaveAgendaResult carries the stored agenda and any overlap warnings.
// Warnings never prevent the save.
type SaveAgendaResult struct {
	Agenda   entities.AttendeeAgenda
	Warnings []entities.ScheduleWarning
}

type CheckCandidateCommand struct {
	AttendeeID         string
	EventID            string
	CandidateSessionID string
}

type CheckCandidateResult struct {
	Conflicts bool
	Warnings  []entities.ScheduleWarning
}

type AgendaUseCase struct {
	UnitOfWork ports.UnitOfWork
	Sessions   ports.SessionRepository
	Agendas    ports.AgendaRepository
	Clock      ports.Clock
	Logger     *slog.Logger
}

// SaveAgenda replaces the attendee's agenda for the event wholesale.
func (uc AgendaUseCase) SaveAgenda(ctx context.Context, cmd SaveAgendaCommand) (SaveAgendaResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	attendeeID := strings.TrimSpace(cmd.AttendeeID)
	eventID := strings.TrimSpace(cmd.EventID)
	if attendeeID == "" || eventID == "" {
		return SaveAgendaResult{}, domainerrors.ErrInvalidInput
	}

	var (
		agenda        entities.AttendeeAgenda
		eventSessions []entities.Session
	)
	err := atomically(ctx, uc.UnitOfWork, func(ctx context.Context) error {
		var err error
		eventSessions, err = uc.eventSessions(ctx, eventID)
		if err != nil {
			return err
		}
		known := make(map[string]struct{}, len(eventSessions))
		for _, session := range eventSessions {
			known[session.SessionID] = struct{}{}
		}
		sessionIDs := make([]string, 0, len(cmd.SessionIDs))
		seen := make(map[string]struct{}, len(cmd.SessionIDs))
		for _, raw := range cmd.SessionIDs {
			id := strings.TrimSpace(raw)
			if _, dup := seen[id]; dup {
				continue
			}
			if _, ok := known[id]; !ok {
				return domainerrors.ErrSessionNotFound
			}
			seen[id] = struct{}{}
			sessionIDs = append(sessionIDs, id)
		}

		agendas, err := uc.Agendas.ListAgendas(ctx)
		if err != nil {
			return err
		}
		agenda = entities.AttendeeAgenda{
			AttendeeID: attendeeID,
			EventID:    eventID,
			SessionIDs: sessionIDs,
			UpdatedAt:  resolveNow(uc.Clock),
		}
		updated := make([]entities.AttendeeAgenda, 0, len(agendas)+1)
		replaced := false
		for _, existing := range agendas {
			if existing.AttendeeID == attendeeID && existing.EventID == eventID {
				updated = append(updated, agenda)
				replaced = true
				continue
			}
			updated = append(updated, existing)
		}
		if !replaced {
			updated = append(updated, agenda)
		}
		return uc.Agendas.ReplaceAgendas(ctx, updated)
	})
	if err != nil {
		return SaveAgendaResult{}, err
	}
	sessionIDs := agenda.SessionIDs

	warnings := services.FindConflicts(sessionIDs, eventSessions)
	if len(warnings) > 0 {
		logger.Warn("agenda saved with overlapping sessions",
			"event", "program_agenda_conflicts",
			"module", application.LogModule,
			"layer", "application",
			"attendee_id", attendeeID,
			"event_id", eventID,
			"conflicts", len(warnings),
		)
	}
	logger.Info("agenda saved",
		"event", "program_agenda_saved",
		"module", application.LogModule,
		"layer", "application",
		"attendee_id", attendeeID,
		"event_id", eventID,
		"sessions", len(sessionIDs),
	)
	return SaveAgendaResult{Agenda: agenda, Warnings: warnings}, nil
}

// CheckCandidate tells whether adding a session to the stored agenda would
// create an overlap. It does not modify the agenda.
func (uc AgendaUseCase) CheckCandidate(ctx context.Context, cmd CheckCandidateCommand) (CheckCandidateResult, error) {
	attendeeID := strings.TrimSpace(cmd.AttendeeID)
	eventID := strings.TrimSpace(cmd.EventID)
	candidateID := strings.TrimSpace(cmd.CandidateSessionID)
	if attendeeID == "" || eventID == "" || candidateID == "" {
		return CheckCandidateResult{}, domainerrors.ErrInvalidInput
	}
	eventSessions, err := uc.eventSessions(ctx, eventID)
	if err != nil {
		return CheckCandidateResult{}, err
	}
	found := false
	for _, session := range eventSessions {
		if session.SessionID == candidateID {
			found = true
			break
		}
	}
	if !found {
		return CheckCandidateResult{}, domainerrors.ErrSessionNotFound
	}

	agendas, err := uc.Agendas.ListAgendas(ctx)
	if err != nil {
		return CheckCandidateResult{}, err
	}
	var chosen []string
	for _, agenda := range agendas {
		if agenda.AttendeeID == attendeeID && agenda.EventID == eventID {
			chosen = agenda.SessionIDs
			break
		}
	}
	if !services.Conflicts(candidateID, chosen, eventSessions) {
		return CheckCandidateResult{}, nil
	}

	var warnings []entities.ScheduleWarning
	for _, warning := range services.FindConflicts(append([]string{candidateID}, chosen...), eventSessions) {
		if warning.SessionAID == candidateID || warning.SessionBID == candidateID {
			warnings = append(warnings, warning)
		}
	}
	return CheckCandidateResult{Conflicts: true, Warnings: warnings}, nil
}

func (uc AgendaUseCase) eventSessions(ctx context.Context, eventID string) ([]entities.Session, error) {
	sessions, err := uc.Sessions.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]entities.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.EventID == eventID {
			items = append(items, session)
		}
	}
	return items, nil
}
