package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"confhub/contexts/conference-program/program-engine/domain/entities"
	domainerrors "confhub/contexts/conference-program/program-engine/domain/errors"
	"confhub/contexts/conference-program/program-engine/domain/services"
	"confhub/contexts/conference-program/program-engine/ports"
)

type AgendaView struct {
	Agenda   entities.AttendeeAgenda
	Sessions []entities.Session
	Warnings []entities.ScheduleWarning
}

// GenerationView describes what the next destructive replace would discard.
type GenerationView struct {
	Generation        entities.Generation
	RecordsToDiscard  int
	NextGenerationNum int64
}

type QueryUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

// ListSessions returns the event's sessions in chronological order, ties
// broken by creation order.
func (uc QueryUseCase) ListSessions(ctx context.Context, eventID string) ([]entities.Session, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	sessions, err := uc.Repository.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]entities.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.EventID == eventID {
			items = append(items, session)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.OrderIndex < b.OrderIndex
	})
	return items, nil
}

// GetAgenda resolves the stored agenda against current sessions. Session ids
// that no longer exist, for example after a program regeneration, are left
// out of Sessions but kept on the stored agenda.
func (uc QueryUseCase) GetAgenda(ctx context.Context, attendeeID string, eventID string) (AgendaView, error) {
	attendeeID = strings.TrimSpace(attendeeID)
	eventID = strings.TrimSpace(eventID)
	if attendeeID == "" || eventID == "" {
		return AgendaView{}, domainerrors.ErrInvalidInput
	}
	agendas, err := uc.Repository.ListAgendas(ctx)
	if err != nil {
		return AgendaView{}, err
	}
	view := AgendaView{Agenda: entities.AttendeeAgenda{AttendeeID: attendeeID, EventID: eventID}}
	for _, agenda := range agendas {
		if agenda.AttendeeID == attendeeID && agenda.EventID == eventID {
			view.Agenda = agenda
			break
		}
	}
	sessions, err := uc.ListSessions(ctx, eventID)
	if err != nil {
		return AgendaView{}, err
	}
	chosen := make(map[string]struct{}, len(view.Agenda.SessionIDs))
	for _, id := range view.Agenda.SessionIDs {
		chosen[id] = struct{}{}
	}
	for _, session := range sessions {
		if _, ok := chosen[session.SessionID]; ok {
			view.Sessions = append(view.Sessions, session)
		}
	}
	view.Warnings = services.FindConflicts(view.Agenda.SessionIDs, sessions)
	return view, nil
}

// ReviewerWorkload counts bulk assignments for the event and manual
// assignments on the event's submissions, per reviewer.
func (uc QueryUseCase) ReviewerWorkload(ctx context.Context, eventID string) ([]entities.ReviewerWorkload, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	bulk, err := uc.Repository.ListBulkAssignments(ctx)
	if err != nil {
		return nil, err
	}
	manual, err := uc.Repository.ListManualAssignments(ctx)
	if err != nil {
		return nil, err
	}
	submissions, err := uc.Repository.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	inEvent := make(map[string]struct{})
	for _, submission := range submissions {
		if submission.EventID == eventID {
			inEvent[submission.SubmissionID] = struct{}{}
		}
	}

	var order []string
	loads := make(map[string]*entities.ReviewerWorkload)
	touch := func(reviewerID string) *entities.ReviewerWorkload {
		load, ok := loads[reviewerID]
		if !ok {
			load = &entities.ReviewerWorkload{ReviewerID: reviewerID}
			loads[reviewerID] = load
			order = append(order, reviewerID)
		}
		return load
	}
	for _, assignment := range bulk {
		if assignment.EventID == eventID {
			touch(assignment.ReviewerID).BulkCount++
		}
	}
	for _, assignment := range manual {
		if _, ok := inEvent[assignment.SubmissionID]; ok {
			touch(assignment.ReviewerID).ManualCount++
		}
	}

	items := make([]entities.ReviewerWorkload, 0, len(order))
	for _, reviewerID := range order {
		items = append(items, *loads[reviewerID])
	}
	return items, nil
}

// InspectGeneration lets callers see what a replace run would wipe before
// they trigger it.
func (uc QueryUseCase) InspectGeneration(ctx context.Context, eventID string, kind entities.GenerationKind) (GenerationView, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" || !kind.Valid() {
		return GenerationView{}, domainerrors.ErrInvalidInput
	}
	generations, err := uc.Repository.ListGenerations(ctx)
	if err != nil {
		return GenerationView{}, err
	}
	current := entities.Generation{EventID: eventID, Kind: kind}
	for _, generation := range generations {
		if generation.EventID == eventID && generation.Kind == kind {
			current = generation
			break
		}
	}

	toDiscard := 0
	switch kind {
	case entities.GenerationKindBulkAssignments:
		assignments, err := uc.Repository.ListBulkAssignments(ctx)
		if err != nil {
			return GenerationView{}, err
		}
		for _, assignment := range assignments {
			if assignment.EventID == eventID {
				toDiscard++
			}
		}
	case entities.GenerationKindProgram:
		sessions, err := uc.Repository.ListSessions(ctx)
		if err != nil {
			return GenerationView{}, err
		}
		for _, session := range sessions {
			if session.EventID == eventID {
				toDiscard++
			}
		}
	}
	return GenerationView{
		Generation:        current,
		RecordsToDiscard:  toDiscard,
		NextGenerationNum: current.Number + 1,
	}, nil
}

// SubmissionReviewers surfaces both reviewer relations of a submission.
func (uc QueryUseCase) SubmissionReviewers(ctx context.Context, submissionID string) (entities.ReviewerRelations, error) {
	submissionID = strings.TrimSpace(submissionID)
	submissions, err := uc.Repository.ListSubmissions(ctx)
	if err != nil {
		return entities.ReviewerRelations{}, err
	}
	for _, submission := range submissions {
		if submission.SubmissionID == submissionID {
			return submission.ReviewerRelations(), nil
		}
	}
	return entities.ReviewerRelations{}, domainerrors.ErrSubmissionNotFound
}
