package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"confhub/contexts/conference-program/program-engine/application/commands"
	"confhub/contexts/conference-program/program-engine/application/queries"
	"confhub/contexts/conference-program/program-engine/domain/entities"
	httptransport "confhub/contexts/conference-program/program-engine/transport/http"
)

type Handler struct {
	Allocations commands.AllocateReviewersUseCase
	Manual      commands.ManualAssignmentUseCase
	Programs    commands.GenerateProgramUseCase
	Sessions    commands.SessionUseCase
	Agendas     commands.AgendaUseCase
	Queries     queries.QueryUseCase
	Logger      *slog.Logger
}

func (h Handler) AllocateReviewersHandler(
	ctx context.Context,
	actorID string,
	eventID string,
	req httptransport.AllocateReviewersRequest,
) (httptransport.AllocateReviewersResponse, error) {
	result, err := h.Allocations.Allocate(ctx, commands.AllocateReviewersCommand{
		EventID:            eventID,
		ActorID:            actorID,
		ExpectedGeneration: req.ExpectedGeneration,
	})
	if err != nil {
		return httptransport.AllocateReviewersResponse{}, err
	}
	assignments := make([]httptransport.BulkAssignmentItem, 0, len(result.Assignments))
	for _, assignment := range result.Assignments {
		assignments = append(assignments, httptransport.BulkAssignmentItem{
			AssignmentID: assignment.AssignmentID,
			ReviewerID:   assignment.ReviewerID,
			SubmissionID: assignment.SubmissionID,
			Status:       string(assignment.Status),
			Generation:   assignment.Generation,
		})
	}
	loads := make([]httptransport.ReviewerLoadItem, 0, len(result.Loads))
	for _, load := range result.Loads {
		loads = append(loads, httptransport.ReviewerLoadItem{
			ReviewerID: load.ReviewerID,
			Count:      load.Count,
		})
	}
	return httptransport.AllocateReviewersResponse{
		EventID:     eventID,
		Assignments: assignments,
		Loads:       loads,
		Discarded:   result.Discarded,
		Generation:  mapGeneration(result.Generation),
	}, nil
}

func (h Handler) ReviewerWorkloadHandler(ctx context.Context, eventID string) (httptransport.ReviewerWorkloadResponse, error) {
	loads, err := h.Queries.ReviewerWorkload(ctx, eventID)
	if err != nil {
		return httptransport.ReviewerWorkloadResponse{}, err
	}
	items := make([]httptransport.ReviewerWorkloadItem, 0, len(loads))
	for _, load := range loads {
		items = append(items, httptransport.ReviewerWorkloadItem{
			ReviewerID:  load.ReviewerID,
			BulkCount:   load.BulkCount,
			ManualCount: load.ManualCount,
		})
	}
	return httptransport.ReviewerWorkloadResponse{
		EventID: eventID,
		Items:   items,
	}, nil
}

func (h Handler) CreateManualAssignmentHandler(
	ctx context.Context,
	actorID string,
	submissionID string,
	req httptransport.ManualAssignmentRequest,
) (httptransport.ManualAssignmentResponse, error) {
	assignment, err := h.Manual.Create(ctx, commands.CreateManualAssignmentCommand{
		SubmissionID: submissionID,
		ReviewerID:   req.ReviewerID,
		AssignedBy:   actorID,
	})
	if err != nil {
		return httptransport.ManualAssignmentResponse{}, err
	}
	response := mapManualAssignment(assignment)
	response.Created = true
	return response, nil
}

func (h Handler) ReassignHandler(
	ctx context.Context,
	actorID string,
	submissionID string,
	req httptransport.ManualAssignmentRequest,
) (httptransport.ManualAssignmentResponse, error) {
	result, err := h.Manual.Reassign(ctx, commands.ReassignCommand{
		SubmissionID:  submissionID,
		NewReviewerID: req.ReviewerID,
		AssignedBy:    actorID,
	})
	if err != nil {
		return httptransport.ManualAssignmentResponse{}, err
	}
	response := mapManualAssignment(result.Assignment)
	response.PreviousReviewerID = result.PreviousReviewerID
	response.Created = result.Created
	return response, nil
}

func (h Handler) DeleteManualAssignmentHandler(ctx context.Context, assignmentID string) error {
	return h.Manual.Delete(ctx, commands.DeleteManualAssignmentCommand{AssignmentID: assignmentID})
}

func (h Handler) GenerateProgramHandler(
	ctx context.Context,
	actorID string,
	eventID string,
	req httptransport.GenerateProgramRequest,
) (httptransport.GenerateProgramResponse, error) {
	result, err := h.Programs.GenerateProgram(ctx, commands.GenerateProgramCommand{
		EventID:            eventID,
		ActorID:            actorID,
		ExpectedGeneration: req.ExpectedGeneration,
	})
	if err != nil {
		return httptransport.GenerateProgramResponse{}, err
	}
	unscheduled := result.Unscheduled
	if unscheduled == nil {
		unscheduled = []string{}
	}
	return httptransport.GenerateProgramResponse{
		EventID:     eventID,
		Sessions:    mapSessions(result.Sessions),
		Unscheduled: unscheduled,
		Discarded:   result.Discarded,
		Generation:  mapGeneration(result.Generation),
	}, nil
}

func (h Handler) ListSessionsHandler(ctx context.Context, eventID string) (httptransport.SessionListResponse, error) {
	sessions, err := h.Queries.ListSessions(ctx, eventID)
	if err != nil {
		return httptransport.SessionListResponse{}, err
	}
	return httptransport.SessionListResponse{
		EventID: eventID,
		Items:   mapSessions(sessions),
	}, nil
}

func (h Handler) CreateSessionHandler(
	ctx context.Context,
	eventID string,
	req httptransport.CreateSessionRequest,
) (httptransport.SessionItem, error) {
	session, err := h.Sessions.CreateSession(ctx, commands.CreateSessionCommand{
		EventID:       eventID,
		Title:         req.Title,
		TopicID:       req.TopicID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Location:      req.Location,
		Kind:          entities.SessionKind(req.Kind),
		SubmissionIDs: req.SubmissionIDs,
	})
	if err != nil {
		return httptransport.SessionItem{}, err
	}
	return mapSession(session), nil
}

func (h Handler) GetAgendaHandler(ctx context.Context, attendeeID string, eventID string) (httptransport.AgendaResponse, error) {
	view, err := h.Queries.GetAgenda(ctx, attendeeID, eventID)
	if err != nil {
		return httptransport.AgendaResponse{}, err
	}
	return httptransport.AgendaResponse{
		AttendeeID: view.Agenda.AttendeeID,
		EventID:    view.Agenda.EventID,
		SessionIDs: nonNil(view.Agenda.SessionIDs),
		Sessions:   mapSessions(view.Sessions),
		Warnings:   mapWarnings(view.Warnings),
	}, nil
}

func (h Handler) SaveAgendaHandler(
	ctx context.Context,
	attendeeID string,
	eventID string,
	req httptransport.SaveAgendaRequest,
) (httptransport.AgendaResponse, error) {
	result, err := h.Agendas.SaveAgenda(ctx, commands.SaveAgendaCommand{
		AttendeeID: attendeeID,
		EventID:    eventID,
		SessionIDs: req.SessionIDs,
	})
	if err != nil {
		return httptransport.AgendaResponse{}, err
	}
	return httptransport.AgendaResponse{
		AttendeeID: result.Agenda.AttendeeID,
		EventID:    result.Agenda.EventID,
		SessionIDs: nonNil(result.Agenda.SessionIDs),
		Warnings:   mapWarnings(result.Warnings),
	}, nil
}

func (h Handler) CheckConflictHandler(
	ctx context.Context,
	attendeeID string,
	eventID string,
	req httptransport.CheckConflictRequest,
) (httptransport.CheckConflictResponse, error) {
	result, err := h.Agendas.CheckCandidate(ctx, commands.CheckCandidateCommand{
		AttendeeID:         attendeeID,
		EventID:            eventID,
		CandidateSessionID: req.SessionID,
	})
	if err != nil {
		return httptransport.CheckConflictResponse{}, err
	}
	return httptransport.CheckConflictResponse{
		SessionID: req.SessionID,
		Conflicts: result.Conflicts,
		Warnings:  mapWarnings(result.Warnings),
	}, nil
}

func (h Handler) InspectGenerationHandler(ctx context.Context, eventID string, kind string) (httptransport.GenerationInspectResponse, error) {
	view, err := h.Queries.InspectGeneration(ctx, eventID, entities.GenerationKind(kind))
	if err != nil {
		return httptransport.GenerationInspectResponse{}, err
	}
	return httptransport.GenerationInspectResponse{
		Generation:       mapGeneration(view.Generation),
		RecordsToDiscard: view.RecordsToDiscard,
		NextGeneration:   view.NextGenerationNum,
	}, nil
}

func mapGeneration(generation entities.Generation) httptransport.GenerationResponse {
	response := httptransport.GenerationResponse{
		EventID:     generation.EventID,
		Kind:        string(generation.Kind),
		Number:      generation.Number,
		RecordCount: generation.RecordCount,
		ReplacedBy:  generation.ReplacedBy,
	}
	if !generation.ReplacedAt.IsZero() {
		response.ReplacedAt = generation.ReplacedAt.UTC().Format(time.RFC3339)
	}
	return response
}

func mapManualAssignment(assignment entities.ManualAssignment) httptransport.ManualAssignmentResponse {
	return httptransport.ManualAssignmentResponse{
		AssignmentID: assignment.AssignmentID,
		SubmissionID: assignment.SubmissionID,
		ReviewerID:   assignment.ReviewerID,
		AssignedBy:   assignment.AssignedBy,
		Status:       string(assignment.Status),
		AssignedAt:   assignment.AssignedAt.UTC().Format(time.RFC3339),
	}
}

func mapSession(session entities.Session) httptransport.SessionItem {
	return httptransport.SessionItem{
		SessionID:     session.SessionID,
		EventID:       session.EventID,
		Title:         session.Title,
		TopicID:       session.TopicID,
		Date:          session.Date,
		StartTime:     session.StartTime,
		EndTime:       session.EndTime,
		Location:      session.Location,
		Kind:          string(session.Kind),
		SubmissionIDs: nonNil(session.SubmissionIDs),
		OrderIndex:    session.OrderIndex,
	}
}

func mapSessions(sessions []entities.Session) []httptransport.SessionItem {
	items := make([]httptransport.SessionItem, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, mapSession(session))
	}
	return items
}

func mapWarnings(warnings []entities.ScheduleWarning) []httptransport.ScheduleWarningItem {
	items := make([]httptransport.ScheduleWarningItem, 0, len(warnings))
	for _, warning := range warnings {
		items = append(items, httptransport.ScheduleWarningItem{
			Code:       warning.Code,
			Severity:   string(warning.Severity),
			SessionAID: warning.SessionAID,
			SessionBID: warning.SessionBID,
			Message:    warning.Message,
		})
	}
	return items
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
