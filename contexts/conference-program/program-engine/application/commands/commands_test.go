package commands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"confhub/contexts/conference-program/program-engine/adapters/memory"
	"confhub/contexts/conference-program/program-engine/domain/entities"
	domainerrors "confhub/contexts/conference-program/program-engine/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventStart = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func pendingSubmissions(eventID string, n int) []entities.Submission {
	items := make([]entities.Submission, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, entities.Submission{
			SubmissionID: fmt.Sprintf("%s_sub_%02d", eventID, i),
			EventID:      eventID,
			Title:        fmt.Sprintf("Paper %d", i),
			Status:       entities.SubmissionStatusPending,
		})
	}
	return items
}

func reviewers(ids ...string) []entities.Reviewer {
	items := make([]entities.Reviewer, 0, len(ids))
	for _, id := range ids {
		items = append(items, entities.Reviewer{ReviewerID: id, Name: id, Active: true})
	}
	return items
}

func allocateUseCase(store *memory.Store) AllocateReviewersUseCase {
	return AllocateReviewersUseCase{
		UnitOfWork:  store,
		Submissions: store,
		Reviewers:   store,
		Assignments: store,
		Generations: store,
		Notifier:    store,
		Clock:       store,
		IDGen:       store,
	}
}

func manualUseCase(store *memory.Store) ManualAssignmentUseCase {
	return ManualAssignmentUseCase{
		UnitOfWork:  store,
		Submissions: store,
		Reviewers:   store,
		Assignments: store,
		Notifier:    store,
		Clock:       store,
		IDGen:       store,
	}
}

func programUseCase(store *memory.Store) GenerateProgramUseCase {
	return GenerateProgramUseCase{
		UnitOfWork:  store,
		Events:      store,
		Submissions: store,
		Topics:      store,
		Sessions:    store,
		Generations: store,
		Clock:       store,
		IDGen:       store,
	}
}

func sessionUseCase(store *memory.Store) SessionUseCase {
	return SessionUseCase{
		UnitOfWork:  store,
		Events:      store,
		Submissions: store,
		Sessions:    store,
		Clock:       store,
		IDGen:       store,
	}
}

func TestAllocateSplitsTenAcrossThree(t *testing.T) {
	store := memory.NewStore(memory.Seed{
		Submissions: pendingSubmissions("evt_1", 10),
		Reviewers:   reviewers("r1", "r2", "r3"),
	})

	result, err := allocateUseCase(store).Allocate(context.Background(), AllocateReviewersCommand{EventID: "evt_1", ActorID: "chair"})
	require.NoError(t, err)
	require.Len(t, result.Assignments, 10)
	require.Equal(t, []entities.ReviewerLoad{
		{ReviewerID: "r1", Count: 4},
		{ReviewerID: "r2", Count: 3},
		{ReviewerID: "r3", Count: 3},
	}, result.Loads)
	assert.Equal(t, int64(1), result.Generation.Number)
	assert.Equal(t, "chair", result.Generation.ReplacedBy)

	submissions, err := store.ListSubmissions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, submissions[0].AssignedReviewerIDs)
	assert.Equal(t, []string{"r3"}, submissions[9].AssignedReviewerIDs)

	notifications := store.Notifications()
	require.Len(t, notifications, 3)
	assert.Equal(t, "You have been assigned 4 submission(s) to review.", notifications[0].Message)
	assert.Equal(t, "/reviews?event_id=evt_1", notifications[0].Link)
}

func TestAllocateRequiresActiveReviewers(t *testing.T) {
	inactive := reviewers("r1")
	inactive[0].Active = false
	scoped := entities.Reviewer{ReviewerID: "r2", Active: true, EventIDs: []string{"evt_other"}}
	store := memory.NewStore(memory.Seed{
		Submissions: pendingSubmissions("evt_1", 3),
		Reviewers:   append(inactive, scoped),
	})

	_, err := allocateUseCase(store).Allocate(context.Background(), AllocateReviewersCommand{EventID: "evt_1"})
	require.ErrorIs(t, err, domainerrors.ErrNoReviewersAvailable)
	assert.Equal(t, domainerrors.KindNoReviewersAvailable, domainerrors.KindOf(err))

	assignments, err := store.ListBulkAssignments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestAllocateRequiresPendingWork(t *testing.T) {
	submissions := pendingSubmissions("evt_1", 2)
	for i := range submissions {
		submissions[i].Status = entities.SubmissionStatusApproved
	}
	store := memory.NewStore(memory.Seed{Submissions: submissions, Reviewers: reviewers("r1")})

	_, err := allocateUseCase(store).Allocate(context.Background(), AllocateReviewersCommand{EventID: "evt_1"})
	require.ErrorIs(t, err, domainerrors.ErrNoPendingWork)
}

func TestAllocateRerunIsIdempotentAndDiscardsAdjustments(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.Seed{
		Submissions: append(pendingSubmissions("evt_1", 5), pendingSubmissions("evt_2", 2)...),
		Reviewers:   reviewers("r1", "r2"),
	})
	uc := allocateUseCase(store)

	first, err := uc.Allocate(ctx, AllocateReviewersCommand{EventID: "evt_1"})
	require.NoError(t, err)
	_, err = uc.Allocate(ctx, AllocateReviewersCommand{EventID: "evt_2"})
	require.NoError(t, err)

	// A chair moves one assignment forward by hand.
	assignments, err := store.ListBulkAssignments(ctx)
	require.NoError(t, err)
	assignments[0].Status = entities.AssignmentStatusInReview
	require.NoError(t, store.ReplaceBulkAssignments(ctx, assignments))
	before, err := store.ListSubmissions(ctx)
	require.NoError(t, err)

	second, err := uc.Allocate(ctx, AllocateReviewersCommand{EventID: "evt_1"})
	require.NoError(t, err)
	assert.Equal(t, 5, second.Discarded)
	assert.Equal(t, first.Loads, second.Loads)
	assert.Equal(t, int64(2), second.Generation.Number)
	assert.NotEqual(t, first.Assignments[0].AssignmentID, second.Assignments[0].AssignmentID)

	after, err := store.ListSubmissions(ctx)
	require.NoError(t, err)
	for i := range before {
		assert.Equal(t, before[i].AssignedReviewerIDs, after[i].AssignedReviewerIDs, before[i].SubmissionID)
	}

	all, err := store.ListBulkAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 7)
	for _, assignment := range all {
		if assignment.EventID == "evt_1" {
			assert.Equal(t, entities.AssignmentStatusPending, assignment.Status)
			assert.Equal(t, int64(2), assignment.Generation)
		}
	}
}

func TestAllocateRejectsStaleGeneration(t *testing.T) {
	store := memory.NewStore(memory.Seed{
		Submissions: pendingSubmissions("evt_1", 2),
		Reviewers:   reviewers("r1"),
	})
	stale := int64(4)
	_, err := allocateUseCase(store).Allocate(context.Background(), AllocateReviewersCommand{EventID: "evt_1", ExpectedGeneration: &stale})
	require.ErrorIs(t, err, domainerrors.ErrGenerationConflict)

	current := int64(0)
	_, err = allocateUseCase(store).Allocate(context.Background(), AllocateReviewersCommand{EventID: "evt_1", ExpectedGeneration: &current})
	require.NoError(t, err)
}

func TestManualAssignmentCreateRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.Seed{
		Submissions: pendingSubmissions("evt_1", 1),
		Reviewers:   reviewers("r1", "r2"),
	})
	uc := manualUseCase(store)

	assignment, err := uc.Create(ctx, CreateManualAssignmentCommand{SubmissionID: "evt_1_sub_01", ReviewerID: "r1", AssignedBy: "chair"})
	require.NoError(t, err)
	assert.Equal(t, entities.AssignmentStatusPending, assignment.Status)

	_, err = uc.Create(ctx, CreateManualAssignmentCommand{SubmissionID: "evt_1_sub_01", ReviewerID: "r2", AssignedBy: "chair"})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateAssignment)

	submissions, err := store.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", submissions[0].AssignedReviewerID)
	require.Len(t, store.Notifications(), 1)
	assert.Equal(t, "New review assignment", store.Notifications()[0].Title)
}

func TestManualAssignmentValidatesReferences(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.Seed{
		Submissions: pendingSubmissions("evt_1", 1),
		Reviewers:   reviewers("r1"),
	})
	uc := manualUseCase(store)

	_, err := uc.Create(ctx, CreateManualAssignmentCommand{SubmissionID: "missing", ReviewerID: "r1"})
	require.ErrorIs(t, err, domainerrors.ErrSubmissionNotFound)
	_, err = uc.Create(ctx, CreateManualAssignmentCommand{SubmissionID: "evt_1_sub_01", ReviewerID: "ghost"})
	require.ErrorIs(t, err, domainerrors.ErrReviewerNotFound)
	_, err = uc.Create(ctx, CreateManualAssignmentCommand{SubmissionID: " ", ReviewerID: "r1"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestReassignNotifiesBothReviewers(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.Seed{
		Submissions: pendingSubmissions("evt_1", 1),
		Reviewers:   reviewers("r1", "r2"),
	})
	uc := manualUseCase(store)

	created, err := uc.Create(ctx, CreateManualAssignmentCommand{SubmissionID: "evt_1_sub_01", ReviewerID: "r1"})
	require.NoError(t, err)

	assignments, err := store.ListManualAssignments(ctx)
	require.NoError(t, err)
	assignments[0].Status = entities.AssignmentStatusCompleted
	require.NoError(t, store.ReplaceManualAssignments(ctx, assignments))

	result, err := uc.Reassign(ctx, ReassignCommand{SubmissionID: "evt_1_sub_01", NewReviewerID: "r2", AssignedBy: "chair"})
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, "r1", result.PreviousReviewerID)
	assert.Equal(t, created.AssignmentID, result.Assignment.AssignmentID)
	assert.Equal(t, entities.AssignmentStatusPending, result.Assignment.Status)

	notifications := store.Notifications()
	require.Len(t, notifications, 3)
	assert.Equal(t, "r2", notifications[1].UserID)
	assert.Equal(t, entities.NotificationKindAssignment, notifications[1].Kind)
	assert.Equal(t, "r1", notifications[2].UserID)
	assert.Equal(t, entities.NotificationKindReassignment, notifications[2].Kind)

	submissions, err := store.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r2", submissions[0].AssignedReviewerID)
}

func TestReassignWithoutRecordCreates(t *testing.T) {
	store := memory.NewStore(memory.Seed{
		Submissions: pendingSubmissions("evt_1", 1),
		Reviewers:   reviewers("r1"),
	})
	result, err := manualUseCase(store).Reassign(context.Background(), ReassignCommand{SubmissionID: "evt_1_sub_01", NewReviewerID: "r1"})
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Empty(t, result.PreviousReviewerID)
	assert.Len(t, store.Notifications(), 1)
}

func TestDeleteManualAssignmentClearsSubmission(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.Seed{
		Submissions: pendingSubmissions("evt_1", 1),
		Reviewers:   reviewers("r1"),
	})
	uc := manualUseCase(store)
	created, err := uc.Create(ctx, CreateManualAssignmentCommand{SubmissionID: "evt_1_sub_01", ReviewerID: "r1"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, DeleteManualAssignmentCommand{AssignmentID: created.AssignmentID}))
	require.ErrorIs(t, uc.Delete(ctx, DeleteManualAssignmentCommand{AssignmentID: created.AssignmentID}), domainerrors.ErrAssignmentNotFound)

	submissions, err := store.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Empty(t, submissions[0].AssignedReviewerID)
}

func TestBulkAndManualRelationsStayIndependent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.Seed{
		Submissions: pendingSubmissions("evt_1", 1),
		Reviewers:   reviewers("r1", "r2"),
	})
	_, err := manualUseCase(store).Create(ctx, CreateManualAssignmentCommand{SubmissionID: "evt_1_sub_01", ReviewerID: "r2"})
	require.NoError(t, err)
	_, err = allocateUseCase(store).Allocate(ctx, AllocateReviewersCommand{EventID: "evt_1"})
	require.NoError(t, err)

	submissions, err := store.ListSubmissions(ctx)
	require.NoError(t, err)
	relations := submissions[0].ReviewerRelations()
	assert.Equal(t, []string{"r1"}, relations.BulkReviewerIDs)
	assert.Equal(t, "r2", relations.ManualReviewerID)
	assert.True(t, relations.Disagree)
}

func programSeed(days int, perTopic map[string]int, order []string) memory.Seed {
	seed := memory.Seed{
		Events: []entities.Event{{
			EventID:   "evt_1",
			Name:      "Summit",
			StartDate: eventStart,
			EndDate:   eventStart.AddDate(0, 0, days-1),
		}},
	}
	for _, topicID := range order {
		seed.Topics = append(seed.Topics, entities.Topic{TopicID: topicID, EventID: "evt_1", Name: topicID})
		for i := 0; i < perTopic[topicID]; i++ {
			seed.Submissions = append(seed.Submissions, entities.Submission{
				SubmissionID: fmt.Sprintf("%s_%02d", topicID, i),
				EventID:      "evt_1",
				Status:       entities.SubmissionStatusApproved,
				TopicID:      topicID,
			})
		}
	}
	return seed
}

func TestGenerateProgramThreeDays(t *testing.T) {
	ctx := context.Background()
	seed := programSeed(3, map[string]int{"ml": 8, "db": 6}, []string{"ml", "db"})
	seed.Submissions = append(seed.Submissions, entities.Submission{
		SubmissionID: "pending_1",
		EventID:      "evt_1",
		Status:       entities.SubmissionStatusPending,
	})
	store := memory.NewStore(seed)

	result, err := programUseCase(store).GenerateProgram(ctx, GenerateProgramCommand{EventID: "evt_1"})
	require.NoError(t, err)
	assert.Empty(t, result.Unscheduled)
	require.Len(t, result.Sessions, 5)
	assert.Equal(t, "Session: ml", result.Sessions[0].Title)
	assert.Equal(t, "2026-09-01", result.Sessions[0].Date)
	assert.Equal(t, entities.SessionKindBreak, result.Sessions[2].Kind)
	assert.Equal(t, "2026-09-02", result.Sessions[3].Date)

	submissions, err := store.ListSubmissions(ctx)
	require.NoError(t, err)
	for _, submission := range submissions {
		if submission.Status == entities.SubmissionStatusApproved {
			assert.NotEmpty(t, submission.SessionID, submission.SubmissionID)
		} else {
			assert.Empty(t, submission.SessionID)
		}
	}
}

func TestGenerateProgramOverflowAndRerun(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(programSeed(1, map[string]int{"ml": 9}, []string{"ml"}))
	uc := programUseCase(store)

	first, err := uc.GenerateProgram(ctx, GenerateProgramCommand{EventID: "evt_1"})
	require.NoError(t, err)
	require.Len(t, first.Sessions, 2)
	assert.Equal(t, []string{"ml_06", "ml_07", "ml_08"}, first.Unscheduled)

	submissions, err := store.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Empty(t, submissions[8].SessionID)

	second, err := uc.GenerateProgram(ctx, GenerateProgramCommand{EventID: "evt_1"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Discarded)
	assert.Equal(t, int64(2), second.Generation.Number)

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	submissions, err = store.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Sessions[0].SessionID, submissions[0].SessionID)
}

func TestGenerateProgramClearsDiscardedLinksAndKeepsAgendas(t *testing.T) {
	ctx := context.Background()
	seed := programSeed(1, map[string]int{"ml": 2}, []string{"ml"})
	seed.Submissions = append(seed.Submissions, entities.Submission{
		SubmissionID: "pending_1",
		EventID:      "evt_1",
		Status:       entities.SubmissionStatusPending,
	})
	store := memory.NewStore(seed)

	panel, err := sessionUseCase(store).CreateSession(ctx, CreateSessionCommand{
		EventID: "evt_1", Title: "Panel", Date: "2026-09-01", StartTime: "16:00", EndTime: "17:00",
		SubmissionIDs: []string{"pending_1"},
	})
	require.NoError(t, err)
	agendas := AgendaUseCase{UnitOfWork: store, Sessions: store, Agendas: store, Clock: store}
	_, err = agendas.SaveAgenda(ctx, SaveAgendaCommand{AttendeeID: "att_1", EventID: "evt_1", SessionIDs: []string{panel.SessionID}})
	require.NoError(t, err)

	result, err := programUseCase(store).GenerateProgram(ctx, GenerateProgramCommand{EventID: "evt_1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Discarded)

	submissions, err := store.ListSubmissions(ctx)
	require.NoError(t, err)
	for _, submission := range submissions {
		if submission.SubmissionID == "pending_1" {
			assert.Empty(t, submission.SessionID)
		} else {
			assert.NotEqual(t, panel.SessionID, submission.SessionID)
		}
	}

	stored, err := store.ListAgendas(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []string{panel.SessionID}, stored[0].SessionIDs)
}

func TestGenerateProgramRejectsBadEvents(t *testing.T) {
	store := memory.NewStore(memory.Seed{Events: []entities.Event{{
		EventID:   "evt_bad",
		StartDate: eventStart,
		EndDate:   eventStart.AddDate(0, 0, -1),
	}}})
	uc := programUseCase(store)

	_, err := uc.GenerateProgram(context.Background(), GenerateProgramCommand{EventID: "missing"})
	require.ErrorIs(t, err, domainerrors.ErrEventNotFound)
	_, err = uc.GenerateProgram(context.Background(), GenerateProgramCommand{EventID: "evt_bad"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidEventWindow)
}

func TestCreateSessionValidatesAndOrders(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(programSeed(1, nil, nil))
	uc := sessionUseCase(store)

	first, err := uc.CreateSession(ctx, CreateSessionCommand{EventID: "evt_1", Title: "Keynote", Date: "2026-09-01", StartTime: "08:00", EndTime: "09:00", Kind: entities.SessionKindKeynote})
	require.NoError(t, err)
	second, err := uc.CreateSession(ctx, CreateSessionCommand{EventID: "evt_1", Title: "Panel", Date: "2026-09-01", StartTime: "17:00", EndTime: "18:00"})
	require.NoError(t, err)
	assert.Equal(t, entities.SessionKindTalk, second.Kind)
	assert.Greater(t, second.OrderIndex, first.OrderIndex)

	_, err = uc.CreateSession(ctx, CreateSessionCommand{EventID: "evt_1", Title: "Bad", Date: "2026-09-01", StartTime: "10:00", EndTime: "10:00"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidSessionInput)
	_, err = uc.CreateSession(ctx, CreateSessionCommand{EventID: "evt_1", Title: "Bad", Date: "09/01/2026", StartTime: "10:00", EndTime: "11:00"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidSessionInput)
	_, err = uc.CreateSession(ctx, CreateSessionCommand{EventID: "missing", Title: "Orphan", Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00"})
	require.ErrorIs(t, err, domainerrors.ErrEventNotFound)
}

func TestCreateSessionLinksListedSubmissions(t *testing.T) {
	ctx := context.Background()
	seed := programSeed(1, map[string]int{"db": 3}, []string{"db"})
	seed.Submissions = append(seed.Submissions, entities.Submission{SubmissionID: "foreign", EventID: "evt_2", Status: entities.SubmissionStatusApproved})
	store := memory.NewStore(seed)

	program, err := programUseCase(store).GenerateProgram(ctx, GenerateProgramCommand{EventID: "evt_1"})
	require.NoError(t, err)
	generated := program.Sessions[0]
	require.Equal(t, []string{"db_00", "db_01", "db_02"}, generated.SubmissionIDs)

	uc := sessionUseCase(store)
	_, err = uc.CreateSession(ctx, CreateSessionCommand{EventID: "evt_1", Title: "Spotlight", Date: "2026-09-01", StartTime: "17:00", EndTime: "18:00", SubmissionIDs: []string{"db_01", "ghost"}})
	require.ErrorIs(t, err, domainerrors.ErrSubmissionNotFound)
	_, err = uc.CreateSession(ctx, CreateSessionCommand{EventID: "evt_1", Title: "Spotlight", Date: "2026-09-01", StartTime: "17:00", EndTime: "18:00", SubmissionIDs: []string{"foreign"}})
	require.ErrorIs(t, err, domainerrors.ErrSubmissionNotFound)
	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, len(program.Sessions))

	spotlight, err := uc.CreateSession(ctx, CreateSessionCommand{EventID: "evt_1", Title: "Spotlight", Date: "2026-09-01", StartTime: "17:00", EndTime: "18:00", SubmissionIDs: []string{" db_01 ", "db_01"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"db_01"}, spotlight.SubmissionIDs)

	submissions, err := store.ListSubmissions(ctx)
	require.NoError(t, err)
	sessionOf := map[string]string{}
	for _, submission := range submissions {
		sessionOf[submission.SubmissionID] = submission.SessionID
	}
	assert.Equal(t, spotlight.SessionID, sessionOf["db_01"])
	assert.Equal(t, generated.SessionID, sessionOf["db_00"])

	sessions, err = store.ListSessions(ctx)
	require.NoError(t, err)
	for _, session := range sessions {
		if session.SessionID == generated.SessionID {
			assert.Equal(t, []string{"db_00", "db_02"}, session.SubmissionIDs)
		}
	}
}

func TestAgendaWarnsWithoutBlocking(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(programSeed(1, nil, nil))
	sessions := sessionUseCase(store)
	morning, err := sessions.CreateSession(ctx, CreateSessionCommand{EventID: "evt_1", Title: "Morning", Date: "2026-09-01", StartTime: "09:00", EndTime: "12:00"})
	require.NoError(t, err)
	late, err := sessions.CreateSession(ctx, CreateSessionCommand{EventID: "evt_1", Title: "Late", Date: "2026-09-01", StartTime: "11:00", EndTime: "13:00"})
	require.NoError(t, err)
	after, err := sessions.CreateSession(ctx, CreateSessionCommand{EventID: "evt_1", Title: "After", Date: "2026-09-01", StartTime: "13:00", EndTime: "14:00"})
	require.NoError(t, err)

	uc := AgendaUseCase{UnitOfWork: store, Sessions: store, Agendas: store, Clock: store}
	saved, err := uc.SaveAgenda(ctx, SaveAgendaCommand{AttendeeID: "att_1", EventID: "evt_1", SessionIDs: []string{morning.SessionID, late.SessionID, late.SessionID}})
	require.NoError(t, err)
	assert.Equal(t, []string{morning.SessionID, late.SessionID}, saved.Agenda.SessionIDs)
	require.Len(t, saved.Warnings, 1)
	assert.Equal(t, entities.SeverityWarning, saved.Warnings[0].Severity)

	check, err := uc.CheckCandidate(ctx, CheckCandidateCommand{AttendeeID: "att_1", EventID: "evt_1", CandidateSessionID: after.SessionID})
	require.NoError(t, err)
	assert.False(t, check.Conflicts)

	_, err = uc.SaveAgenda(ctx, SaveAgendaCommand{AttendeeID: "att_1", EventID: "evt_1", SessionIDs: []string{morning.SessionID}})
	require.NoError(t, err)
	check, err = uc.CheckCandidate(ctx, CheckCandidateCommand{AttendeeID: "att_1", EventID: "evt_1", CandidateSessionID: late.SessionID})
	require.NoError(t, err)
	assert.True(t, check.Conflicts)
	require.Len(t, check.Warnings, 1)

	_, err = uc.SaveAgenda(ctx, SaveAgendaCommand{AttendeeID: "att_1", EventID: "evt_1", SessionIDs: []string{"ghost"}})
	require.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}
