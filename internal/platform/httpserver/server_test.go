package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	programengine "confhub/contexts/conference-program/program-engine"
	"confhub/contexts/conference-program/program-engine/adapters/memory"
	"confhub/contexts/conference-program/program-engine/domain/entities"
	programhttp "confhub/contexts/conference-program/program-engine/transport/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, programengine.Module) {
	t.Helper()
	start := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	seed := memory.Seed{
		Events: []entities.Event{{
			EventID:   "evt_1",
			Name:      "Systems Summit",
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 1),
		}},
		Reviewers: []entities.Reviewer{
			{ReviewerID: "rev_a", Name: "A", Active: true},
			{ReviewerID: "rev_b", Name: "B", Active: true},
		},
		Topics: []entities.Topic{{TopicID: "topic_db", EventID: "evt_1", Name: "Databases"}},
	}
	for i := 1; i <= 4; i++ {
		seed.Submissions = append(seed.Submissions, entities.Submission{
			SubmissionID: fmt.Sprintf("sub_%d", i),
			EventID:      "evt_1",
			Title:        fmt.Sprintf("Paper %d", i),
			Status:       entities.SubmissionStatusPending,
		})
	}
	for i := 5; i <= 7; i++ {
		seed.Submissions = append(seed.Submissions, entities.Submission{
			SubmissionID: fmt.Sprintf("sub_%d", i),
			EventID:      "evt_1",
			Title:        fmt.Sprintf("Paper %d", i),
			Status:       entities.SubmissionStatusApproved,
			TopicID:      "topic_db",
		})
	}
	module := programengine.NewInMemoryModule(seed, nil)
	return New(module, promhttp.Handler(), nil, nil, ":0"), module
}

func doJSON(t *testing.T, server *Server, method string, path string, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func TestAllocateRequiresUser(t *testing.T) {
	server, _ := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/api/program/v1/events/evt_1/reviewer-allocations", "", "")
	require.Equal(t, http.StatusUnauthorized, rr.Code, rr.Body.String())
}

func TestAllocateSplitsEvenlyAndReportsWorkload(t *testing.T) {
	server, module := newTestServer(t)

	rr := doJSON(t, server, http.MethodPost, "/api/program/v1/events/evt_1/reviewer-allocations", "chair_1", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp programhttp.AllocateReviewersResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Assignments, 4)
	require.Equal(t, []programhttp.ReviewerLoadItem{
		{ReviewerID: "rev_a", Count: 2},
		{ReviewerID: "rev_b", Count: 2},
	}, resp.Loads)
	require.Equal(t, int64(1), resp.Generation.Number)
	require.Len(t, module.Store.Notifications(), 2)

	rr = doJSON(t, server, http.MethodGet, "/api/program/v1/events/evt_1/reviewer-allocations", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var workload programhttp.ReviewerWorkloadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &workload))
	require.Len(t, workload.Items, 2)
	require.Equal(t, 2, workload.Items[0].BulkCount)
}

func TestAllocateStaleGenerationConflicts(t *testing.T) {
	server, _ := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/api/program/v1/events/evt_1/reviewer-allocations", "chair_1", `{"expected_generation":3}`)
	require.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	var errResp programhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	require.Equal(t, "conflict", errResp.Code)
}

func TestAllocateWithoutPendingWorkIsUnprocessable(t *testing.T) {
	server, _ := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/api/program/v1/events/evt_other/reviewer-allocations", "chair_1", "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

	var errResp programhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
	require.Equal(t, "no_pending_work", errResp.Code)
}

func TestManualAssignmentLifecycle(t *testing.T) {
	server, _ := newTestServer(t)
	path := "/api/program/v1/submissions/sub_1/manual-assignment"

	rr := doJSON(t, server, http.MethodPost, path, "chair_1", `{"reviewer_id":"rev_a"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created programhttp.ManualAssignmentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, "rev_a", created.ReviewerID)

	rr = doJSON(t, server, http.MethodPost, path, "chair_1", `{"reviewer_id":"rev_b"}`)
	require.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	rr = doJSON(t, server, http.MethodPut, path, "chair_1", `{"reviewer_id":"rev_b"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var reassigned programhttp.ManualAssignmentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reassigned))
	require.Equal(t, created.AssignmentID, reassigned.AssignmentID)
	require.Equal(t, "rev_a", reassigned.PreviousReviewerID)

	rr = doJSON(t, server, http.MethodDelete, "/api/program/v1/manual-assignments/"+created.AssignmentID, "chair_1", "")
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = doJSON(t, server, http.MethodDelete, "/api/program/v1/manual-assignments/"+created.AssignmentID, "chair_1", "")
	require.Equal(t, http.StatusNotFound, rr.Code, rr.Body.String())
}

func TestManualAssignmentRejectsBadJSON(t *testing.T) {
	server, _ := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/api/program/v1/submissions/sub_1/manual-assignment", "chair_1", `{`)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}

func TestGenerateProgramAndAgendaConflicts(t *testing.T) {
	server, _ := newTestServer(t)

	rr := doJSON(t, server, http.MethodPost, "/api/program/v1/events/evt_1/program", "chair_1", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var program programhttp.GenerateProgramResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &program))
	require.NotEmpty(t, program.Sessions)
	require.Empty(t, program.Unscheduled)
	require.Equal(t, "Session: Databases", program.Sessions[0].Title)

	rr = doJSON(t, server, http.MethodPost, "/api/program/v1/events/evt_1/sessions", "chair_1",
		`{"title":"Overlap","date":"2026-05-04","start_time":"11:00","end_time":"13:00"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var manual programhttp.SessionItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &manual))

	body := fmt.Sprintf(`{"session_ids":[%q,%q]}`, program.Sessions[0].SessionID, manual.SessionID)
	rr = doJSON(t, server, http.MethodPut, "/api/program/v1/events/evt_1/agenda", "att_1", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var agenda programhttp.AgendaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &agenda))
	require.Len(t, agenda.Warnings, 1)
	require.Equal(t, "warning", agenda.Warnings[0].Severity)

	rr = doJSON(t, server, http.MethodGet, "/api/program/v1/events/evt_1/agenda", "att_1", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &agenda))
	require.Len(t, agenda.Sessions, 2)

	rr = doJSON(t, server, http.MethodGet, "/api/program/v1/events/evt_1/generations/program", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var inspect programhttp.GenerationInspectResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &inspect))
	require.Equal(t, int64(1), inspect.Generation.Number)
	require.Equal(t, int64(2), inspect.NextGeneration)
	require.Equal(t, len(program.Sessions)+1, inspect.RecordsToDiscard)
}

func TestCreateSessionValidation(t *testing.T) {
	server, _ := newTestServer(t)
	rr := doJSON(t, server, http.MethodPost, "/api/program/v1/events/evt_1/sessions", "chair_1",
		`{"title":"Backwards","date":"2026-05-04","start_time":"13:00","end_time":"11:00"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}

func TestInspectUnknownGenerationKind(t *testing.T) {
	server, _ := newTestServer(t)
	rr := doJSON(t, server, http.MethodGet, "/api/program/v1/events/evt_1/generations/nope", "", "")
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	server, _ := newTestServer(t)
	rr := doJSON(t, server, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHealthReportsUnavailable(t *testing.T) {
	_, module := newTestServer(t)
	server := New(module, nil, func(context.Context) error { return errors.New("db down") }, nil, ":0")
	rr := doJSON(t, server, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}
