package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	programengine "confhub/contexts/conference-program/program-engine"
	programerrors "confhub/contexts/conference-program/program-engine/domain/errors"
	programhttp "confhub/contexts/conference-program/program-engine/transport/http"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// HealthCheck reports whether the process dependencies are reachable.
type HealthCheck func(ctx context.Context) error

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	program programengine.Module
	metrics http.Handler
	health  HealthCheck
}

// New registers the program engine routes. metrics may be nil, in which case
// /metrics is not served; health may be nil, in which case /healthz always
// reports ok.
func New(
	program programengine.Module,
	metrics http.Handler,
	health HealthCheck,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		program: program,
		metrics: metrics,
		health:  health,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /api/program/v1/events/{event_id}/reviewer-allocations", s.handleAllocateReviewers)
	s.mux.HandleFunc("GET /api/program/v1/events/{event_id}/reviewer-allocations", s.handleReviewerWorkload)
	s.mux.HandleFunc("POST /api/program/v1/submissions/{submission_id}/manual-assignment", s.handleCreateManualAssignment)
	s.mux.HandleFunc("PUT /api/program/v1/submissions/{submission_id}/manual-assignment", s.handleReassign)
	s.mux.HandleFunc("DELETE /api/program/v1/manual-assignments/{assignment_id}", s.handleDeleteManualAssignment)

	s.mux.HandleFunc("POST /api/program/v1/events/{event_id}/program", s.handleGenerateProgram)
	s.mux.HandleFunc("GET /api/program/v1/events/{event_id}/sessions", s.handleListSessions)
	s.mux.HandleFunc("POST /api/program/v1/events/{event_id}/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/program/v1/events/{event_id}/agenda", s.handleGetAgenda)
	s.mux.HandleFunc("PUT /api/program/v1/events/{event_id}/agenda", s.handleSaveAgenda)
	s.mux.HandleFunc("POST /api/program/v1/events/{event_id}/agenda/conflicts", s.handleCheckConflict)
	s.mux.HandleFunc("GET /api/program/v1/events/{event_id}/generations/{kind}", s.handleInspectGeneration)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn("health check failed",
				"event", "http_health_check_failed",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"error", err.Error(),
			)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAllocateReviewers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req programhttp.AllocateReviewersRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	resp, err := s.program.Handler.AllocateReviewersHandler(r.Context(), userID, r.PathValue("event_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReviewerWorkload(w http.ResponseWriter, r *http.Request) {
	resp, err := s.program.Handler.ReviewerWorkloadHandler(r.Context(), r.PathValue("event_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateManualAssignment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req programhttp.ManualAssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.program.Handler.CreateManualAssignmentHandler(r.Context(), userID, r.PathValue("submission_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleReassign(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req programhttp.ManualAssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.program.Handler.ReassignHandler(r.Context(), userID, r.PathValue("submission_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleDeleteManualAssignment(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	if err := s.program.Handler.DeleteManualAssignmentHandler(r.Context(), r.PathValue("assignment_id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGenerateProgram(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req programhttp.GenerateProgramRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	resp, err := s.program.Handler.GenerateProgramHandler(r.Context(), userID, r.PathValue("event_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.program.Handler.ListSessionsHandler(r.Context(), r.PathValue("event_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	var req programhttp.CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.program.Handler.CreateSessionHandler(r.Context(), r.PathValue("event_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetAgenda(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.program.Handler.GetAgendaHandler(r.Context(), userID, r.PathValue("event_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveAgenda(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req programhttp.SaveAgendaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.program.Handler.SaveAgendaHandler(r.Context(), userID, r.PathValue("event_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckConflict(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req programhttp.CheckConflictRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.program.Handler.CheckConflictHandler(r.Context(), userID, r.PathValue("event_id"), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInspectGeneration(w http.ResponseWriter, r *http.Request) {
	resp, err := s.program.Handler.InspectGenerationHandler(r.Context(), r.PathValue("event_id"), r.PathValue("kind"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	kind := programerrors.KindOf(err)
	switch kind {
	case programerrors.KindNotFound:
		writeError(w, http.StatusNotFound, string(kind), err.Error())
	case programerrors.KindDuplicateAssignment, programerrors.KindConflict:
		writeError(w, http.StatusConflict, string(kind), err.Error())
	case programerrors.KindNoReviewersAvailable, programerrors.KindNoPendingWork:
		writeError(w, http.StatusUnprocessableEntity, string(kind), err.Error())
	case programerrors.KindValidation:
		writeError(w, http.StatusBadRequest, string(kind), err.Error())
	default:
		s.logger.Error("program request failed",
			"event", "http_program_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

// decodeOptionalJSON accepts an empty body and leaves target zero-valued.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if r.Body == nil {
		return true
	}
	err := json.NewDecoder(r.Body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
	return false
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, programhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
