package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alem-hub/transcripts/internal/application/command"
	"github.com/alem-hub/transcripts/internal/application/query"
	"github.com/alem-hub/transcripts/internal/domain/shared"
	"github.com/alem-hub/transcripts/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleHealth reports every dependency check; 503 if any fails.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Healthy {
		s.writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Ready {
		s.writeJSONError(w, http.StatusServiceUnavailable, "not_ready", status.Message)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSCRIPT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type addStudentRequest struct {
	Name string `json:"name"`
}

type addStudentResponse struct {
	StudentID string `json:"student_id"`
}

type recordGradeRequest struct {
	Course string  `json:"course"`
	Grade  float64 `json:"grade"`
}

// handleAddStudent handles POST /api/v1/students
func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var req addStudentRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBodyError(w, err)
		return
	}

	res, err := s.deps.AddStudentHandler.Handle(r.Context(), command.AddStudentCommand{Name: req.Name})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, addStudentResponse{StudentID: res.StudentID})
}

// handleGetTranscript handles GET /api/v1/students/{id}/transcript
func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetTranscriptHandler.Handle(r.Context(), query.GetTranscriptQuery{
		StudentID: chi.URLParam(r, "id"),
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, dto)
}

// handleRecordGrade handles POST /api/v1/students/{id}/grades
func (s *Server) handleRecordGrade(w http.ResponseWriter, r *http.Request) {
	var req recordGradeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBodyError(w, err)
		return
	}

	err := s.deps.RecordGradeHandler.Handle(r.Context(), command.RecordGradeCommand{
		StudentID: chi.URLParam(r, "id"),
		Course:    req.Course,
		Grade:     req.Grade,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// handleError maps domain error kinds onto HTTP statuses. Anything that is
// not a known kind is logged and hidden behind a generic 500.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var de *shared.DomainError
	message := err.Error()
	if errors.As(err, &de) {
		message = de.Message
	}

	switch {
	case shared.IsNotFound(err):
		s.writeJSONError(w, http.StatusNotFound, "not_found", message)
	case shared.IsInvalidInput(err):
		s.writeJSONError(w, http.StatusBadRequest, "invalid_request", message)
	default:
		logger.FromContext(r.Context()).Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Err(err),
		)
		s.writeJSONError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// writeBodyError reports a decodeBody failure. Bodies cut off by
// http.MaxBytesReader get 413, everything else is the client's malformed input.
func (s *Server) writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeJSONError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large")
		return
	}
	s.writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
}

// decodeBody decodes a single JSON object, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
