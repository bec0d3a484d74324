// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"time"

	"github.com/alem-hub/transcripts/internal/domain/transcript"
	"github.com/alem-hub/transcripts/internal/infrastructure/metrics"
	"github.com/alem-hub/transcripts/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENT COMMAND
// Registers a student and creates an empty transcript for them.
// ══════════════════════════════════════════════════════════════════════════════

// AddStudentCommand contains the data to register a student.
type AddStudentCommand struct {
	// Name is stored as given; empty and duplicate names are allowed.
	Name string
}

// AddStudentResult contains the generated student ID.
type AddStudentResult struct {
	StudentID   string
	StudentName string
}

// StudentRegistrar is the part of transcript.Store used by AddStudentHandler.
type StudentRegistrar interface {
	AddStudent(ctx context.Context, name string) (transcript.StudentID, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AddStudentHandler handles the AddStudentCommand.
type AddStudentHandler struct {
	store   StudentRegistrar
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewAddStudentHandler creates a new AddStudentHandler.
func NewAddStudentHandler(store StudentRegistrar, m *metrics.Metrics, log *logger.Logger) *AddStudentHandler {
	return &AddStudentHandler{
		store:   store,
		metrics: m,
		log:     log.With(logger.Component("add_student")),
	}
}

// Handle executes the add student command.
func (h *AddStudentHandler) Handle(ctx context.Context, cmd AddStudentCommand) (*AddStudentResult, error) {
	start := time.Now()
	defer h.metrics.ObserveOperation(metrics.OpAddStudent, start)

	id, err := h.store.AddStudent(ctx, cmd.Name)
	if err != nil {
		h.log.Error("failed to add student", logger.Err(err))
		return nil, err
	}

	h.metrics.IncrementStudentsCreated()
	h.log.Info("student added", logger.StudentID(id.String()))

	return &AddStudentResult{
		StudentID:   id.String(),
		StudentName: cmd.Name,
	}, nil
}
