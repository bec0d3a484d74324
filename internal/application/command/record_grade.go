package command

import (
	"context"
	"time"

	"github.com/alem-hub/transcripts/internal/domain/shared"
	"github.com/alem-hub/transcripts/internal/domain/transcript"
	"github.com/alem-hub/transcripts/internal/infrastructure/metrics"
	"github.com/alem-hub/transcripts/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD GRADE COMMAND
// Appends one course grade to the end of a student's transcript.
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradeCommand contains the grade to record.
type RecordGradeCommand struct {
	StudentID string

	// Course is free text; repeating a course adds another entry.
	Course string

	// Grade is not range-checked.
	Grade float64
}

// Validate validates the command.
func (c RecordGradeCommand) Validate() error {
	if c.StudentID == "" {
		return shared.NewDomainError("transcript", "RecordGrade", shared.ErrInvalidInput,
			"student_id is required")
	}
	return nil
}

// GradeRecorder is the part of transcript.Store used by RecordGradeHandler.
type GradeRecorder interface {
	AddGrade(ctx context.Context, id transcript.StudentID, course string, grade float64) error
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradeHandler handles the RecordGradeCommand.
type RecordGradeHandler struct {
	store   GradeRecorder
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewRecordGradeHandler creates a new RecordGradeHandler.
func NewRecordGradeHandler(store GradeRecorder, m *metrics.Metrics, log *logger.Logger) *RecordGradeHandler {
	return &RecordGradeHandler{
		store:   store,
		metrics: m,
		log:     log.With(logger.Component("record_grade")),
	}
}

// Handle executes the record grade command. Not-found and backend errors
// are returned unchanged.
func (h *RecordGradeHandler) Handle(ctx context.Context, cmd RecordGradeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	start := time.Now()
	defer h.metrics.ObserveOperation(metrics.OpAddGrade, start)

	log := h.log.With(logger.StudentID(cmd.StudentID), logger.Course(cmd.Course))

	err := h.store.AddGrade(ctx, transcript.StudentID(cmd.StudentID), cmd.Course, cmd.Grade)
	if err != nil {
		if transcript.IsNotFound(err) {
			log.Debug("grade for unknown student")
		} else {
			log.Error("failed to record grade", logger.Err(err))
		}
		return err
	}

	h.metrics.IncrementGradesRecorded()
	log.Info("grade recorded", logger.Grade(cmd.Grade))
	return nil
}
