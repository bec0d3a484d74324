// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"time"

	"github.com/alem-hub/transcripts/internal/domain/shared"
	"github.com/alem-hub/transcripts/internal/domain/transcript"
	"github.com/alem-hub/transcripts/internal/infrastructure/metrics"
	"github.com/alem-hub/transcripts/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET TRANSCRIPT QUERY
// Возвращает ведомость студента со всеми оценками в порядке добавления.
// ══════════════════════════════════════════════════════════════════════════════

// GetTranscriptQuery содержит параметры запроса ведомости.
type GetTranscriptQuery struct {
	StudentID string
}

// Validate проверяет корректность параметров запроса.
func (q GetTranscriptQuery) Validate() error {
	if q.StudentID == "" {
		return shared.NewDomainError("transcript", "GetTranscript", shared.ErrInvalidInput,
			"student_id is required")
	}
	return nil
}

// GradeDTO - одна оценка.
type GradeDTO struct {
	Course string  `json:"course"`
	Grade  float64 `json:"grade"`
}

// TranscriptDTO - ведомость для ответа API.
type TranscriptDTO struct {
	StudentID   string     `json:"student_id"`
	StudentName string     `json:"student_name"`
	Grades      []GradeDTO `json:"grades"`

	// GradeCount - количество записей в Grades.
	GradeCount int `json:"grade_count"`
}

// TranscriptReader - часть transcript.Store, нужная обработчику.
type TranscriptReader interface {
	GetTranscript(ctx context.Context, id transcript.StudentID) (*transcript.Transcript, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetTranscriptHandler обрабатывает запрос ведомости.
type GetTranscriptHandler struct {
	store   TranscriptReader
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewGetTranscriptHandler создаёт новый обработчик.
func NewGetTranscriptHandler(store TranscriptReader, m *metrics.Metrics, log *logger.Logger) *GetTranscriptHandler {
	return &GetTranscriptHandler{
		store:   store,
		metrics: m,
		log:     log.With(logger.Component("get_transcript")),
	}
}

// Handle выполняет запрос.
func (h *GetTranscriptHandler) Handle(ctx context.Context, q GetTranscriptQuery) (*TranscriptDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer h.metrics.ObserveOperation(metrics.OpGetTranscript, start)

	t, err := h.store.GetTranscript(ctx, transcript.StudentID(q.StudentID))
	switch {
	case err == nil:
		h.metrics.IncrementLookup(metrics.ResultFound)
	case transcript.IsNotFound(err):
		h.metrics.IncrementLookup(metrics.ResultNotFound)
		return nil, err
	default:
		h.metrics.IncrementLookup(metrics.ResultError)
		h.log.Error("failed to load transcript", logger.StudentID(q.StudentID), logger.Err(err))
		return nil, err
	}

	h.log.Debug("transcript loaded",
		logger.StudentID(q.StudentID),
		logger.Int("grade_count", t.GradeCount()),
	)

	return toTranscriptDTO(t), nil
}

// toTranscriptDTO сохраняет порядок оценок.
func toTranscriptDTO(t *transcript.Transcript) *TranscriptDTO {
	grades := make([]GradeDTO, 0, len(t.Grades))
	for _, g := range t.Grades {
		grades = append(grades, GradeDTO{Course: g.Course, Grade: g.Grade})
	}

	return &TranscriptDTO{
		StudentID:   t.Student.StudentID.String(),
		StudentName: t.Student.StudentName,
		Grades:      grades,
		GradeCount:  len(grades),
	}
}
