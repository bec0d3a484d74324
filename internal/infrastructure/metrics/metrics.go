// Package metrics exposes Prometheus instruments for transcript operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup results recorded in transcripts_lookups_total.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Operation labels for transcripts_operation_duration_seconds.
const (
	OpAddStudent    = "add_student"
	OpAddGrade      = "add_grade"
	OpGetTranscript = "get_transcript"
)

// Metrics holds the service's Prometheus instruments.
type Metrics struct {
	StudentsCreated   prometheus.Counter
	GradesRecorded    prometheus.Counter
	Lookups           *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New registers the instruments on reg. A nil reg yields unregistered
// instruments, which is what tests and the metrics-disabled mode use.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StudentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcripts_students_created_total",
			Help: "Total number of students registered",
		}),
		GradesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcripts_grades_recorded_total",
			Help: "Total number of grades appended to transcripts",
		}),
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transcripts_lookups_total",
			Help: "Transcript lookups by result",
		}, []string{"result"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transcripts_operation_duration_seconds",
			Help:    "Duration of store operations including the backend round trip",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementStudentsCreated counts one registered student.
func (m *Metrics) IncrementStudentsCreated() {
	m.StudentsCreated.Inc()
}

// IncrementGradesRecorded counts one appended grade.
func (m *Metrics) IncrementGradesRecorded() {
	m.GradesRecorded.Inc()
}

// IncrementLookup counts a transcript lookup under result.
func (m *Metrics) IncrementLookup(result string) {
	m.Lookups.WithLabelValues(result).Inc()
}

// ObserveOperation records the time elapsed since start for op.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
