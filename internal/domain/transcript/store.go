package transcript

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/alem-hub/transcripts/internal/domain/shared"
)

const domainName = "transcript"

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store владеет всеми ведомостями и делегирует хранение Backend.
//
// AddGrade выполняет read-modify-write без блокировок: при параллельных
// вызовах для одного студента одна из оценок может потеряться (последняя
// запись побеждает). Вызывающие, которым нужны более сильные гарантии,
// синхронизируются сами.
type Store struct {
	backend Backend
	newID   IDGenerator
}

// Option настраивает Store.
type Option func(*Store)

// WithIDGenerator подменяет генератор идентификаторов.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewStore создаёт Store поверх переданного бэкенда.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		newID:   NewRandomID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRandomID генерирует 128-битный случайный идентификатор (UUIDv4).
func NewRandomID() StudentID {
	return StudentID(uuid.NewString())
}

// AddStudent регистрирует студента и создаёт ему пустую ведомость.
// Имя не валидируется.
func (s *Store) AddStudent(ctx context.Context, name string) (StudentID, error) {
	id := s.newID()

	data, err := Encode(NewTranscript(id, name))
	if err != nil {
		return "", err
	}

	if err := s.backend.Set(ctx, id.String(), data); err != nil {
		return "", fmt.Errorf("transcript: add student: %w", err)
	}

	return id, nil
}

// GetTranscript возвращает ведомость студента со всеми оценками.
// Если записи нет, возвращает ошибку вида shared.ErrNotFound.
func (s *Store) GetTranscript(ctx context.Context, id StudentID) (*Transcript, error) {
	return s.load(ctx, "GetTranscript", id)
}

// AddGrade добавляет оценку в конец ведомости студента.
func (s *Store) AddGrade(ctx context.Context, id StudentID, course string, grade float64) error {
	current, err := s.load(ctx, "AddGrade", id)
	if err != nil {
		return err
	}

	data, err := Encode(current.WithGrade(course, grade))
	if err != nil {
		return err
	}

	if err := s.backend.Set(ctx, id.String(), data); err != nil {
		return fmt.Errorf("transcript: add grade: %w", err)
	}

	return nil
}

func (s *Store) load(ctx context.Context, op string, id StudentID) (*Transcript, error) {
	data, found, err := s.backend.Get(ctx, id.String())
	if err != nil {
		return nil, fmt.Errorf("transcript: %s: %w", op, err)
	}
	if !found {
		return nil, notFound(op, id)
	}
	return Decode(data)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// ErrTranscriptNotFound - вид ошибки для отсутствующей ведомости.
// Совпадает и с shared.ErrNotFound через errors.Is.
var ErrTranscriptNotFound = fmt.Errorf("transcript not found: %w", shared.ErrNotFound)

func notFound(op string, id StudentID) error {
	return shared.NewDomainError(domainName, op, ErrTranscriptNotFound,
		fmt.Sprintf("transcript not found for student with ID %s", id))
}

// IsNotFound сообщает, что ошибка означает отсутствие ведомости.
func IsNotFound(err error) bool {
	return shared.IsNotFound(err)
}
