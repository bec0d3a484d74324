package transcript

import (
	"encoding/json"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentID - непрозрачный уникальный идентификатор студента.
// Генерируется при создании и больше не меняется.
type StudentID string

// String возвращает строковое представление идентификатора.
func (id StudentID) String() string {
	return string(id)
}

// IsEmpty возвращает true для пустого идентификатора.
func (id StudentID) IsEmpty() bool {
	return id == ""
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Student - идентичность студента. Имя не несёт смысла идентичности:
// два студента могут иметь одинаковое (или пустое) имя.
type Student struct {
	StudentID   StudentID `json:"studentID"`
	StudentName string    `json:"studentName"`
}

// CourseGrade - одна оценка за курс. Один и тот же курс может
// встречаться несколько раз (пересдачи).
type CourseGrade struct {
	Course string  `json:"course"`
	Grade  float64 `json:"grade"`
}

// Transcript - студент плюс упорядоченный список его оценок.
type Transcript struct {
	Student Student       `json:"student"`
	Grades  []CourseGrade `json:"grades"`
}

// NewTranscript создаёт пустую ведомость для нового студента.
func NewTranscript(id StudentID, name string) *Transcript {
	return &Transcript{
		Student: Student{StudentID: id, StudentName: name},
		Grades:  []CourseGrade{},
	}
}

// WithGrade возвращает копию ведомости с оценкой, добавленной в конец.
// Поле Student не меняется.
func (t *Transcript) WithGrade(course string, grade float64) *Transcript {
	grades := make([]CourseGrade, len(t.Grades), len(t.Grades)+1)
	copy(grades, t.Grades)
	return &Transcript{
		Student: t.Student,
		Grades:  append(grades, CourseGrade{Course: course, Grade: grade}),
	}
}

// GradeCount возвращает количество записанных оценок.
func (t *Transcript) GradeCount() int {
	return len(t.Grades)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENCODING
// ══════════════════════════════════════════════════════════════════════════════

// Encode сериализует ведомость в JSON для хранения в бэкенде.
func Encode(t *Transcript) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("transcript: encode: %w", err)
	}
	return data, nil
}

// Decode восстанавливает ведомость из JSON. Отсутствующий список оценок
// превращается в пустой, чтобы "найдено, оценок нет" не путалось с nil.
func Decode(data []byte) (*Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("transcript: decode: %w", err)
	}
	if t.Grades == nil {
		t.Grades = []CourseGrade{}
	}
	return &t, nil
}
