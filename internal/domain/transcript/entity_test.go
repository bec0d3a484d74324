package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithGrade_DoesNotMutateOriginal(t *testing.T) {
	original := NewTranscript("id-1", "Carol")
	updated := original.WithGrade("Math", 91)

	assert.Empty(t, original.Grades)
	assert.Equal(t, 1, updated.GradeCount())
	assert.Equal(t, original.Student, updated.Student)
}

func TestDecode_MissingGradesBecomesEmpty(t *testing.T) {
	got, err := Decode([]byte(`{"student":{"studentID":"id-1","studentName":"Carol"}}`))
	require.NoError(t, err)

	assert.NotNil(t, got.Grades)
	assert.Empty(t, got.Grades)
}

func TestEncode_UsesWireFieldNames(t *testing.T) {
	data, err := Encode(NewTranscript("id-1", "Carol").WithGrade("Math", 91))
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"student":{"studentID":"id-1","studentName":"Carol"},"grades":[{"course":"Math","grade":91}]}`,
		string(data))
}
