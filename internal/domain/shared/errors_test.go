package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_MatchesKind(t *testing.T) {
	err := NewDomainError("transcript", "GetTranscript", ErrNotFound, "missing")

	assert.True(t, IsNotFound(err))
	assert.False(t, IsInvalidInput(err))
	assert.Equal(t, "transcript.GetTranscript: missing", err.Error())
}

func TestDomainError_MatchesKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewDomainError("transcript", "AddGrade", ErrNotFound, "missing"))

	assert.True(t, IsNotFound(err))
}

func TestWrapError_KeepsUnderlyingError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError("transcript", "AddStudent", ErrStorage, "backend write failed", cause)

	assert.True(t, IsStorage(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "transcript.AddStudent: backend write failed: connection refused", err.Error())
}
