package transcript_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/transcripts/internal/domain/shared"
	"github.com/alem-hub/transcripts/internal/domain/transcript"
	"github.com/alem-hub/transcripts/internal/infrastructure/persistence/memory"
)

func newStore() *transcript.Store {
	return transcript.NewStore(memory.NewBackend())
}

func TestAddStudent_DistinctIDs(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	id1, err := store.AddStudent(ctx, "Alvin")
	require.NoError(t, err)
	id2, err := store.AddStudent(ctx, "Bryn")
	require.NoError(t, err)
	id3, err := store.AddStudent(ctx, "Carol")
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.NotEqual(t, id2, id3)
	assert.NotEqual(t, id1, id3)
}

func TestAddStudent_SameNameGetsDifferentIDs(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	id1, err := store.AddStudent(ctx, "Alvin")
	require.NoError(t, err)
	id2, err := store.AddStudent(ctx, "Alvin")
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
}

func TestAddStudent_AcceptsEmptyName(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	id, err := store.AddStudent(ctx, "")
	require.NoError(t, err)

	got, err := store.GetTranscript(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "", got.Student.StudentName)
}

func TestGetTranscript_NewStudentHasEmptyGrades(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	id, err := store.AddStudent(ctx, "Carol")
	require.NoError(t, err)

	got, err := store.GetTranscript(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &transcript.Transcript{
		Student: transcript.Student{StudentID: id, StudentName: "Carol"},
		Grades:  []transcript.CourseGrade{},
	}, got)
}

func TestGetTranscript_UnknownIDIsNotFound(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	id, err := store.AddStudent(ctx, "Carol")
	require.NoError(t, err)

	_, err = store.GetTranscript(ctx, id+"1")
	require.Error(t, err)
	assert.True(t, transcript.IsNotFound(err))
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, err, transcript.ErrTranscriptNotFound)
	assert.Contains(t, err.Error(), "transcript not found for student with ID "+string(id)+"1")
}

func TestAddGrade_AppendsToEmptyTranscript(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	id, err := store.AddStudent(ctx, "Carol")
	require.NoError(t, err)
	require.NoError(t, store.AddGrade(ctx, id, "Math", 91))

	got, err := store.GetTranscript(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &transcript.Transcript{
		Student: transcript.Student{StudentID: id, StudentName: "Carol"},
		Grades:  []transcript.CourseGrade{{Course: "Math", Grade: 91}},
	}, got)
}

func TestAddGrade_UnknownIDIsNotFound(t *testing.T) {
	store := newStore()

	err := store.AddGrade(context.Background(), "4", "Math", 91)
	require.Error(t, err)
	assert.True(t, transcript.IsNotFound(err))
}

func TestAddGrade_StudentsAreIsolated(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	id1, err := store.AddStudent(ctx, "Carol")
	require.NoError(t, err)
	id2, err := store.AddStudent(ctx, "Darol")
	require.NoError(t, err)

	require.NoError(t, store.AddGrade(ctx, id1, "Math", 91))
	require.NoError(t, store.AddGrade(ctx, id2, "Math", 87))

	t1, err := store.GetTranscript(ctx, id1)
	require.NoError(t, err)
	t2, err := store.GetTranscript(ctx, id2)
	require.NoError(t, err)

	assert.Equal(t, []transcript.CourseGrade{{Course: "Math", Grade: 91}}, t1.Grades)
	assert.Equal(t, []transcript.CourseGrade{{Course: "Math", Grade: 87}}, t2.Grades)
}

func TestAddGrade_RepeatedCourseAccumulates(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	id, err := store.AddStudent(ctx, "Eris")
	require.NoError(t, err)
	require.NoError(t, store.AddGrade(ctx, id, "Math", 91))
	require.NoError(t, store.AddGrade(ctx, id, "Math", 87))

	got, err := store.GetTranscript(ctx, id)
	require.NoError(t, err)

	grades := append([]transcript.CourseGrade(nil), got.Grades...)
	sort.Slice(grades, func(i, j int) bool { return grades[i].Grade < grades[j].Grade })
	assert.Equal(t, []transcript.CourseGrade{
		{Course: "Math", Grade: 87},
		{Course: "Math", Grade: 91},
	}, grades)
}

func TestAddGrade_KeepsInsertionOrderAndStudent(t *testing.T) {
	store := newStore()
	ctx := context.Background()

	id, err := store.AddStudent(ctx, "Carol")
	require.NoError(t, err)
	require.NoError(t, store.AddGrade(ctx, id, "Math", 91))
	require.NoError(t, store.AddGrade(ctx, id, "History", -3.5))
	require.NoError(t, store.AddGrade(ctx, id, "Math", 87))

	got, err := store.GetTranscript(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, transcript.Student{StudentID: id, StudentName: "Carol"}, got.Student)
	assert.Equal(t, []transcript.CourseGrade{
		{Course: "Math", Grade: 91},
		{Course: "History", Grade: -3.5},
		{Course: "Math", Grade: 87},
	}, got.Grades)
}

func TestStore_InstancesAreIndependent(t *testing.T) {
	ctx := context.Background()
	a := newStore()
	b := newStore()

	id, err := a.AddStudent(ctx, "Carol")
	require.NoError(t, err)

	_, err = b.GetTranscript(ctx, id)
	assert.True(t, transcript.IsNotFound(err))
}

func TestStore_UsesInjectedIDGenerator(t *testing.T) {
	backend := memory.NewBackend()
	store := transcript.NewStore(backend, transcript.WithIDGenerator(func() transcript.StudentID {
		return "fixed-id"
	}))
	ctx := context.Background()

	id, err := store.AddStudent(ctx, "Carol")
	require.NoError(t, err)
	assert.Equal(t, transcript.StudentID("fixed-id"), id)

	raw, found, err := backend.Get(ctx, "fixed-id")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"student":{"studentID":"fixed-id","studentName":"Carol"},"grades":[]}`, string(raw))
}

// failingBackend returns the configured errors from every call.
type failingBackend struct {
	getErr error
	setErr error
	values map[string][]byte
}

func (f *failingBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *failingBackend) Set(_ context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

func TestStore_PropagatesBackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	t.Run("add student", func(t *testing.T) {
		store := transcript.NewStore(&failingBackend{setErr: boom, values: map[string][]byte{}})
		_, err := store.AddStudent(ctx, "Carol")
		assert.ErrorIs(t, err, boom)
		assert.False(t, transcript.IsNotFound(err))
	})

	t.Run("get transcript", func(t *testing.T) {
		store := transcript.NewStore(&failingBackend{getErr: boom, values: map[string][]byte{}})
		_, err := store.GetTranscript(ctx, "any")
		assert.ErrorIs(t, err, boom)
		assert.False(t, transcript.IsNotFound(err))
	})

	t.Run("add grade write", func(t *testing.T) {
		backend := &failingBackend{values: map[string][]byte{}}
		store := transcript.NewStore(backend)
		id, err := store.AddStudent(ctx, "Carol")
		require.NoError(t, err)

		backend.setErr = boom
		err = store.AddGrade(ctx, id, "Math", 91)
		assert.ErrorIs(t, err, boom)
	})
}

func TestStore_CorruptRecordIsDecodeError(t *testing.T) {
	backend := &failingBackend{values: map[string][]byte{"bad": []byte("{not json")}}
	store := transcript.NewStore(backend)

	_, err := store.GetTranscript(context.Background(), "bad")
	require.Error(t, err)
	assert.False(t, transcript.IsNotFound(err))
}
