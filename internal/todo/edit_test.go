package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditCommit(t *testing.T) {
	c := sample()
	s := EditSession{}.Begin(1, "Buy milk").UpdateDraft("new text")

	got, s, err := s.Commit(c)
	require.NoError(t, err)
	assert.False(t, s.Active())

	task, ok := Find(got, 1)
	require.True(t, ok)
	assert.Equal(t, "new text", task.Text)
	assert.Equal(t, int64(1), task.ID)
	assert.False(t, task.Completed)
}

func TestEditCommitKeepsCompletion(t *testing.T) {
	s := EditSession{}.Begin(2, "Write report").UpdateDraft("Write the report")
	got, _, err := s.Commit(sample())
	require.NoError(t, err)

	task, _ := Find(got, 2)
	assert.True(t, task.Completed)
	assert.Equal(t, "Write the report", task.Text)
}

func TestEditCommitIdle(t *testing.T) {
	c := sample()
	got, _, err := EditSession{}.Commit(c)
	assert.ErrorIs(t, err, ErrNotEditing)
	assert.Equal(t, c, got)
}

func TestEditCommitRejectsBlankDraft(t *testing.T) {
	s := EditSession{}.Begin(1, "Buy milk").UpdateDraft("   ")
	got, s, err := s.Commit(sample())
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.True(t, s.Editing(1), "session stays open")
	assert.Equal(t, sample(), got)
}

func TestEditBeginReplacesDraft(t *testing.T) {
	s := EditSession{}.Begin(1, "Buy milk").UpdateDraft("changed")
	s = s.Begin(3, "Call mom")

	assert.True(t, s.Editing(3))
	assert.False(t, s.Editing(1))
	assert.Equal(t, "Call mom", s.Draft())

	got, _, err := s.Commit(sample())
	require.NoError(t, err)
	assert.Equal(t, sample(), got, "dropped draft must not be written")
}

func TestEditCancel(t *testing.T) {
	s := EditSession{}.Begin(1, "Buy milk").Cancel()
	assert.False(t, s.Active())
	assert.Equal(t, int64(0), s.ID())
}

func TestEditUpdateDraftWhenIdle(t *testing.T) {
	s := EditSession{}.UpdateDraft("ignored")
	assert.False(t, s.Active())
	assert.Equal(t, "", s.Draft())
}

func TestEditStaleSessionIsNoop(t *testing.T) {
	s := EditSession{}.Begin(2, "Write report").UpdateDraft("gone")
	c := Remove(sample(), 2)

	got, s, err := s.Commit(c)
	require.NoError(t, err)
	assert.False(t, s.Active())
	assert.Equal(t, c, got)
}
