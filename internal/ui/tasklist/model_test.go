package tasklist

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo/internal/keys"
	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/todo"
)

func tasks(texts ...string) []model.Task {
	out := make([]model.Task, len(texts))
	for i, text := range texts {
		out[i] = model.Task{ID: int64(i + 1), Text: text}
	}
	return out
}

func TestSetTasksKeepsSelection(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	all := tasks("a", "b", "c")
	m.SetTasks(all, model.FilterAll, todo.Count(all))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel, ok := m.SelectedTask()
	require.True(t, ok)
	assert.Equal(t, "b", sel.Text)

	// "b" moves to the top; the cursor follows it.
	m.SetTasks([]model.Task{all[1], all[2]}, model.FilterAll, todo.Count(all))
	sel, _ = m.SelectedTask()
	assert.Equal(t, "b", sel.Text)

	// A vanished selection falls back to the first row.
	m.SetTasks([]model.Task{all[2]}, model.FilterAll, todo.Count(all))
	sel, _ = m.SelectedTask()
	assert.Equal(t, "c", sel.Text)
}

func TestInlineEditor(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	all := tasks("draft me")
	m.SetTasks(all, model.FilterAll, todo.Count(all))

	m.StartEdit(all[0])
	assert.True(t, m.Editing())
	assert.Equal(t, int64(1), m.EditingID())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	assert.Equal(t, "draft me!", m.Draft())

	m.StopEdit()
	assert.False(t, m.Editing())
	assert.Equal(t, "", m.Draft())
}

func TestSearchBar(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)

	m.StartSearch()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("milk")})
	assert.True(t, m.Searching())
	assert.Equal(t, "milk", m.Query())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Searching())
	assert.Equal(t, "milk", m.Query(), "enter keeps the query")

	m.StartSearch()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Searching())
	assert.Equal(t, "", m.Query())
}

func TestEmptyStates(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetTasks(nil, model.FilterAll, todo.Counts{})
	assert.Contains(t, m.View(), "Nothing to do.")

	m.SetTasks(nil, model.FilterCompleted, todo.Counts{Total: 2, Active: 2})
	assert.Contains(t, m.View(), "No matching tasks.")
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "", relativeTime(time.Time{}, now))
	assert.Equal(t, "just now", relativeTime(now.Add(-30*time.Second), now))
	assert.Equal(t, "5m ago", relativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", relativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", relativeTime(now.Add(-48*time.Hour), now))
	assert.Equal(t, "2w ago", relativeTime(now.Add(-15*24*time.Hour), now))
}
