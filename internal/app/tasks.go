package app

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/todo"
)

// opContext is the context for board writes. Writes are local and short,
// so the UI loop performs them inline.
func opContext() context.Context {
	return context.Background()
}

// apply surfaces a failed board operation as an alert.
func (m *Model) apply(err error) {
	if err != nil {
		m.showError(err)
	}
}

// showError raises a blocking alert for err.
func (m *Model) showError(err error) {
	if errors.Is(err, todo.ErrEmptyText) {
		m.alert = "Task cannot be empty"
		return
	}
	m.logger.Error("task operation failed", "err", err)
	m.alert = err.Error()
}

// addTask creates a task from the form text.
func (m *Model) addTask(text string) {
	t, err := m.board.Add(opContext(), text)
	if err != nil {
		m.showError(err)
		return
	}
	m.logger.Debug("task added", "id", t.ID)
}

// openForm switches to the new-task form, committing any open edit first.
func (m Model) openForm() (Model, tea.Cmd) {
	if m.taskList.Editing() && !m.commitEdit() {
		return m, nil
	}
	m.previousView = m.currentView
	m.currentView = ViewTaskCreate
	return m, m.formView.Start()
}

// beginEdit opens the inline editor on the selected task.
func (m Model) beginEdit() (Model, tea.Cmd) {
	t, ok := m.taskList.SelectedTask()
	if !ok || !m.board.BeginEdit(t.ID) {
		return m, nil
	}
	return m, m.taskList.StartEdit(t)
}

// commitEdit saves the inline draft. It reports false, leaving the editor
// open, when the board refused the draft.
func (m *Model) commitEdit() bool {
	m.board.UpdateDraft(m.taskList.Draft())
	if err := m.board.CommitEdit(opContext()); err != nil {
		m.showError(err)
		return false
	}
	m.taskList.StopEdit()
	return true
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (Model, tea.Cmd) {
	if mode, err := model.ParseFilterMode(cmd); err == nil {
		m.board.SetFilter(mode)
		return m, nil
	}

	switch {
	case cmd == "new" || cmd == "add":
		return m.openForm()
	case cmd == "search":
		return m, m.taskList.StartSearch()
	case strings.HasPrefix(cmd, "search "):
		m.taskList.ClearSearch()
		return m.searchFor(strings.TrimSpace(strings.TrimPrefix(cmd, "search ")))
	case cmd == "clear search":
		m.taskList.ClearSearch()
		m.board.SetSearch("")
		return m, nil
	case cmd == "complete all":
		m.apply(m.board.MarkAllComplete(opContext()))
		return m, nil
	case cmd == "clear completed":
		m.apply(m.board.ClearCompleted(opContext()))
		return m, nil
	case cmd == "help":
		m.previousView = ViewList
		m.currentView = ViewHelp
		return m, nil
	case cmd == "quit" || cmd == "q":
		return m, tea.Quit
	default:
		m.alert = "Unknown command: " + cmd
		return m, nil
	}
}

// searchFor types query into the search bar and applies it.
func (m Model) searchFor(query string) (Model, tea.Cmd) {
	cmd := m.taskList.StartSearch()
	m.taskList, _ = m.taskList.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(query)})
	m.taskList, _ = m.taskList.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.board.SetSearch(m.taskList.Query())
	return m, cmd
}
