package todo

import (
	"errors"
	"strings"

	"github.com/nhle/todo/internal/model"
)

// ErrNotEditing is returned when committing with no edit in progress.
var ErrNotEditing = errors.New("no edit in progress")

// EditSession tracks the single task whose text is being edited.
// The zero value is idle.
type EditSession struct {
	id      int64
	draft   string
	editing bool
}

// Begin starts editing id with currentText as the draft. Any previous
// draft is dropped without being committed.
func (s EditSession) Begin(id int64, currentText string) EditSession {
	return EditSession{id: id, draft: currentText, editing: true}
}

// UpdateDraft replaces the draft text. It does nothing when idle.
func (s EditSession) UpdateDraft(text string) EditSession {
	if !s.editing {
		return s
	}
	s.draft = text
	return s
}

// Commit writes the draft into tasks and returns an idle session.
// A blank draft is refused with ErrEmptyText and the session stays open.
// If the task no longer exists the collection is returned unchanged.
func (s EditSession) Commit(tasks []model.Task) ([]model.Task, EditSession, error) {
	if !s.editing {
		return tasks, s, ErrNotEditing
	}
	if strings.TrimSpace(s.draft) == "" {
		return tasks, s, ErrEmptyText
	}
	return UpdateText(tasks, s.id, s.draft), EditSession{}, nil
}

// Cancel discards the draft.
func (s EditSession) Cancel() EditSession {
	return EditSession{}
}

// Active reports whether an edit is in progress.
func (s EditSession) Active() bool { return s.editing }

// ID returns the task being edited, or 0 when idle.
func (s EditSession) ID() int64 { return s.id }

// Draft returns the current draft text.
func (s EditSession) Draft() string { return s.draft }

// Editing reports whether id is the task under edit.
func (s EditSession) Editing(id int64) bool {
	return s.editing && s.id == id
}
