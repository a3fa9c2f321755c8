// Package todo holds the task collection operations, the view projection,
// the edit session and the Board that ties them to persistence.
//
// Collection operations never modify their input: each returns a fresh
// slice, so a caller can keep the previous value until the new one has
// been persisted.
package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/todo/internal/model"
)

// ErrEmptyText is returned when task text is empty after trimming.
var ErrEmptyText = errors.New("task cannot be empty")

// ErrDuplicateID is returned when Add is given an id already in use.
var ErrDuplicateID = errors.New("duplicate task id")

// Add appends a new open task with the trimmed text. The input is
// returned unchanged together with ErrEmptyText when the text is blank.
func Add(tasks []model.Task, rawText string, id int64, now time.Time) ([]model.Task, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return tasks, ErrEmptyText
	}
	if _, ok := Find(tasks, id); ok {
		return tasks, fmt.Errorf("adding task %d: %w", id, ErrDuplicateID)
	}

	out := make([]model.Task, len(tasks), len(tasks)+1)
	copy(out, tasks)
	return append(out, model.Task{
		ID:        id,
		Text:      text,
		Completed: false,
		CreatedAt: now,
	}), nil
}

// Remove returns the collection without the task matching id.
func Remove(tasks []model.Task, id int64) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// ToggleComplete flips the completion flag of the task matching id.
func ToggleComplete(tasks []model.Task, id int64) []model.Task {
	return mapTasks(tasks, func(t model.Task) model.Task {
		if t.ID == id {
			t.Completed = !t.Completed
		}
		return t
	})
}

// UpdateText replaces the text of the task matching id verbatim.
func UpdateText(tasks []model.Task, id int64, text string) []model.Task {
	return mapTasks(tasks, func(t model.Task) model.Task {
		if t.ID == id {
			t.Text = text
		}
		return t
	})
}

// MarkAllComplete marks every task completed.
func MarkAllComplete(tasks []model.Task) []model.Task {
	return mapTasks(tasks, func(t model.Task) model.Task {
		t.Completed = true
		return t
	})
}

// ClearCompleted keeps only open tasks.
func ClearCompleted(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Find returns the task with the given id.
func Find(tasks []model.Task, id int64) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func mapTasks(tasks []model.Task, fn func(model.Task) model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = fn(t)
	}
	return out
}
