package tasklist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the task text.
func (i TaskItem) FilterValue() string { return i.Task.Text }

// editor is the inline text input shown in place of the task being
// edited. It is shared by pointer between the Model and its delegate.
type editor struct {
	active bool
	id     int64
	input  textinput.Model

	// original is the task text and seeded is what the input made of it.
	// The input folds newlines and tabs, so an untouched draft maps back
	// to original.
	original string
	seeded   string
}

// ItemDelegate implements list.ItemDelegate for rendering tasks.
type ItemDelegate struct {
	editor *editor
	now    func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	task := ti.Task
	isSelected := index == m.Index()

	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	box = theme.CheckboxStyle(task.Completed).Render(box)

	var text string
	switch {
	case d.editor != nil && d.editor.active && d.editor.id == task.ID:
		text = d.editor.input.View()
	case task.Completed:
		text = theme.CompletedTextStyle.Render(task.Text)
	default:
		text = task.Text
	}

	age := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(task.CreatedAt, d.clock()))

	line := fmt.Sprintf("%s %s  %s", box, text, age)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func (d ItemDelegate) clock() time.Time {
	if d.now == nil {
		return time.Now()
	}
	return d.now()
}

// relativeTime returns a human-friendly age for t measured at now.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	}
}
