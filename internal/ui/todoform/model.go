package todoform

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo/internal/theme"
)

// TaskSubmittedMsg is dispatched when the user submits the form. Text is
// passed through untouched; the task store decides whether it is valid.
type TaskSubmittedMsg struct {
	Text string
}

// FormCancelMsg is dispatched when the user cancels the form.
type FormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	text string
}

// Model is the Bubble Tea model for the new-task form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the form for a fresh entry.
func (m *Model) Start() tea.Cmd {
	m.fb.text = ""
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("text").
				Title("What needs to be done?").
				Placeholder("Add a new task").
				Value(&m.fb.text),
		),
	).
		WithWidth(m.formWidth()).
		WithShowHelp(true).
		WithTheme(huh.ThemeCharm())
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.form = nil
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		text := m.fb.text
		m.form = nil
		return m, func() tea.Msg { return TaskSubmittedMsg{Text: text} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Task") + "\n" + m.form.View()

	return theme.BorderStyle.
		Padding(1, 2).
		Width(m.formWidth()).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) formWidth() int {
	if m.width <= 8 {
		return 40
	}
	return m.width - 8
}
