package tasklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo/internal/keys"
	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/theme"
	"github.com/nhle/todo/internal/todo"
)

// Model is the main task list view component. It renders whatever the
// owner hands it through SetTasks and never mutates tasks itself.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	filter      model.FilterMode
	counts      todo.Counts
	searchMode  bool
	searchInput textinput.Model
	editor      *editor
	width       int
	height      int
}

// New creates a new task list model.
func New(k *keys.KeyMap, width, height int) Model {
	ed := &editor{input: textinput.New()}
	ed.input.Prompt = ""
	ed.input.CharLimit = 0

	delegate := ItemDelegate{editor: ed}
	l := list.New([]list.Item{}, delegate, width, listHeight(height))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		filter:      model.FilterAll,
		searchInput: si,
		editor:      ed,
		width:       width,
		height:      height,
	}
}

// listHeight leaves room for the filter tabs and the search bar.
func listHeight(height int) int {
	h := height - 3
	if h < 1 {
		return 1
	}
	return h
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetTasks replaces the rendered tasks, keeping the cursor on the same
// task when it is still visible.
func (m *Model) SetTasks(tasks []model.Task, filter model.FilterMode, counts todo.Counts) tea.Cmd {
	selected, hadSelection := m.SelectedTask()

	items := make([]list.Item, len(tasks))
	cursor := 0
	for i, t := range tasks {
		items[i] = TaskItem{Task: t}
		if hadSelection && t.ID == selected.ID {
			cursor = i
		}
	}

	m.filter = filter
	m.counts = counts
	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		if cursor >= len(items) {
			cursor = len(items) - 1
		}
		m.list.Select(cursor)
	}
	return cmd
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Len returns the number of rendered tasks.
func (m Model) Len() int { return len(m.list.Items()) }

// StartEdit replaces the row of t with a focused text input holding its
// current text.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	m.editor.active = true
	m.editor.id = t.ID
	m.editor.input.Width = m.width - 12
	m.editor.input.SetValue(t.Text)
	m.editor.input.CursorEnd()
	m.editor.original = t.Text
	m.editor.seeded = m.editor.input.Value()
	return m.editor.input.Focus()
}

// StopEdit hides the inline input.
func (m *Model) StopEdit() {
	m.editor.active = false
	m.editor.id = 0
	m.editor.original = ""
	m.editor.seeded = ""
	m.editor.input.Blur()
	m.editor.input.Reset()
}

// Editing reports whether the inline input is shown.
func (m Model) Editing() bool { return m.editor.active }

// EditingID returns the id of the task being edited.
func (m Model) EditingID() int64 { return m.editor.id }

// Draft returns the inline input's current text, or the task's original
// text while the input is unchanged.
func (m Model) Draft() string {
	if v := m.editor.input.Value(); v != m.editor.seeded {
		return v
	}
	return m.editor.original
}

// Searching reports whether the search bar has focus.
func (m Model) Searching() bool { return m.searchMode }

// StartSearch focuses the search bar.
func (m *Model) StartSearch() tea.Cmd {
	m.searchMode = true
	m.searchInput.CursorEnd()
	return m.searchInput.Focus()
}

// ClearSearch empties and blurs the search bar.
func (m *Model) ClearSearch() {
	m.searchMode = false
	m.searchInput.Blur()
	m.searchInput.Reset()
}

// Query returns the search bar's current text.
func (m Model) Query() string { return m.searchInput.Value() }

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case m.editor.active:
			var cmd tea.Cmd
			m.editor.input, cmd = m.editor.input.Update(msg)
			return m, cmd
		case m.searchMode:
			return m.handleSearchKeys(msg)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while the search bar has focus.
// Enter keeps the query, esc clears it.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.ClearSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// View renders the filter tabs, the search bar and the list.
func (m Model) View() string {
	tabs := m.renderTabs()

	search := ""
	if m.searchMode || m.searchInput.Value() != "" {
		search = lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabs, search, body)
}

// renderTabs shows one tab per filter mode with its count.
func (m Model) renderTabs() string {
	counts := map[model.FilterMode]int{
		model.FilterAll:       m.counts.Total,
		model.FilterActive:    m.counts.Active,
		model.FilterCompleted: m.counts.Completed,
	}
	tabs := make([]string, 0, len(model.FilterModes))
	for _, f := range model.FilterModes {
		label := fmt.Sprintf("%s (%d)", f.Label(), counts[f])
		tabs = append(tabs, theme.FilterTabStyle(f == m.filter).Render(label))
	}
	return strings.Join(tabs, " ")
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(listHeight(m.height)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.counts.Total > 0 {
		return style.Render("No matching tasks.\nTry another filter or search.")
	}

	return style.Render("Nothing to do.\n\nPress " + m.keys.Add.Help().Key + " to add a task.")
}

// MoveMatches reports whether msg is a cursor movement that should
// count as leaving the row being edited.
func (m Model) MoveMatches(msg tea.KeyMsg) bool {
	if m.editor.active {
		return msg.Type == tea.KeyUp || msg.Type == tea.KeyDown
	}
	return key.Matches(msg, m.keys.Up, m.keys.Down)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, listHeight(height))
	m.searchInput.Width = width - 4
	m.editor.input.Width = width - 12
}
