package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/todo/internal/keys"
	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/todo"
	"github.com/nhle/todo/internal/ui"
	"github.com/nhle/todo/internal/ui/command"
	helpview "github.com/nhle/todo/internal/ui/help"
	"github.com/nhle/todo/internal/ui/tasklist"
	"github.com/nhle/todo/internal/ui/todoform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
	ViewCommand
	ViewTaskCreate
)

// boardWatch records board change notifications between renders.
// It lives on the heap so model copies share it.
type boardWatch struct {
	changed bool
}

// Model is the root Bubble Tea model that routes input to the active view
// and applies task operations to the board.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	board        *todo.Board
	watch        *boardWatch
	keys         *keys.KeyMap
	taskList     tasklist.Model
	helpView     helpview.Model
	commandView  command.Model
	formView     todoform.Model
	logger       *log.Logger
	alert        string
	ready        bool
}

// New creates a root model over b. A nil logger discards output.
func New(b *todo.Board, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	k := keys.DefaultKeyMap()

	watch := &boardWatch{changed: true}
	b.Subscribe(func(*todo.Board) { watch.changed = true })

	m := Model{
		currentView: ViewList,
		board:       b,
		watch:       watch,
		keys:        k,
		taskList:    tasklist.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		formView:    todoform.New(80, 24),
		logger:      logger,
	}
	m, _ = m.refresh(nil)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.taskList.Init()
}

// Update handles messages and re-renders the list when the board changed.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	return next.refresh(cmd)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case todoform.TaskSubmittedMsg:
		m.currentView = ViewList
		m.addTask(msg.Text)
		return m, nil

	case todoform.FormCancelMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = ViewList
		m.commandView.Blur()
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		switch m.currentView {
		case ViewList:
			return m.handleListKeys(msg)
		case ViewHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
				m.currentView = m.previousView
				return m, nil
			}
			return m, nil
		case ViewCommand:
			if msg.Type == tea.KeyEsc {
				m.commandView.Blur()
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	return m.updateActiveView(msg)
}

// handleListKeys processes keys while the task list is shown.
func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.taskList.Editing() {
		return m.handleEditKeys(msg)
	}
	if m.taskList.Searching() {
		next, cmd := m.updateActiveView(msg)
		next.board.SetSearch(next.taskList.Query())
		return next, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Add):
		return m.openForm()

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.taskList.SelectedTask(); ok {
			m.apply(m.board.ToggleComplete(opContext(), t.ID))
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit()

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.taskList.SelectedTask(); ok {
			m.apply(m.board.Remove(opContext(), t.ID))
		}
		return m, nil

	case key.Matches(msg, m.keys.CompleteAll):
		m.apply(m.board.MarkAllComplete(opContext()))
		return m, nil

	case key.Matches(msg, m.keys.ClearCompleted):
		m.apply(m.board.ClearCompleted(opContext()))
		return m, nil

	case key.Matches(msg, m.keys.CycleFilter):
		m.board.SetFilter(m.board.Filter().Next())
		return m, nil

	case key.Matches(msg, m.keys.FilterAll):
		m.board.SetFilter(model.FilterAll)
		return m, nil

	case key.Matches(msg, m.keys.FilterActive):
		m.board.SetFilter(model.FilterActive)
		return m, nil

	case key.Matches(msg, m.keys.FilterCompleted):
		m.board.SetFilter(model.FilterCompleted)
		return m, nil

	case key.Matches(msg, m.keys.Search):
		return m, m.taskList.StartSearch()

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil
	}

	return m.updateActiveView(msg)
}

// handleEditKeys processes keys while a task row is being edited. Moving
// the cursor away or switching the filter commits the draft first.
func (m Model) handleEditKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		m.commitEdit()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.board.CancelEdit()
		m.taskList.StopEdit()
		return m, nil

	case m.taskList.MoveMatches(msg), msg.Type == tea.KeyTab:
		if !m.commitEdit() {
			return m, nil
		}
		return m.handleListKeys(msg)
	}

	next, cmd := m.updateActiveView(msg)
	next.board.UpdateDraft(next.taskList.Draft())
	return next, cmd
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskCreate:
		m.formView, cmd = m.formView.Update(msg)
	}

	return m, cmd
}

// refresh pushes the board's projection into the list after a change.
func (m Model) refresh(cmd tea.Cmd) (Model, tea.Cmd) {
	if !m.board.Edit().Active() && m.taskList.Editing() {
		m.taskList.StopEdit()
	}
	if !m.watch.changed {
		return m, cmd
	}
	m.watch.changed = false
	listCmd := m.taskList.SetTasks(m.board.Visible(), m.board.Filter(), m.board.Counts())
	return m, tea.Batch(cmd, listCmd)
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Todo", m.summary())
	content := m.renderContent()
	if m.alert != "" {
		content = m.layout.RenderAlert(m.alert, "press any key to continue")
	}
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskCreate:
		return m.formView.View()
	default:
		return ""
	}
}

// summary returns the right-hand header text.
func (m Model) summary() string {
	c := m.board.Counts()
	return fmt.Sprintf("%d active · %d done", c.Active, c.Completed)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewTaskCreate:
		return "enter add | esc cancel"
	}

	switch {
	case m.taskList.Editing():
		return "enter save | esc cancel | ↑/↓ save and move"
	case m.taskList.Searching():
		return "type to search | enter keep | esc clear"
	default:
		return m.helpView.ShortView()
	}
}
