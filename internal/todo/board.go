package todo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/todo/internal/model"
)

// Persister loads and saves the whole task collection.
type Persister interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
}

// Listener is notified after the collection, filter or search changes.
type Listener func(b *Board)

// Options configures a Board.
type Options struct {
	// Filter is the initial filter mode. Defaults to FilterAll.
	Filter model.FilterMode

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger
}

// Board owns the current task collection together with the view settings
// and the edit session. It is not safe for concurrent use; the UI loop or a
// single CLI command owns it.
type Board struct {
	persister Persister
	tasks     []model.Task
	filter    model.FilterMode
	search    string
	edit      EditSession
	ids       IDGenerator
	now       func() time.Time
	logger    *log.Logger
	listeners []Listener
}

// NewBoard loads the persisted collection and returns a ready Board.
func NewBoard(ctx context.Context, p Persister, opts Options) (*Board, error) {
	tasks, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	b := &Board{
		persister: p,
		tasks:     tasks,
		filter:    opts.Filter,
		now:       opts.Now,
		logger:    opts.Logger,
	}
	if b.filter == "" {
		b.filter = model.FilterAll
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	b.ids.Observe(tasks)

	b.logger.Debug("board loaded", "tasks", len(tasks))
	return b, nil
}

// Subscribe registers fn to run after every change.
func (b *Board) Subscribe(fn Listener) {
	b.listeners = append(b.listeners, fn)
}

// Tasks returns the collection in storage order.
func (b *Board) Tasks() []model.Task { return b.tasks }

// Filter returns the active filter mode.
func (b *Board) Filter() model.FilterMode { return b.filter }

// Search returns the active search text.
func (b *Board) Search() string { return b.search }

// Edit returns the current edit session.
func (b *Board) Edit() EditSession { return b.edit }

// Visible projects the collection through the current filter and search.
func (b *Board) Visible() []model.Task {
	return Project(b.tasks, b.filter, b.search)
}

// Counts tallies the whole collection.
func (b *Board) Counts() Counts { return Count(b.tasks) }

// Add creates a task from rawText and returns it.
func (b *Board) Add(ctx context.Context, rawText string) (model.Task, error) {
	now := b.now()
	next, err := Add(b.tasks, rawText, b.ids.Next(now), now)
	if err != nil {
		return model.Task{}, err
	}
	if err := b.commit(ctx, "add", next); err != nil {
		return model.Task{}, err
	}
	return next[len(next)-1], nil
}

// Import appends tasks with fresh ids and creation times, keeping their
// text and completion. The batch is saved in one write; when any record is
// rejected nothing is added.
func (b *Board) Import(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	ids := b.ids
	next := b.tasks
	for i, t := range tasks {
		now := b.now()
		id := ids.Next(now)
		var err error
		next, err = Add(next, t.Text, id, now)
		if err != nil {
			return nil, fmt.Errorf("importing record %d: %w", i+1, err)
		}
		if t.Completed {
			next = ToggleComplete(next, id)
		}
	}
	if err := b.commit(ctx, "import", next); err != nil {
		return nil, err
	}
	b.ids = ids
	return next[len(next)-len(tasks):], nil
}

// Remove deletes the task with id. Missing ids are ignored. An edit of
// the removed task is discarded.
func (b *Board) Remove(ctx context.Context, id int64) error {
	return b.commitWithEdit(ctx, "remove", Remove(b.tasks, id))
}

// ToggleComplete flips the completion flag of id.
func (b *Board) ToggleComplete(ctx context.Context, id int64) error {
	return b.commit(ctx, "toggle", ToggleComplete(b.tasks, id))
}

// UpdateText sets the text of id verbatim.
func (b *Board) UpdateText(ctx context.Context, id int64, text string) error {
	return b.commit(ctx, "update", UpdateText(b.tasks, id, text))
}

// MarkAllComplete completes every task.
func (b *Board) MarkAllComplete(ctx context.Context) error {
	return b.commit(ctx, "mark all complete", MarkAllComplete(b.tasks))
}

// ClearCompleted removes completed tasks.
func (b *Board) ClearCompleted(ctx context.Context) error {
	return b.commitWithEdit(ctx, "clear completed", ClearCompleted(b.tasks))
}

// BeginEdit starts editing id, dropping any other draft. It reports false
// when the task does not exist.
func (b *Board) BeginEdit(id int64) bool {
	t, ok := Find(b.tasks, id)
	if !ok {
		return false
	}
	b.edit = b.edit.Begin(id, t.Text)
	return true
}

// UpdateDraft replaces the draft text of the current edit.
func (b *Board) UpdateDraft(text string) {
	b.edit = b.edit.UpdateDraft(text)
}

// CommitEdit saves the draft into its task and ends the edit.
func (b *Board) CommitEdit(ctx context.Context) error {
	next, session, err := b.edit.Commit(b.tasks)
	if err != nil {
		return err
	}
	prev := b.edit
	b.edit = session
	if err := b.commit(ctx, "commit edit", next); err != nil {
		b.edit = prev
		return err
	}
	return nil
}

// CancelEdit discards the draft.
func (b *Board) CancelEdit() {
	b.edit = b.edit.Cancel()
}

// SetFilter changes the filter mode.
func (b *Board) SetFilter(mode model.FilterMode) {
	if mode == b.filter {
		return
	}
	b.filter = mode
	b.notify()
}

// SetSearch changes the search text.
func (b *Board) SetSearch(search string) {
	if search == b.search {
		return
	}
	b.search = search
	b.notify()
}

// commit persists next and adopts it only once the write succeeded.
func (b *Board) commit(ctx context.Context, op string, next []model.Task) error {
	if err := b.persister.Save(ctx, next); err != nil {
		b.logger.Error("saving tasks failed", "op", op, "err", err)
		return fmt.Errorf("saving tasks after %s: %w", op, err)
	}
	b.tasks = next
	b.logger.Debug("tasks saved", "op", op, "tasks", len(next))
	b.notify()
	return nil
}

// commitWithEdit is commit for operations that may delete the task under
// edit; the session is dropped when its task is gone.
func (b *Board) commitWithEdit(ctx context.Context, op string, next []model.Task) error {
	prev := b.edit
	if b.edit.Active() {
		if _, ok := Find(next, b.edit.ID()); !ok {
			b.edit = b.edit.Cancel()
		}
	}
	if err := b.commit(ctx, op, next); err != nil {
		b.edit = prev
		return err
	}
	return nil
}

func (b *Board) notify() {
	for _, fn := range b.listeners {
		fn(b)
	}
}
