package todo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo/internal/model"
)

// memPersister keeps the last saved collection and can be told to fail.
type memPersister struct {
	saved   []model.Task
	saves   int
	loadErr error
	saveErr error
}

func (p *memPersister) Load(context.Context) ([]model.Task, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.saved, nil
}

func (p *memPersister) Save(_ context.Context, tasks []model.Task) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saves++
	p.saved = tasks
	return nil
}

func newTestBoard(t *testing.T, p *memPersister) *Board {
	t.Helper()
	clock := t0
	b, err := NewBoard(context.Background(), p, Options{
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
	require.NoError(t, err)
	return b
}

func TestBoardStartsEmpty(t *testing.T) {
	b := newTestBoard(t, &memPersister{})
	assert.NotNil(t, b.Tasks())
	assert.Empty(t, b.Tasks())
	assert.Equal(t, model.FilterAll, b.Filter())
}

func TestBoardLoadError(t *testing.T) {
	_, err := NewBoard(context.Background(), &memPersister{loadErr: errors.New("boom")}, Options{})
	assert.ErrorContains(t, err, "boom")
}

func TestBoardPersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	b := newTestBoard(t, p)

	milk, err := b.Add(ctx, "Buy milk")
	require.NoError(t, err)
	report, err := b.Add(ctx, " Write report ")
	require.NoError(t, err)
	assert.Equal(t, "Write report", report.Text)
	assert.Greater(t, report.ID, milk.ID)

	require.NoError(t, b.ToggleComplete(ctx, milk.ID))
	require.NoError(t, b.UpdateText(ctx, report.ID, "Write the report"))
	require.NoError(t, b.MarkAllComplete(ctx))
	require.NoError(t, b.ClearCompleted(ctx))
	require.NoError(t, b.Remove(ctx, 12345))

	assert.Equal(t, 7, p.saves)
	assert.Empty(t, p.saved)
}

func TestBoardRejectsEmptyAddWithoutSaving(t *testing.T) {
	p := &memPersister{}
	b := newTestBoard(t, p)

	_, err := b.Add(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Zero(t, p.saves)
	assert.Empty(t, b.Tasks())
}

func TestBoardKeepsStateWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	b := newTestBoard(t, p)
	task, err := b.Add(ctx, "Buy milk")
	require.NoError(t, err)

	p.saveErr = errors.New("disk full")
	err = b.ToggleComplete(ctx, task.ID)
	assert.ErrorContains(t, err, "disk full")
	assert.False(t, b.Tasks()[0].Completed)
}

func TestBoardImportSavesOnce(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	b := newTestBoard(t, p)
	_, err := b.Add(ctx, "existing")
	require.NoError(t, err)

	added, err := b.Import(ctx, []model.Task{
		{ID: 7, Text: "  a  "},
		{ID: 7, Text: "b", Completed: true},
	})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, "a", added[0].Text)
	assert.False(t, added[0].Completed)
	assert.Equal(t, "b", added[1].Text)
	assert.True(t, added[1].Completed)
	assert.NotEqual(t, added[0].ID, added[1].ID)

	assert.Equal(t, 2, p.saves)
	assert.Len(t, p.saved, 3)
}

func TestBoardImportRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	b := newTestBoard(t, p)
	_, err := b.Add(ctx, "existing")
	require.NoError(t, err)

	_, err = b.Import(ctx, []model.Task{{Text: "a"}, {Text: "   "}})
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.ErrorContains(t, err, "record 2")

	assert.Equal(t, 1, p.saves)
	assert.Equal(t, []string{"existing"}, []string{b.Tasks()[0].Text})
	assert.Len(t, b.Tasks(), 1)
}

func TestBoardSeedsIDsFromLoadedTasks(t *testing.T) {
	future := t0.Add(24 * time.Hour).UnixMilli()
	p := &memPersister{saved: []model.Task{{ID: future, Text: "later", CreatedAt: t0}}}
	b := newTestBoard(t, p)

	task, err := b.Add(context.Background(), "new")
	require.NoError(t, err)
	assert.Equal(t, future+1, task.ID)
}

func TestBoardEditLifecycle(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t, &memPersister{})
	task, err := b.Add(ctx, "Buy milk")
	require.NoError(t, err)

	assert.False(t, b.BeginEdit(999))
	require.True(t, b.BeginEdit(task.ID))
	assert.Equal(t, "Buy milk", b.Edit().Draft())

	b.UpdateDraft("new text")
	require.NoError(t, b.CommitEdit(ctx))
	assert.False(t, b.Edit().Active())
	assert.Equal(t, "new text", b.Tasks()[0].Text)

	assert.ErrorIs(t, b.CommitEdit(ctx), ErrNotEditing)
}

func TestBoardCancelEdit(t *testing.T) {
	ctx := context.Background()
	p := &memPersister{}
	b := newTestBoard(t, p)
	task, err := b.Add(ctx, "Buy milk")
	require.NoError(t, err)

	b.BeginEdit(task.ID)
	b.UpdateDraft("something else")
	b.CancelEdit()

	assert.False(t, b.Edit().Active())
	assert.Equal(t, "Buy milk", b.Tasks()[0].Text)
	assert.Equal(t, 1, p.saves)
}

func TestBoardRemovingEditedTaskDropsSession(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t, &memPersister{})
	a, err := b.Add(ctx, "a")
	require.NoError(t, err)
	c, err := b.Add(ctx, "c")
	require.NoError(t, err)

	b.BeginEdit(a.ID)
	require.NoError(t, b.Remove(ctx, c.ID))
	assert.True(t, b.Edit().Editing(a.ID), "other removals keep the session")

	require.NoError(t, b.Remove(ctx, a.ID))
	assert.False(t, b.Edit().Active())
}

func TestBoardClearCompletedDropsEditedTask(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t, &memPersister{})
	task, err := b.Add(ctx, "done soon")
	require.NoError(t, err)
	require.NoError(t, b.ToggleComplete(ctx, task.ID))

	b.BeginEdit(task.ID)
	require.NoError(t, b.ClearCompleted(ctx))
	assert.False(t, b.Edit().Active())
}

func TestBoardNotifiesSubscribers(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t, &memPersister{})

	var calls int
	var lastVisible []model.Task
	b.Subscribe(func(b *Board) {
		calls++
		lastVisible = b.Visible()
	})

	task, err := b.Add(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, lastVisible, 1)

	b.SetSearch("zzz")
	assert.Equal(t, 2, calls)
	assert.Empty(t, lastVisible)

	b.SetSearch("zzz")
	assert.Equal(t, 2, calls, "unchanged search does not notify")

	b.SetSearch("")
	require.NoError(t, b.ToggleComplete(ctx, task.ID))
	b.SetFilter(model.FilterActive)
	assert.Equal(t, 5, calls)
	assert.Empty(t, lastVisible)

	b.SetFilter(model.FilterCompleted)
	assert.Len(t, lastVisible, 1)
}

func TestBoardCounts(t *testing.T) {
	ctx := context.Background()
	b := newTestBoard(t, &memPersister{})
	a, err := b.Add(ctx, "a")
	require.NoError(t, err)
	_, err = b.Add(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, b.ToggleComplete(ctx, a.ID))

	assert.Equal(t, Counts{Total: 2, Active: 1, Completed: 1}, b.Counts())
}
