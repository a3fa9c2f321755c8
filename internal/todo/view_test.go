package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo/internal/model"
)

func TestProjectFilterModes(t *testing.T) {
	c := sample()

	assert.Equal(t, []string{"Call mom", "Write report", "Buy milk"}, texts(Project(c, model.FilterAll, "")))
	assert.Equal(t, []string{"Call mom", "Buy milk"}, texts(Project(c, model.FilterActive, "")))
	assert.Equal(t, []string{"Write report"}, texts(Project(c, model.FilterCompleted, "")))
}

func TestProjectActiveAndCompletedPartitionAll(t *testing.T) {
	c := sample()
	active := Project(c, model.FilterActive, "")
	completed := Project(c, model.FilterCompleted, "")

	seen := map[int64]bool{}
	for _, task := range active {
		seen[task.ID] = true
	}
	for _, task := range completed {
		assert.False(t, seen[task.ID], "task %d in both projections", task.ID)
	}
	assert.ElementsMatch(t, ids(Project(c, model.FilterAll, "")), append(ids(active), ids(completed)...))
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	c := sample()
	_ = Project(c, model.FilterAll, "")
	assert.Equal(t, sample(), c)
}

func TestProjectSearchIsCaseInsensitive(t *testing.T) {
	c := sample()
	assert.Equal(t, []string{"Buy milk"}, texts(Project(c, model.FilterAll, "MILK")))
	assert.Equal(t, []string{"Call mom", "Buy milk"}, texts(Project(c, model.FilterActive, "m")))
	assert.Empty(t, Project(c, model.FilterAll, "xyz"))
}

func TestProjectTiesBreakByID(t *testing.T) {
	c := []model.Task{
		{ID: 10, Text: "first", CreatedAt: t0},
		{ID: 11, Text: "second", CreatedAt: t0},
	}
	assert.Equal(t, []string{"second", "first"}, texts(Project(c, model.FilterAll, "")))
}

func TestScenarioFilterAfterCompleting(t *testing.T) {
	var g IDGenerator
	var c []model.Task
	var err error

	c, err = Add(c, "Buy milk", g.Next(t0), t0)
	require.NoError(t, err)
	c, err = Add(c, "Write report", g.Next(t0.Add(time.Second)), t0.Add(time.Second))
	require.NoError(t, err)

	c = ToggleComplete(c, c[0].ID)

	assert.Equal(t, []string{"Write report"}, texts(Project(c, model.FilterActive, "")))
	assert.Equal(t, []string{"Buy milk"}, texts(Project(c, model.FilterCompleted, "")))
}

func TestScenarioSearchMostRecentFirst(t *testing.T) {
	var g IDGenerator
	var c []model.Task
	var err error

	c, err = Add(c, "abc", g.Next(t0), t0)
	require.NoError(t, err)
	c, err = Add(c, "abd", g.Next(t0.Add(time.Millisecond)), t0.Add(time.Millisecond))
	require.NoError(t, err)

	assert.Equal(t, []string{"abd", "abc"}, texts(Project(c, model.FilterAll, "ab")))

	got := Project(c, model.FilterAll, "xyz")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCount(t *testing.T) {
	assert.Equal(t, Counts{Total: 3, Active: 2, Completed: 1}, Count(sample()))
	assert.Equal(t, Counts{}, Count(nil))
}
