package todo

import (
	"time"

	"github.com/nhle/todo/internal/model"
)

// IDGenerator hands out task ids derived from the wall clock in
// milliseconds. Ids are strictly increasing: two calls within the same
// millisecond, or after the clock steps backwards, still get distinct ids.
type IDGenerator struct {
	last int64
}

// Next returns a fresh id for a task created at now.
func (g *IDGenerator) Next(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe raises the floor to the highest id in tasks so generated ids
// never collide with an existing collection.
func (g *IDGenerator) Observe(tasks []model.Task) {
	for _, t := range tasks {
		if t.ID > g.last {
			g.last = t.ID
		}
	}
}
