package todo

import (
	"sort"
	"strings"

	"github.com/nhle/todo/internal/model"
)

// Project derives the displayed sequence: tasks passing mode whose text
// contains search (case-insensitive), most recently created first.
// Equal creation times fall back to id, newest first.
func Project(tasks []model.Task, mode model.FilterMode, search string) []model.Task {
	needle := strings.ToLower(search)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !mode.Keep(t) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Text), needle) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return out
}

// Counts summarizes a collection for status lines.
type Counts struct {
	Total     int
	Active    int
	Completed int
}

// Count tallies tasks by completion state.
func Count(tasks []model.Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}
