package model

import "time"

// Task is a single to-do entry.
type Task struct {
	// ID is the stable identity key. Generated from a monotonic,
	// millisecond-resolution clock, so it is unique within a collection.
	ID int64 `json:"id"`

	// Text is the task description. Trimmed and non-empty at creation.
	Text string `json:"text"`

	// Completed reports whether the task has been checked off.
	Completed bool `json:"completed"`

	// CreatedAt is captured when the task is added and never changes.
	// It is only used for ordering.
	CreatedAt time.Time `json:"createdAt"`
}

// Equal reports whether two tasks carry the same fields. Timestamps are
// compared by instant so a round trip through a string representation
// still compares equal.
func (t Task) Equal(other Task) bool {
	return t.ID == other.ID &&
		t.Text == other.Text &&
		t.Completed == other.Completed &&
		t.CreatedAt.Equal(other.CreatedAt)
}
