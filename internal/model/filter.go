package model

import (
	"fmt"
	"strings"
)

// FilterMode selects which tasks are shown.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

// FilterModes lists the modes in display order.
var FilterModes = []FilterMode{FilterAll, FilterActive, FilterCompleted}

// ParseFilterMode converts a user-supplied string into a FilterMode.
// Matching is case-insensitive; an empty string means FilterAll.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "complete", "done":
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, active or completed)", s)
	}
}

// Keep reports whether a task passes this filter.
func (f FilterMode) Keep(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next returns the mode after f, wrapping around.
func (f FilterMode) Next() FilterMode {
	for i, m := range FilterModes {
		if m == f {
			return FilterModes[(i+1)%len(FilterModes)]
		}
	}
	return FilterAll
}

// Label returns the capitalized mode name for display.
func (f FilterMode) Label() string {
	s := string(f)
	if s == "" {
		return "All"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
