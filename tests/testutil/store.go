package testutil

import (
	"testing"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestBridge returns a Bridge over a fresh in-memory store using the
// default key and the given corrupt-state policy.
func NewTestBridge(t *testing.T, onCorrupt string) (*store.Bridge, *store.SQLiteStore) {
	t.Helper()

	s := NewTestStore(t)
	b := store.NewBridge(s, store.BridgeConfig{
		Key:       model.DefaultStorageKey,
		OnCorrupt: onCorrupt,
	})
	return b, s
}
