package store

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nhle/todo/internal/model"
)

// corruptSuffix is appended to the storage key when a corrupt value is
// set aside.
const corruptSuffix = ".corrupt"

// CorruptStateError reports a persisted value that could not be parsed.
type CorruptStateError struct {
	Key string
	Err error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt task state under key %q: %v", e.Key, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

// BridgeConfig configures a Bridge.
type BridgeConfig struct {
	// Key is the storage slot. Defaults to model.DefaultStorageKey.
	Key string

	// OnCorrupt is model.OnCorruptReset (default) or model.OnCorruptFail.
	OnCorrupt string

	Logger *log.Logger
}

// Bridge loads and saves the whole task collection under a single key.
type Bridge struct {
	kv        KV
	key       string
	onCorrupt string
	logger    *log.Logger
}

// NewBridge returns a Bridge writing through kv.
func NewBridge(kv KV, cfg BridgeConfig) *Bridge {
	b := &Bridge{
		kv:        kv,
		key:       cfg.Key,
		onCorrupt: cfg.OnCorrupt,
		logger:    cfg.Logger,
	}
	if b.key == "" {
		b.key = model.DefaultStorageKey
	}
	if b.onCorrupt == "" {
		b.onCorrupt = model.OnCorruptReset
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b
}

// Key returns the storage slot in use.
func (b *Bridge) Key() string { return b.key }

// Load reads the collection. A missing key yields an empty collection.
// A corrupt value is either returned as *CorruptStateError or, under the
// reset policy, copied to "<key>.corrupt" and replaced by an empty
// collection.
func (b *Bridge) Load(ctx context.Context) ([]model.Task, error) {
	raw, found, err := b.kv.Get(ctx, b.key)
	if err != nil {
		return nil, fmt.Errorf("reading tasks: %w", err)
	}
	if !found {
		b.logger.Debug("no saved tasks", "key", b.key)
		return []model.Task{}, nil
	}

	tasks, err := DecodeTasks([]byte(raw))
	if err == nil {
		return tasks, nil
	}

	corrupt := &CorruptStateError{Key: b.key, Err: err}
	if b.onCorrupt == model.OnCorruptFail {
		return nil, corrupt
	}

	backup := b.key + corruptSuffix
	if err := b.kv.Set(ctx, backup, raw); err != nil {
		return nil, fmt.Errorf("setting aside corrupt tasks: %w", err)
	}
	b.logger.Warn("saved tasks were unreadable; starting with an empty list",
		"key", b.key, "backup", backup, "err", corrupt.Err)
	return []model.Task{}, nil
}

// Save serializes the full collection and overwrites the key.
func (b *Bridge) Save(ctx context.Context, tasks []model.Task) error {
	data, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := b.kv.Set(ctx, b.key, string(data)); err != nil {
		return fmt.Errorf("writing tasks: %w", err)
	}
	return nil
}
