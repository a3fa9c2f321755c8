package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/todo/internal/credential"
	"github.com/nhle/todo/internal/model"
)

// KV is the durable key-value service the task collection is written to.
type KV interface {
	// Get returns the value stored under key. found is false when the
	// key has never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value string) error

	Close() error
}

// RedisPasswordKey names the keyring entry consulted for the Redis password.
const RedisPasswordKey = "redis-password"

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg model.StorageConfig) (KV, error) {
	switch cfg.Backend {
	case model.BackendSQLite, "":
		return NewSQLiteStore(cfg.SQLitePath)
	case model.BackendFile:
		return NewFileStore(cfg.FileDir)
	case model.BackendRedis:
		password := cfg.RedisPassword
		if password == "" {
			stored, err := credential.Get(RedisPasswordKey)
			switch {
			case err == nil:
				password = stored
			case errors.Is(err, credential.ErrNotFound):
				// No stored password; connect without one.
			default:
				return nil, fmt.Errorf("reading redis password: %w", err)
			}
		}
		return NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: password,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
