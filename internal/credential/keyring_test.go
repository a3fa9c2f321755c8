package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMemoryRing(t *testing.T) {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	prev := Open
	Open = func() (keyring.Keyring, error) { return ring, nil }
	t.Cleanup(func() { Open = prev })
}

func TestSetGetDelete(t *testing.T) {
	useMemoryRing(t)

	require.NoError(t, Set("redis-password", "hunter2"))

	got, err := Get("redis-password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	require.NoError(t, Delete("redis-password"))
	_, err = Get("redis-password")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingIsNotAnError(t *testing.T) {
	useMemoryRing(t)
	assert.NoError(t, Delete("nope"))
}

func TestOpenFailure(t *testing.T) {
	boom := errors.New("no keyring")
	prev := Open
	Open = func() (keyring.Keyring, error) { return nil, boom }
	t.Cleanup(func() { Open = prev })

	_, err := Get("k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, Set("k", "v"), boom)
}
