package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStore returns a store that is closed when the test ends.
func newStore(t *testing.T) *InMemoryIdempotencyStore {
	t.Helper()
	store := NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// mark is a shorthand for MarkProcessed that fails the test on error.
func mark(t *testing.T, store *InMemoryIdempotencyStore, messageRef string, ttl time.Duration) bool {
	t.Helper()
	isNew, err := store.MarkProcessed(context.Background(), messageRef, ttl)
	require.NoError(t, err)
	return isNew
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := newStore(t)

	t.Run("marks new message as processed", func(t *testing.T) {
		assert.True(t, mark(t, store, "TL20260315000001", time.Hour), "first delivery should return true")
	})

	t.Run("returns false for replayed message", func(t *testing.T) {
		assert.True(t, mark(t, store, "TL20260315000002", time.Hour))
		assert.False(t, mark(t, store, "TL20260315000002", time.Hour), "replayed message should return false")
	})

	t.Run("allows reprocessing after dedup window expires", func(t *testing.T) {
		assert.True(t, mark(t, store, "TL20260315000003", 10*time.Millisecond))
		time.Sleep(20 * time.Millisecond)
		assert.True(t, mark(t, store, "TL20260315000003", 10*time.Millisecond),
			"message past the dedup window should be reprocessable")
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	t.Run("returns false for unseen message", func(t *testing.T) {
		processed, err := store.IsProcessed(ctx, "TL20260315999999")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("returns true for processed message", func(t *testing.T) {
		mark(t, store, "TL20260315000010", time.Hour)

		processed, err := store.IsProcessed(ctx, "TL20260315000010")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("returns false once the dedup window passed", func(t *testing.T) {
		mark(t, store, "TL20260315000011", 10*time.Millisecond)
		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "TL20260315000011")
		require.NoError(t, err)
		assert.False(t, processed)
	})
}

func TestInMemoryIdempotencyStore_Size(t *testing.T) {
	store := newStore(t)

	assert.Equal(t, 0, store.Size())

	mark(t, store, "TL20260315000001", time.Hour)
	mark(t, store, "TL20260315000002", time.Hour)
	assert.Equal(t, 2, store.Size())

	// A replay must not grow the store.
	mark(t, store, "TL20260315000001", time.Hour)
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	mark(t, store, "TL20260318000001", 10*time.Millisecond)
	mark(t, store, "TL20260318000002", 10*time.Millisecond)
	mark(t, store, "TL20260318000003", time.Hour)
	assert.Equal(t, 3, store.Size())

	time.Sleep(20 * time.Millisecond)
	store.sweep()

	assert.Equal(t, 1, store.Size(), "only the long-lived key should survive the sweep")

	processed, err := store.IsProcessed(ctx, "TL20260318000003")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "TL20260318000001")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentAccess(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	const goroutines = 100
	const messageRef = "TL20260317000005"

	results := make(chan bool, goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			isNew, err := store.MarkProcessed(ctx, messageRef, time.Hour)
			results <- err == nil && isNew
		}()
	}

	newCount := 0
	for i := 0; i < goroutines; i++ {
		if <-results {
			newCount++
		}
	}
	assert.Equal(t, 1, newCount, "exactly one delivery should win the mark")
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	assert.NoError(t, store.Close())
	// Closing again must be a no-op.
	assert.NoError(t, store.Close())
}
