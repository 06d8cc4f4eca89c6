package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("first mark wins", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		ok, err := store.MarkProcessed(ctx, "checkout:place:1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.MarkProcessed(ctx, "checkout:place:1", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)

		processed, err := store.IsProcessed(ctx, "checkout:place:1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired key can be marked again", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		ok, err := store.MarkProcessed(ctx, "k", 10*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "k")
		require.NoError(t, err)
		assert.False(t, processed)

		ok, err = store.MarkProcessed(ctx, "k", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("release frees the key", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		_, err := store.MarkProcessed(ctx, "k", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Release(ctx, "k"))
		assert.Equal(t, 0, store.Size())

		ok, err := store.MarkProcessed(ctx, "k", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("cleanup drops expired keys", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		_, _ = store.MarkProcessed(ctx, "old", time.Millisecond)
		_, _ = store.MarkProcessed(ctx, "new", time.Hour)
		time.Sleep(5 * time.Millisecond)

		store.cleanup()
		assert.Equal(t, 1, store.Size())
	})

	t.Run("concurrent marks admit exactly one", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := store.MarkProcessed(ctx, "race", time.Hour); ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		assert.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}
