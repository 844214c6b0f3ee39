package signalstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mssession/pkg/signalstore"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := signalstore.NewMemoryStore(2, signalstore.WithMemoryClock(clock.Now))

	_, err := store.Get(ctx, "device-a")
	assert.ErrorIs(t, err, signalstore.ErrNotFound)

	rec := signalstore.Record{SessionID: "pvs_1_a", LastActivity: 1000}
	require.NoError(t, store.Put(ctx, "device-a", rec, time.Hour))

	got, err := store.Get(ctx, "device-a")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	t.Run("expires after ttl", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "device-b", rec, time.Minute))
		clock.Advance(time.Minute)

		_, err := store.Get(ctx, "device-b")
		assert.ErrorIs(t, err, signalstore.ErrNotFound)
		_, err = store.Get(ctx, "device-a")
		assert.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "device-a"))
		require.NoError(t, store.Delete(ctx, "device-a"))
		_, err := store.Get(ctx, "device-a")
		assert.ErrorIs(t, err, signalstore.ErrNotFound)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := store.Get(ctx, "")
		assert.ErrorIs(t, err, signalstore.ErrEmptyKey)
		assert.ErrorIs(t, store.Put(ctx, "", rec, 0), signalstore.ErrEmptyKey)
		assert.ErrorIs(t, store.Delete(ctx, ""), signalstore.ErrEmptyKey)
	})
}

func TestMemoryStore_Capacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := signalstore.NewMemoryStore(2)

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, store.Put(ctx, key, signalstore.Record{SessionID: key}, 0))
	}

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, signalstore.ErrNotFound)
	got, err := store.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "c", got.SessionID)
}
