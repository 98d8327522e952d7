package ttlcache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlekit/pkg/ttlcache"
)

// fakeClock is a mutable time source safe for concurrent reads.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
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

func TestCache_Basic(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()
		c := ttlcache.New[string, int](time.Minute)

		c.Set("a", 1)
		c.Set("b", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)

		val, ok = c.Get("b")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
	})

	t.Run("get missing key", func(t *testing.T) {
		t.Parallel()
		c := ttlcache.New[string, int](time.Minute)

		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, val)
	})

	t.Run("overwrite refreshes value", func(t *testing.T) {
		t.Parallel()
		c := ttlcache.New[string, int](time.Minute)

		c.Set("a", 1)
		c.Set("a", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()
		c := ttlcache.New[string, int](time.Minute)

		c.Set("a", 1)
		c.Remove("a")

		_, ok := c.Get("a")
		assert.False(t, ok)
	})

	t.Run("clear drops all keys", func(t *testing.T) {
		t.Parallel()
		c := ttlcache.New[string, int](time.Minute)

		c.Set("a", 1)
		c.Set("b", 2)
		c.Clear()

		assert.Equal(t, 0, c.Len())
		_, ok := c.Get("a")
		assert.False(t, ok)
	})
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	t.Run("entry valid strictly within ttl", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		c := ttlcache.New[string, string](30*time.Second, ttlcache.WithClock(clock.Now))

		c.Set("sub", "snapshot")

		clock.Advance(29 * time.Second)
		val, ok := c.Get("sub")
		require.True(t, ok)
		assert.Equal(t, "snapshot", val)

		clock.Advance(time.Second) // exactly at the ttl boundary
		_, ok = c.Get("sub")
		assert.False(t, ok)
	})

	t.Run("expired entry stays absent until next set", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		c := ttlcache.New[string, string](30*time.Second, ttlcache.WithClock(clock.Now))

		c.Set("usage", "snapshot")
		clock.Advance(time.Minute)

		_, ok := c.Get("usage")
		require.False(t, ok)

		// A second read before any Set must not resurrect the entry.
		_, ok = c.Get("usage")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())

		c.Set("usage", "fresh")
		val, ok := c.Get("usage")
		require.True(t, ok)
		assert.Equal(t, "fresh", val)
	})

	t.Run("expiry evicts the entry on read", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		c := ttlcache.New[string, int](time.Second, ttlcache.WithClock(clock.Now))

		c.Set("k", 7)
		clock.Advance(2 * time.Second)

		require.Equal(t, 1, c.Len()) // still stored, not yet read
		_, ok := c.Get("k")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len()) // read purged it
	})

	t.Run("non-positive ttl falls back to default", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		c := ttlcache.New[string, int](0, ttlcache.WithClock(clock.Now))

		c.Set("k", 1)
		clock.Advance(ttlcache.DefaultTTL - time.Second)

		_, ok := c.Get("k")
		assert.True(t, ok)

		clock.Advance(2 * time.Second)
		_, ok = c.Get("k")
		assert.False(t, ok)
	})
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := ttlcache.New[int, int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i%5, i)
			c.Get(i % 5)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 5)
}
