package ttlcache

import (
	"sync"
	"time"
)

// DefaultTTL is the entry lifetime used when no TTL is configured.
// Thirty seconds keeps entitlement reads fresh enough that a plan change
// shows up quickly while still absorbing bursts of repeated checks.
const DefaultTTL = 30 * time.Second

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source. Intended for tests that need to
// move time forward without sleeping.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Cache is a thread-safe key-value cache with per-cache TTL expiry.
// An entry is valid iff now - fetchedAt < ttl; expired entries are treated
// as absent and evicted on the next read, so a stale value is never returned.
// There is no eviction policy beyond TTL: the cache is meant for a small,
// bounded key set (one key per cached snapshot).
type Cache[K comparable, V any] struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
	items map[K]entry[V]
}

// New creates a cache with the given TTL. Non-positive TTL falls back to DefaultTTL.
func New[K comparable, V any](ttl time.Duration, opts ...Option) *Cache[K, V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[K, V]{
		ttl:   ttl,
		now:   o.now,
		items: make(map[K]entry[V]),
	}
}

// Get retrieves a value if present and still within its TTL.
// An expired entry is evicted and reported as absent.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}

	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.items, key)
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set stores a value, stamping it with the current time.
// Concurrent writers race benignly: values are idempotent snapshots of the
// same remote truth, so last write wins.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[V]{value: value, fetchedAt: c.now()}
}

// Remove drops a single key.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear drops all entries. Called after subscription-mutating operations
// (cancel, plan change, successful checkout).
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]entry[V])
}

// Len returns the number of entries, including not-yet-evicted expired ones.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
