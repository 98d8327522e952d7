// Package ttlcache provides a generic, thread-safe cache with time-based
// expiry, used to avoid redundant remote reads of slowly changing snapshots.
//
// Unlike capacity-bounded caches, ttlcache has no eviction policy beyond the
// TTL itself: it is meant for a small, fixed key set (for example one key per
// cached remote snapshot) where memory growth is not a concern but staleness
// is. An entry older than the TTL is never returned - it is treated as absent
// and evicted on the read that discovers it.
//
// # Usage
//
//	c := ttlcache.New[string, *Snapshot](30 * time.Second)
//
//	c.Set("usage", snap)
//
//	if snap, ok := c.Get("usage"); ok {
//		// fresh value, younger than the TTL
//	}
//
//	// After a mutating operation, drop everything:
//	c.Clear()
//
// # Testing
//
// The time source is injectable, so tests can expire entries without sleeping:
//
//	now := time.Now()
//	c := ttlcache.New[string, int](time.Minute, ttlcache.WithClock(func() time.Time { return now }))
//	c.Set("k", 1)
//	now = now.Add(2 * time.Minute) // entry is now expired
package ttlcache
