package badges

import (
	"sync"
	"time"
)

type cacheEntry struct {
	snapshot Snapshot
	expires  time.Time
}

// snapshotCache memoizes per-user snapshots for a short TTL so repeated
// progress reads do not re-scan the graph.
type snapshotCache struct {
	ttl time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

func newSnapshotCache(ttl time.Duration) *snapshotCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &snapshotCache{
		ttl:   ttl,
		items: make(map[string]cacheEntry),
	}
}

func (c *snapshotCache) get(userID string, now time.Time) (Snapshot, bool) {
	c.mu.RLock()
	entry, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok || now.After(entry.expires) {
		return Snapshot{}, false
	}
	return entry.snapshot, true
}

func (c *snapshotCache) put(userID string, snapshot Snapshot, now time.Time) {
	c.mu.Lock()
	c.items[userID] = cacheEntry{snapshot: snapshot, expires: now.Add(c.ttl)}
	c.mu.Unlock()
}
