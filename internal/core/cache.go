package core

import (
	"sync"
	"time"
)

// nameCache memoizes organization names for the dashboard listing so the
// project list does not re-join per request.
type nameCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[int64]nameEntry
}

type nameEntry struct {
	name    string
	expires time.Time
}

func newNameCache(ttl time.Duration) *nameCache {
	return &nameCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int64]nameEntry),
	}
}

func (c *nameCache) get(id int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok || c.now().After(entry.expires) {
		delete(c.entries, id)
		return "", false
	}
	return entry.name, true
}

func (c *nameCache) put(id int64, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = nameEntry{name: name, expires: c.now().Add(c.ttl)}
}

// reset drops one entry, for when an organization is renamed or deleted.
func (c *nameCache) reset(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}
