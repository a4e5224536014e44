package roadmap

import (
	"sync"
	"time"
)

// CooldownCache rate-limits roadmap generation per project. A project that
// generated a roadmap inside the window is refused until the window passes
// or the cooldown is reset.
type CooldownCache struct {
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[int64]time.Time
}

// NewCooldownCache creates a cache with the given cooldown window.
func NewCooldownCache(window time.Duration) *CooldownCache {
	return &CooldownCache{
		window:  window,
		now:     time.Now,
		entries: make(map[int64]time.Time),
	}
}

// Allow reports whether the project may generate a roadmap now, and if so
// starts its cooldown window.
func (c *CooldownCache) Allow(projectID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if last, ok := c.entries[projectID]; ok && now.Sub(last) < c.window {
		return false
	}
	c.entries[projectID] = now
	return true
}

// Remaining returns how long until the project may generate again.
func (c *CooldownCache) Remaining(projectID int64) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.entries[projectID]
	if !ok {
		return 0
	}
	remaining := c.window - c.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears the project's cooldown so the next request is allowed.
func (c *CooldownCache) Reset(projectID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, projectID)
}
