package roadmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownCache(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCooldownCache(time.Minute)
	cache.now = func() time.Time { return clock }

	assert.True(t, cache.Allow(1))
	assert.False(t, cache.Allow(1))
	// Other projects have independent cooldowns.
	assert.True(t, cache.Allow(2))

	clock = clock.Add(30 * time.Second)
	assert.False(t, cache.Allow(1))
	assert.Equal(t, 30*time.Second, cache.Remaining(1))

	clock = clock.Add(31 * time.Second)
	assert.True(t, cache.Allow(1))
}

func TestCooldownCacheReset(t *testing.T) {
	cache := NewCooldownCache(time.Hour)

	assert.True(t, cache.Allow(1))
	assert.False(t, cache.Allow(1))

	cache.Reset(1)
	assert.Zero(t, cache.Remaining(1))
	assert.True(t, cache.Allow(1))
}
