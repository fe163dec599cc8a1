package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ballpark-labs/preview-service/internal/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](time.Minute)

	c.Set("key", "value")

	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestCache_MissingKey(t *testing.T) {
	c := cache.New[string](time.Minute)

	got, ok := c.Get("absent")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestCache_EntryExpiresAfterTTL(t *testing.T) {
	c := cache.New[int](5 * time.Minute)
	now := time.Now()
	c.SetClock(func() time.Time { return now })

	c.Set("key", 42)

	// Still live just inside the TTL
	now = now.Add(5 * time.Minute)
	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	// Expired one tick past the TTL, and evicted on read
	now = now.Add(time.Nanosecond)
	_, ok = c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_SetReplacesAndRefreshes(t *testing.T) {
	c := cache.New[string](time.Minute)
	now := time.Now()
	c.SetClock(func() time.Time { return now })

	c.Set("key", "old")
	now = now.Add(50 * time.Second)
	c.Set("key", "new")

	// The rewrite restarted the clock, so the entry survives past the
	// original deadline.
	now = now.Add(30 * time.Second)
	got, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestCache_Flush(t *testing.T) {
	c := cache.New[string](time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	assert.Equal(t, 2, c.Len())

	c.Flush()
	assert.Equal(t, 0, c.Len())

	_, ok := c.Get("a")
	assert.False(t, ok)
}
