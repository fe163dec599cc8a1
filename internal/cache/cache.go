package cache

import (
	"sync"
	"time"
)

// Entry wraps a cached value with its insertion time
type Entry[T any] struct {
	Data      T
	Timestamp time.Time
}

// Cache is an in-memory TTL cache. Entries are evicted lazily when read past
// their TTL, never swept proactively. Every read-check-then-write runs under
// one lock so interleaved callers cannot observe a partially updated entry.
type Cache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]Entry[T]
	now     func() time.Time
}

// New creates a cache whose entries expire after ttl
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]Entry[T]),
		now:     time.Now,
	}
}

// Get returns the live value for key. An expired entry is deleted and
// reported as a miss.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if c.now().Sub(entry.Timestamp) > c.ttl {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return entry.Data, true
}

// Set stores value under key, replacing any prior entry
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry[T]{Data: value, Timestamp: c.now()}
}

// Len reports the number of stored entries, expired or not
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Flush drops all entries
func (c *Cache[T]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry[T])
}

// SetClock overrides the cache's time source. Test hook.
func (c *Cache[T]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
