// Package cache provides a small TTL cache used for read-through lookups.
// The cache is advisory: callers must treat a miss as the normal path and
// invalidate on every write to the cached entity.
package cache

import (
	"sync"
	"time"
)

// Cache is the get/set/invalidate contract injected into components that
// cache lookups. Expiry and invalidation-on-write are part of the
// contract, not implementation details.
type Cache[T any] interface {
	// Get retrieves a value; the second return is false on miss or expiry.
	Get(key string) (T, bool)

	// Set stores a value under key with the cache's TTL.
	Set(key string, value T)

	// Invalidate removes a key. Called on every write to the cached entity.
	Invalidate(key string)

	// Size returns the current number of live entries.
	Size() int
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// TTLCache is a mutex-guarded map with per-entry expiry.
type TTLCache[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]entry[T]
}

// NewTTLCache creates a TTL cache. Entries expire ttl after each Set.
func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		ttl:   ttl,
		items: make(map[string]entry[T]),
	}
}

// Get retrieves a value from the cache.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.value, true
}

// Set stores a value in the cache.
func (c *TTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// Invalidate removes a key from the cache.
func (c *TTLCache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Size returns the number of entries, counting expired ones not yet
// swept by CleanExpired.
func (c *TTLCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// CleanExpired removes expired entries and returns how many were removed.
func (c *TTLCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}
