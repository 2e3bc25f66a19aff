// Package cache provides an in-memory TTL cache. The service uses it to
// replay creates that carry an Idempotency-Key.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// InMemory is a thread-safe in-memory cache with TTL.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// New creates a cache with the given TTL and starts its janitor. Call Close
// to stop the janitor.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Get retrieves a value. Returns false if not found or expired.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || c.now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Delete removes a value.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Len counts live entries.
func (c *InMemory[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	n := 0
	for _, e := range c.items {
		if !now.After(e.expiresAt) {
			n++
		}
	}
	return n
}

// Close stops the janitor. The cache stays usable.
func (c *InMemory[T]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *InMemory[T]) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.purge()
		}
	}
}

func (c *InMemory[T]) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, v := range c.items {
		if now.After(v.expiresAt) {
			delete(c.items, k)
		}
	}
}
