package snapcache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process cache holding one value for tests/dev.
type MemoryCache[T any] struct {
	mu        sync.RWMutex
	value     T
	set       bool
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewMemoryCache builds a cache whose value expires after ttl. A zero ttl never expires.
func NewMemoryCache[T any](ttl time.Duration) *MemoryCache[T] {
	return &MemoryCache[T]{ttl: ttl, now: time.Now}
}

func (c *MemoryCache[T]) Get(_ context.Context) (T, bool, error) {
	var zero T
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.set {
		return zero, false, nil
	}
	if !c.expiresAt.IsZero() && !c.now().Before(c.expiresAt) {
		return zero, false, nil
	}
	return c.value, true, nil
}

func (c *MemoryCache[T]) Set(_ context.Context, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.set = true
	c.expiresAt = time.Time{}
	if c.ttl > 0 {
		c.expiresAt = c.now().Add(c.ttl)
	}
	return nil
}
