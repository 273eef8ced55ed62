package cache

import (
	"context"
	"sync"
	"time"

	appmarketing "github.com/reuseday/backend/internal/application/marketing"
	"github.com/reuseday/backend/internal/domain/marketing"
)

// InMemoryDiscountCache caches discount codes in process memory with a
// TTL. Suitable for single-instance deployments and as a fallback when
// Redis is not configured.
type InMemoryDiscountCache struct {
	mu      sync.RWMutex
	entries map[string]discountEntry
	ttl     time.Duration
}

type discountEntry struct {
	code      *marketing.DiscountCode
	expiresAt time.Time
}

// NewInMemoryDiscountCache creates an in-memory discount cache
func NewInMemoryDiscountCache(ttl time.Duration) *InMemoryDiscountCache {
	return &InMemoryDiscountCache{
		entries: make(map[string]discountEntry),
		ttl:     ttl,
	}
}

// Get returns a cached discount code if present and not expired
func (c *InMemoryDiscountCache) Get(_ context.Context, normalizedCode string) (*marketing.DiscountCode, bool) {
	c.mu.RLock()
	entry, ok := c.entries[normalizedCode]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, normalizedCode)
		c.mu.Unlock()
		return nil, false
	}
	return entry.code, true
}

// Set stores a discount code until the TTL elapses
func (c *InMemoryDiscountCache) Set(_ context.Context, normalizedCode string, dc *marketing.DiscountCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[normalizedCode] = discountEntry{
		code:      dc,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops a cached discount code
func (c *InMemoryDiscountCache) Invalidate(_ context.Context, normalizedCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, normalizedCode)
}

// Ensure InMemoryDiscountCache implements the application port
var _ appmarketing.DiscountCache = (*InMemoryDiscountCache)(nil)
