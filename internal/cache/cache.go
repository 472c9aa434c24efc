package cache

import (
	"context"
	"sync"
	"time"
)

// TokenCache stores short-lived access tokens for the fiscal backend.
// The Redis implementation lets several service instances share one
// token instead of racing the auth endpoint.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryTokenCache is the in-process fallback used when Redis is not
// configured
type MemoryTokenCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryTokenCache creates an empty in-memory token cache
func NewMemoryTokenCache() *MemoryTokenCache {
	return &MemoryTokenCache{entries: make(map[string]memoryEntry)}
}

// Get returns the cached value if present and unexpired
func (c *MemoryTokenCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

// Set stores a value with a time-to-live
func (c *MemoryTokenCache) Set(_ context.Context, key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}
