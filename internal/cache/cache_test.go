package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryTokenCacheRoundTrip(t *testing.T) {
	c := NewMemoryTokenCache()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "token"); ok {
		t.Fatalf("empty cache should miss")
	}

	c.Set(ctx, "token", "abc123", time.Minute)

	value, ok := c.Get(ctx, "token")
	if !ok || value != "abc123" {
		t.Fatalf("expected cached value, got %q (hit=%v)", value, ok)
	}
}

func TestMemoryTokenCacheExpiry(t *testing.T) {
	c := NewMemoryTokenCache()
	ctx := context.Background()

	c.Set(ctx, "token", "abc123", 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get(ctx, "token"); ok {
		t.Fatalf("expired entry should miss")
	}
}

func TestMemoryTokenCacheOverwrite(t *testing.T) {
	c := NewMemoryTokenCache()
	ctx := context.Background()

	c.Set(ctx, "token", "old", time.Minute)
	c.Set(ctx, "token", "new", time.Minute)

	value, _ := c.Get(ctx, "token")
	if value != "new" {
		t.Fatalf("expected the newer value, got %q", value)
	}
}
