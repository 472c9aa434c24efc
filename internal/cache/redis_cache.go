package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenCache stores tokens in Redis so multiple instances share
// the same fiscal session
type RedisTokenCache struct {
	client *redis.Client
}

// NewRedisTokenCache connects to Redis and verifies the connection
func NewRedisTokenCache(addr, password string, db int) (*RedisTokenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisTokenCache{client: client}, nil
}

// Get returns the cached value if present
func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis get failed for %s: %v", key, err)
		}
		return "", false
	}
	return value, true
}

// Set stores a value with a time-to-live. Failures are logged and
// swallowed; a cache miss only costs an extra auth round trip.
func (c *RedisTokenCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("Redis set failed for %s: %v", key, err)
	}
}

// Close releases the underlying Redis connection
func (c *RedisTokenCache) Close() error {
	return c.client.Close()
}
