package stats

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/quanganhtapcode/store/pkg/redis"
)

// Cache is the TTL store behind the stats snapshot. Values are JSON strings;
// a miss or an expired entry returns ErrMiss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// ErrMiss marks an absent or expired cache entry.
var ErrMiss = errors.New("stats: cache miss")

// redisCache adapts the shared redis client to the Cache interface.
type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps the shared redis client.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key)
	if errors.Is(err, redis.ErrMiss) {
		return "", ErrMiss
	}
	return val, err
}

func (c *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl)
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memoryCache is the in-process fallback when redis is not configured.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache builds a process-local TTL cache.
func NewMemoryCache() Cache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return "", ErrMiss
	}
	return entry.value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
