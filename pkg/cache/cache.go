// Package cache provides a Redis-backed cache for search result pages
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageManager stores raw search result pages in Redis
type PageManager struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

// NewPageManager creates a new page cache. Keys are stored under
// "<prefix>:page:" and expire after ttl.
func NewPageManager(redisClient *redis.Client, prefix string, ttl time.Duration) *PageManager {
	if prefix == "" {
		prefix = "errorgrams"
	}

	return &PageManager{
		redisClient: redisClient,
		keyPrefix:   prefix + ":page:",
		ttl:         ttl,
	}
}

// GetPage returns the cached page for key, or nil on a cache miss
func (c *PageManager) GetPage(ctx context.Context, key string) ([]byte, error) {
	data, err := c.redisClient.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}

		return nil, fmt.Errorf("failed to read page %s: %w", key, err)
	}

	return data, nil
}

// SetPage stores a page under key
func (c *PageManager) SetPage(ctx context.Context, key string, data []byte) error {
	return c.redisClient.Set(ctx, c.keyPrefix+key, data, c.ttl).Err()
}

// InvalidatePage removes a page from the cache
func (c *PageManager) InvalidatePage(ctx context.Context, key string) error {
	return c.redisClient.Del(ctx, c.keyPrefix+key).Err()
}
