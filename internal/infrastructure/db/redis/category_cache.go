package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sweetshop/inventory-system/internal/core/service"
)

const (
	categoryKey = "sweets:categories"
	categoryTTL = 30 * time.Second
)

// CategoryCache caches the derived category set in Redis. The cache is
// advisory only: the store remains the source of truth, and the short TTL
// bounds staleness even if an invalidation is lost.
type CategoryCache struct {
	client *redis.Client
}

// NewCategoryCache creates a CategoryCache wrapping the given Redis client.
func NewCategoryCache(client *redis.Client) *CategoryCache {
	return &CategoryCache{client: client}
}

// Get returns the cached category set, or service.ErrCacheMiss when none is
// stored.
func (c *CategoryCache) Get(ctx context.Context) ([]string, error) {
	raw, err := c.client.Get(ctx, categoryKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, service.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("category cache get: %w", err)
	}

	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil, fmt.Errorf("category cache decode: %w", err)
	}
	return categories, nil
}

// Set stores the category set with the cache TTL.
func (c *CategoryCache) Set(ctx context.Context, categories []string) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("category cache encode: %w", err)
	}
	return c.client.Set(ctx, categoryKey, raw, categoryTTL).Err()
}

// Invalidate drops the cached category set after an inventory mutation.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, categoryKey).Err()
}
