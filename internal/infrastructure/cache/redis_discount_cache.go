package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appmarketing "github.com/reuseday/backend/internal/application/marketing"
	"github.com/reuseday/backend/internal/domain/marketing"
)

// RedisDiscountCache caches discount codes in Redis so validation stays
// cheap across instances. Redis errors degrade to cache misses, the
// database remains the source of truth.
type RedisDiscountCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisDiscountCache creates a Redis-backed discount cache and
// verifies connectivity
func NewRedisDiscountCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) (*RedisDiscountCache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisDiscountCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func discountKey(normalizedCode string) string {
	return "discount:" + normalizedCode
}

// Get returns a cached discount code, treating any Redis failure as a miss
func (c *RedisDiscountCache) Get(ctx context.Context, normalizedCode string) (*marketing.DiscountCode, bool) {
	data, err := c.client.Get(ctx, discountKey(normalizedCode)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("discount cache read failed",
				zap.String("code", normalizedCode),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var dc marketing.DiscountCode
	if err := json.Unmarshal(data, &dc); err != nil {
		c.logger.Warn("discount cache entry corrupt, dropping",
			zap.String("code", normalizedCode),
			zap.Error(err),
		)
		c.client.Del(ctx, discountKey(normalizedCode))
		return nil, false
	}
	return &dc, true
}

// Set stores a discount code with the configured TTL
func (c *RedisDiscountCache) Set(ctx context.Context, normalizedCode string, dc *marketing.DiscountCode) {
	data, err := json.Marshal(dc)
	if err != nil {
		c.logger.Warn("discount cache marshal failed",
			zap.String("code", normalizedCode),
			zap.Error(err),
		)
		return
	}
	if err := c.client.Set(ctx, discountKey(normalizedCode), data, c.ttl).Err(); err != nil {
		c.logger.Warn("discount cache write failed",
			zap.String("code", normalizedCode),
			zap.Error(err),
		)
	}
}

// Invalidate drops a cached discount code
func (c *RedisDiscountCache) Invalidate(ctx context.Context, normalizedCode string) {
	if err := c.client.Del(ctx, discountKey(normalizedCode)).Err(); err != nil {
		c.logger.Warn("discount cache invalidation failed",
			zap.String("code", normalizedCode),
			zap.Error(err),
		)
	}
}

// Ensure RedisDiscountCache implements the application port
var _ appmarketing.DiscountCache = (*RedisDiscountCache)(nil)
