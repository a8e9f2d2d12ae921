package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tallerix/taller-backend/config"
	"github.com/tallerix/taller-backend/internal/app/model"
	"github.com/tallerix/taller-backend/pkg/logger"
)

const (
	pricingKeyPrefix = "pricing:accessory:"
	pricingTTL       = 10 * time.Minute
	opTimeout        = 2 * time.Second
)

// PricingCache caches persisted accessory pricing rows in Redis. The database
// row stays authoritative: every cache miss or Redis failure falls through to
// storage, and the aggregator invalidates entries whenever it upserts.
type PricingCache struct {
	client *redis.Client
}

// New connects to Redis and returns the cache. Returns an error when the
// server cannot be reached; callers may then run without a cache.
func New(cfg *config.RedisConfig) (*PricingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis pricing cache connected", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})
	return &PricingCache{client: client}, nil
}

// Close closes the Redis connection.
func (c *PricingCache) Close() error {
	return c.client.Close()
}

func pricingKey(accessoryID uint) string {
	return fmt.Sprintf("%s%d", pricingKeyPrefix, accessoryID)
}

func (c *PricingCache) Get(accessoryID uint) (*model.AccessoryPricing, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, pricingKey(accessoryID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Pricing cache read failed", map[string]interface{}{
				"accessory_id": accessoryID,
				"error":        err.Error(),
			})
		}
		return nil, false
	}

	var pricing model.AccessoryPricing
	if err := json.Unmarshal(data, &pricing); err != nil {
		logger.Warn("Pricing cache entry corrupted, dropping", map[string]interface{}{
			"accessory_id": accessoryID,
		})
		c.Invalidate(accessoryID)
		return nil, false
	}
	return &pricing, true
}

func (c *PricingCache) Set(pricing *model.AccessoryPricing) {
	data, err := json.Marshal(pricing)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, pricingKey(pricing.AccessoryID), data, pricingTTL).Err(); err != nil {
		logger.Warn("Pricing cache write failed", map[string]interface{}{
			"accessory_id": pricing.AccessoryID,
			"error":        err.Error(),
		})
	}
}

func (c *PricingCache) Invalidate(accessoryID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, pricingKey(accessoryID)).Err(); err != nil {
		logger.Warn("Pricing cache invalidation failed", map[string]interface{}{
			"accessory_id": accessoryID,
			"error":        err.Error(),
		})
	}
}
