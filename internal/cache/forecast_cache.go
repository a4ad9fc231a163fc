// internal/cache/forecast_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dineiq/dineiq/internal/config"
	"github.com/dineiq/dineiq/internal/forecast"
)

const (
	forecastKeyPrefix     = "forecast:demand"
	forecastScanBatchSize = 100
)

// ForecastCache memoizes demand forecasts. Forecasts are pure functions of
// sales history, so a short TTL keeps results fresh enough while absorbing
// dashboard refresh bursts.
type ForecastCache interface {
	GetDemand(ctx context.Context, itemID string, horizonHours int) (*forecast.DemandForecast, bool, error)
	SetDemand(ctx context.Context, f *forecast.DemandForecast) error
	InvalidateItem(ctx context.Context, itemID string) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func demandKey(itemID string, horizonHours int) string {
	return fmt.Sprintf("%s:%s:%d", forecastKeyPrefix, itemID, horizonHours)
}

func (c *redisForecastCache) GetDemand(ctx context.Context, itemID string, horizonHours int) (*forecast.DemandForecast, bool, error) {
	payload, err := c.client.Get(ctx, demandKey(itemID, horizonHours)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var f forecast.DemandForecast
	if err := json.Unmarshal(payload, &f); err != nil {
		return nil, false, fmt.Errorf("decode demand forecast cache: %w", err)
	}
	return &f, true, nil
}

func (c *redisForecastCache) SetDemand(ctx context.Context, f *forecast.DemandForecast) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode demand forecast cache: %w", err)
	}
	if err := c.client.Set(ctx, demandKey(f.ItemID, f.HorizonHours), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisForecastCache) InvalidateItem(ctx context.Context, itemID string) error {
	prefix := fmt.Sprintf("%s:%s:", forecastKeyPrefix, itemID)
	return deleteKeysWithPrefix(ctx, c.client, prefix, forecastScanBatchSize)
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, forecastScanBatchSize)
}

func (c *noopForecastCache) GetDemand(ctx context.Context, itemID string, horizonHours int) (*forecast.DemandForecast, bool, error) {
	return nil, false, nil
}

func (c *noopForecastCache) SetDemand(ctx context.Context, f *forecast.DemandForecast) error {
	return nil
}

func (c *noopForecastCache) InvalidateItem(ctx context.Context, itemID string) error {
	return nil
}

func (c *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}
