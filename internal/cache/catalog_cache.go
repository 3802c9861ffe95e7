package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/weddingwise/weddingwise-bookings/internal/domain"
	"github.com/weddingwise/weddingwise-bookings/pkg/logger"
)

const (
	eventsKey  = "catalog:events"
	vendorsKey = "catalog:vendors"
)

// CatalogCache is a read-through cache for the public catalog listings.
// All methods degrade to a miss on redis errors; the caller falls back
// to the database.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(redisURL string, ttl time.Duration) (*CatalogCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &CatalogCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

func NewCatalogCacheWithClient(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

func (c *CatalogCache) GetEvents(ctx context.Context) ([]domain.Event, bool) {
	var events []domain.Event
	if !c.get(ctx, eventsKey, &events) {
		return nil, false
	}
	return events, true
}

func (c *CatalogCache) SetEvents(ctx context.Context, events []domain.Event) {
	c.set(ctx, eventsKey, events)
}

func (c *CatalogCache) GetVendors(ctx context.Context) ([]domain.Vendor, bool) {
	var vendors []domain.Vendor
	if !c.get(ctx, vendorsKey, &vendors) {
		return nil, false
	}
	return vendors, true
}

func (c *CatalogCache) SetVendors(ctx context.Context, vendors []domain.Vendor) {
	c.set(ctx, vendorsKey, vendors)
}

// InvalidateEvents drops the cached event listing after a mutation.
func (c *CatalogCache) InvalidateEvents(ctx context.Context) {
	if err := c.client.Del(ctx, eventsKey).Err(); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate event cache", "error", err)
	}
}

func (c *CatalogCache) InvalidateVendors(ctx context.Context) {
	if err := c.client.Del(ctx, vendorsKey).Err(); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate vendor cache", "error", err)
	}
}

func (c *CatalogCache) Close() error {
	return c.client.Close()
}

func (c *CatalogCache) get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logger.WarnContext(ctx, "Cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.WarnContext(ctx, "Cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.WarnContext(ctx, "Cache write failed", "key", key, "error", err)
	}
}
