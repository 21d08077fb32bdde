package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Catalog cache keys
const (
	BrandsKey   = "catalog:brands"
	SuppliesKey = "catalog:supplies"
	WagesKey    = "catalog:wages"
)

// ReportKeyFmt is keyed by kind, year and month
const ReportKeyFmt = "reports:%s:%04d-%02d"

const (
	CatalogTTL = 10 * time.Minute
	ReportTTL  = 24 * time.Hour
)

// ReportKey returns the cache key of a finished monthly report
func ReportKey(kind string, month, year int) string {
	return fmt.Sprintf(ReportKeyFmt, kind, year, month)
}

// Cache wraps a Redis client. A nil client turns every call into a no-op
// so the service keeps working when Redis is unavailable.
type Cache struct {
	client *redis.Client
}

// New connects to Redis at addr. On failure it returns a disabled cache and the error.
func New(addr, password string, db int) (*Cache, error) {
	if addr == "" {
		return &Cache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and fall back to no caching
		client.Close()
		return &Cache{}, err
	}

	log.Printf("[Cache] Connected to Redis at %s", addr)
	return &Cache{client: client}, nil
}

// Disabled returns a cache that never stores anything
func Disabled() *Cache {
	return &Cache{}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetCached returns cached data for a key
func (c *Cache) GetCached(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func (c *Cache) SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("[Cache] Failed to set %s: %v", key, err)
	}
}

// GetJSON decodes a cached value into dest
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	data, ok := c.GetCached(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON encodes value and caches it
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.SetCached(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) {
	if !c.Enabled() {
		return
	}
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func (c *Cache) InvalidateKeys(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

// InvalidateCatalogCaches clears the brand, supply and wage lists
// Called when: any catalog mutation, supplies import, repair ticket (inventory)
func (c *Cache) InvalidateCatalogCaches(ctx context.Context) {
	c.InvalidateKeys(ctx, BrandsKey, SuppliesKey, WagesKey)
}

// InvalidateReport clears one cached report
func (c *Cache) InvalidateReport(ctx context.Context, kind string, month, year int) {
	c.InvalidateKeys(ctx, ReportKey(kind, month, year))
}

// IsHealthy returns true if Redis connection is working
func (c *Cache) IsHealthy(ctx context.Context) bool {
	if !c.Enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err() == nil
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
