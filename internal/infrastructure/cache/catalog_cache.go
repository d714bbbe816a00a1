package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "catsync:"

// RedisConfig holds Redis connection settings for the cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CatalogCache is a cache-aside layer over Redis for read endpoints.
// Every failure degrades to a miss: a nil client, a connection error or a
// corrupt entry never surfaces to callers, the database stays the source
// of truth.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// CatalogCacheOption is a functional option for configuring the cache
type CatalogCacheOption func(*CatalogCache)

// WithTTL sets the entry lifetime
func WithTTL(ttl time.Duration) CatalogCacheOption {
	return func(c *CatalogCache) {
		c.ttl = ttl
	}
}

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) CatalogCacheOption {
	return func(c *CatalogCache) {
		c.logger = logger
	}
}

// NewCatalogCache creates a Redis-backed catalog cache. A connection
// failure is reported but still yields a usable cache that misses on
// every lookup.
func NewCatalogCache(cfg RedisConfig, opts ...CatalogCacheOption) (*CatalogCache, error) {
	c := &CatalogCache{
		ttl:    5 * time.Minute,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return c, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c.client = client
	return c, nil
}

// NewDisabledCatalogCache creates a cache that misses on every lookup
func NewDisabledCatalogCache() *CatalogCache {
	return &CatalogCache{ttl: 5 * time.Minute, logger: zap.NewNop()}
}

// Get loads a cached value into dest. Returns false on miss or any error.
func (c *CatalogCache) Get(ctx context.Context, key string, dest any) bool {
	if c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Debug("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores a value under key. Errors are swallowed.
func (c *CatalogCache) Set(ctx context.Context, key string, value any) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidatePrefix deletes all entries under the given key prefix. Used
// after a sync run to drop stale provider reads.
func (c *CatalogCache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c.client == nil {
		return
	}
	pattern := keyPrefix + prefix + "*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Debug("cache invalidate failed", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Debug("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

// Close releases the Redis client
func (c *CatalogCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
