package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CacheHelper provides common caching operations under one key prefix
type CacheHelper struct {
	client *redis.Client
	prefix string
	log    zerolog.Logger
}

// NewCacheHelper creates a new cache helper instance
func NewCacheHelper(client *redis.Client, prefix string, log zerolog.Logger) *CacheHelper {
	return &CacheHelper{
		client: client,
		prefix: prefix,
		log:    log,
	}
}

// CacheConfig defines cache configuration for different data types
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

// StatsCacheConfig covers the report aggregations.
var StatsCacheConfig = CacheConfig{
	TTL:    5 * time.Minute,
	Prefix: "stats:",
}

// Cache errors
var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache not found")
)

// Available reports whether a redis client is configured.
func (c *CacheHelper) Available() bool {
	return c.client != nil
}

// GetCacheKey generates a cache key with prefix
func (c *CacheHelper) GetCacheKey(key string) string {
	return c.prefix + key
}

// Get retrieves and unmarshals data from cache
func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := c.client.Get(ctx, c.GetCacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}

	return nil
}

// Set marshals and stores data in cache
func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	return c.client.Set(ctx, c.GetCacheKey(key), data, ttl).Err()
}

// InvalidatePattern removes all keys matching a pattern using SCAN instead of KEYS
func (c *CacheHelper) InvalidatePattern(ctx context.Context, pattern string) error {
	if c.client == nil {
		return nil
	}

	fullPattern := c.GetCacheKey(pattern)
	var (
		cursor uint64
		keys   []string
	)

	for {
		scanKeys, next, err := c.client.Scan(ctx, cursor, fullPattern, 100).Result()
		if err != nil {
			c.log.Error().Err(err).Str("pattern", fullPattern).Msg("cache scan pattern error")
			return fmt.Errorf("cache scan pattern error: %w", err)
		}
		keys = append(keys, scanKeys...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	const batchSize = 100
	for i := 0; i < len(keys); i += batchSize {
		end := min(i+batchSize, len(keys))
		pipe.Del(ctx, keys[i:end]...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Error().Err(err).Int("total_keys", len(keys)).Msg("cache pipeline delete error")
		return fmt.Errorf("cache pipeline delete error: %w", err)
	}

	return nil
}

// CacheOrExecute implements the cache-aside pattern. A cache failure never
// fails the call; the fetched value is stored before returning.
func CacheOrExecute[T any](ctx context.Context, c *CacheHelper, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	err := c.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, ErrCacheNotFound) && !errors.Is(err, ErrCacheNotAvailable) {
		c.log.Warn().Err(err).Str("key", key).Msg("cache get error, proceeding to fetch")
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache set error")
	}

	return value, nil
}

// CacheManager groups the cache helpers used by the services
type CacheManager struct {
	Stats *CacheHelper

	client *redis.Client
	ttl    time.Duration
}

// NewCacheManager creates the cache manager. A nil client yields helpers
// that always miss.
func NewCacheManager(client *redis.Client, ttl time.Duration, log zerolog.Logger) *CacheManager {
	if ttl <= 0 {
		ttl = StatsCacheConfig.TTL
	}
	log = log.With().Str("component", "cache").Logger()
	return &CacheManager{
		Stats:  NewCacheHelper(client, StatsCacheConfig.Prefix, log),
		client: client,
		ttl:    ttl,
	}
}

// ReportTTL is the lifetime of cached report results.
func (cm *CacheManager) ReportTTL() time.Duration {
	return cm.ttl
}

// HealthCheck verifies cache connectivity
func (cm *CacheManager) HealthCheck(ctx context.Context) error {
	if cm.client == nil {
		return ErrCacheNotAvailable
	}

	if _, err := cm.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}

	return nil
}

// OpenRedis connects to the redis URL. An empty URL disables caching and
// returns a nil client.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}
