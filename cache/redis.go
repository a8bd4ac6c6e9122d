package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisCache struct {
	client *redis.Client
	prefix string
	logger *zap.SugaredLogger
}

func NewRedisCache(addr, password string, db int, logger *zap.SugaredLogger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{
		client: client,
		prefix: "rail:",
		logger: logger.With("component", "redis_cache"),
	}, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := c.client.Set(ctx, c.key(key), value, ttl).Err()
	if err != nil {
		c.logger.Errorw("cache set failed", "key", key, "error", err)
		return err
	}
	c.logger.Debugw("cache set", "key", key, "size_bytes", len(value), "ttl", ttl, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Get returns nil without an error on a cache miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debugw("cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		c.logger.Errorw("cache get failed", "key", key, "error", err)
		return nil, err
	}
	c.logger.Debugw("cache hit", "key", key, "size_bytes", len(val), "duration_ms", time.Since(start).Milliseconds())
	return val, nil
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("json unmarshal: %w", err)
	}
	return true, nil
}

// PurgeSearches removes cached searches built from any timetable version
// other than keep and reports how many entries went.
func (c *RedisCache) PurgeSearches(ctx context.Context, keep string) (int, error) {
	var stale []string
	iter := c.client.Scan(ctx, 0, c.key(keySearchAll), 100).Iterator()
	for iter.Next(ctx) {
		if searchKeyVersion(strings.TrimPrefix(iter.Val(), c.prefix)) != keep {
			stale = append(stale, iter.Val())
		}
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan search keys: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	deleted, err := c.client.Del(ctx, stale...).Result()
	if err != nil {
		return 0, fmt.Errorf("delete stale searches: %w", err)
	}
	c.logger.Infow("purged stale searches", "kept_version", keep, "deleted", deleted)
	return int(deleted), nil
}
