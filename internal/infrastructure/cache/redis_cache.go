package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

type RedisCache struct {
	client *redis.Client
	prefix string
}

var _ ports.Cache = (*RedisCache)(nil)

// NewRedisCache namespaces every key with prefix, for example "condoqueixas:".
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return "", false, err
	}

	value, err := c.client.Get(ctx, c.prefix+trimmedKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.Wrap(err, "redis get")
	}
	return value, true, nil
}

// Set stores value under key. A ttl of zero or less never expires.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}

	if err := c.client.Set(ctx, c.prefix+trimmedKey, value, ttl).Err(); err != nil {
		return errs.Wrap(err, "redis set")
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}

	if err := c.client.Del(ctx, c.prefix+trimmedKey).Err(); err != nil {
		return errs.Wrap(err, "redis del")
	}
	return nil
}

// Ping reports whether the server answers, used at startup.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errs.Wrap(err, "redis ping")
	}
	return nil
}
