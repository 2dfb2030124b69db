// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"rentcheck-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the connection behind the renter profile cache.
type RedisClient struct {
	Client *redis.Client
	addr   string
}

// NewRedis creates a Redis client from cfg. No connection is made until first
// use. Zero pool or timeout settings fall back to 10 connections, 2 idle and 3s.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	minIdle := cfg.MinIdleConns
	if minIdle < 0 || minIdle > poolSize {
		minIdle = 2
	}
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolSize:     poolSize,
		MinIdleConns: minIdle,
	})
	return &RedisClient{Client: rdb, addr: cfg.Address}
}

// Ping checks the cache is reachable.
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.addr, err)
	}
	return nil
}

// InvalidateProfiles drops the cached copies of the given profiles so the
// next evaluation reads them from Postgres. It returns how many keys existed.
func (c *RedisClient) InvalidateProfiles(ctx context.Context, prefix string, profileIDs ...string) (int64, error) {
	if len(profileIDs) == 0 {
		return 0, nil
	}
	keys := make([]string, len(profileIDs))
	for i, id := range profileIDs {
		keys[i] = prefix + id
	}
	n, err := c.Client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("invalidate cached profiles: %w", err)
	}
	return n, nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
