// Package cache provides the Redis access layer used for per-key rate limiting.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options tunes the Redis client. Zero fields take the defaults below.
type Options struct {
	PoolSize     int
	MinIdleConns int
	// OpTimeout bounds each read and write. A rate-limit check runs on every
	// authenticated request, so a slow Redis should fail open quickly.
	OpTimeout time.Duration
}

const (
	defaultPoolSize     = 10
	defaultMinIdleConns = 2
	defaultOpTimeout    = 500 * time.Millisecond
)

func (o Options) apply(opt *redis.Options) {
	opt.PoolSize = o.PoolSize
	if opt.PoolSize <= 0 {
		opt.PoolSize = defaultPoolSize
	}
	opt.MinIdleConns = o.MinIdleConns
	if opt.MinIdleConns <= 0 {
		opt.MinIdleConns = defaultMinIdleConns
	}
	if opt.MinIdleConns > opt.PoolSize {
		opt.MinIdleConns = opt.PoolSize
	}
	timeout := o.OpTimeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	opt.ReadTimeout = timeout
	opt.WriteTimeout = timeout
	opt.PoolTimeout = 4 * timeout
	opt.ConnMaxIdleTime = 5 * time.Minute
}

// Cache wraps the Redis client shared by the rate limiter and readiness check.
type Cache struct {
	client *redis.Client
}

// New parses redisURL, applies opts and pings the server.
func New(ctx context.Context, redisURL string, opts Options) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.apply(opt)

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
