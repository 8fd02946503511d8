// Package redis opens the optional Redis connection that backs distributed
// ward locks.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"wardaudit/internal/platform/config"
)

// Client is a connected go-redis client.
type Client struct {
	*goredis.Client
}

// New dials Redis and verifies the connection. An empty URL disables Redis
// and yields a nil client with no error.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{Client: goredis.NewClient(opts)}
	if err := c.Health(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func clientOptions(cfg config.RedisConfig) (*goredis.Options, error) {
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	// Zero values keep the go-redis defaults.
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
