package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bap-pick/bab-back/internal/domain"
	"github.com/bap-pick/bab-back/internal/ports/cache"
)

// Client wraps redis.Client behind the cache port.
type Client struct {
	client *redis.Client
}

// NewClient creates the cache adapter.
func NewClient(client *redis.Client) cache.Cache {
	return &Client{
		client: client,
	}
}

// Get returns the value of a key, domain.ErrNotFound when absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("key %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// Set writes a value with a TTL.
func (c *Client) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes a key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Exists reports whether a key is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists failed: %w", err)
	}
	return count > 0, nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}
