package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the redis instance at url and verifies it with a ping.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, userID string) (*domain.CVDocument, error) {
	data, err := c.client.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (c *RedisCache) Set(ctx context.Context, userID string, doc *domain.CVDocument) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(userID), data, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, Key(id))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
