package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implementa el mismo contrato cache-aside sobre Redis, con
// valores serializados como JSON. Util cuando hay varias replicas del
// servicio compartiendo la cache.
type RedisCache[T any] struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache[T any](client *redis.Client, ttl time.Duration) *RedisCache[T] {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache[T]{
		client: client,
		ttl:    ttl,
		prefix: "blog:cache:",
	}
}

func (c *RedisCache[T]) GetOrLoad(ctx context.Context, key string, loader LoaderFunc[T]) (T, error) {
	var zero T
	redisKey := c.prefix + key

	b, err := c.client.Get(ctx, redisKey).Bytes()
	if err == nil {
		var value T
		if err := json.Unmarshal(b, &value); err == nil {
			return value, nil
		}
		// Entrada corrupta: se descarta y se recarga.
		_ = c.client.Del(ctx, redisKey).Err()
	} else if !errors.Is(err, redis.Nil) {
		return zero, fmt.Errorf("cache get: %w", err)
	}

	value, err := loader(ctx)
	if err != nil {
		return zero, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, redisKey, payload, c.ttl).Err(); err != nil {
		return zero, fmt.Errorf("cache set: %w", err)
	}
	return value, nil
}

func (c *RedisCache[T]) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
