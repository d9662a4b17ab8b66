package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache shared between instances through redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to redis and checks the connection
func NewRedisCache(ctx context.Context, opts *redis.Options) (*RedisCache, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "could not connect to redis")
	}
	return &RedisCache{client: client}, nil
}

// Close closes the redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Get implements the Cache interface
func (r *RedisCache) Get(ctx context.Context, key string, target any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	return true, decode(data, target)
}

// Set implements the Cache interface
func (r *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	return errors.WithStack(r.client.Set(ctx, key, data, ttl).Err())
}

// Delete implements the Cache interface
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return errors.WithStack(r.client.Del(ctx, key).Err())
}

// Clear implements the Cache interface
func (r *RedisCache) Clear(ctx context.Context, prefix string) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.WithStack(err)
	}
	if len(keys) == 0 {
		return nil
	}
	return errors.WithStack(r.client.Del(ctx, keys...).Err())
}
