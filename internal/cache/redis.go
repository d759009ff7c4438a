package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the memo in a Redis instance so the TTL window survives
// process restarts. Expiry is delegated to Redis itself.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}
