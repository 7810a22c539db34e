package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Store on a shared Redis instance. Expiry is delegated
// to Redis via SET EX, so entries vanish server-side with no bookkeeping
// on our end.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client; the caller owns its lifecycle.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get implements Store
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements Store
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}
