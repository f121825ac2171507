package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:leads:"

// RedisLimiter is a fixed-window counter with state shared across
// instances. The first submission in a window creates the key with the
// window TTL; later submissions increment it until the threshold is hit.
type RedisLimiter struct {
	client    *redis.Client
	window    time.Duration
	threshold int
}

// NewRedisLimiter creates a limiter backed by the given Redis client.
func NewRedisLimiter(client *redis.Client, window time.Duration, threshold int) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		window:    window,
		threshold: threshold,
	}
}

// Allow implements Limiter. Unlike FixedWindow, over-threshold submissions
// still bump the counter; the key expires with the window either way.
func (r *RedisLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	key := redisKeyPrefix + identifier

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit: incr: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit: expire: %w", err)
		}
	}
	return count <= int64(r.threshold), nil
}
