package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Limiter is a fixed-window request counter stored in Redis
type Limiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
}

func NewLimiter(client redis.Cmdable, limit int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow records a request for key and reports whether it is within the limit.
// The counter and its expiry are written in one transaction; the expiry is only set when the key
// has none, so a counter left without a TTL is repaired by the next request.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := keyPrefix + key

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to update rate counter: %w", err)
	}

	return incr.Val() <= int64(l.limit), nil
}
