package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimiter enforces a sliding-window request cap per client, backed by a
// Redis sorted set keyed on the client address.
type RateLimiter struct {
	client *goredis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *goredis.Client, maxRequests, windowSeconds int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  maxRequests,
		window: time.Duration(windowSeconds) * time.Second,
	}
}

// Allow records the request and reports whether the client is still under
// the window limit. The prune, count and insert run in one pipeline.
func (r *RateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	key := "ratelimit:" + ip
	now := time.Now()
	cutoff := strconv.FormatInt(now.Add(-r.window).UnixMilli(), 10)

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoff)
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixMilli()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limiter pipeline: %w", err)
	}

	return countCmd.Val() < int64(r.limit), nil
}
