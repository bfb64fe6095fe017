package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: "csc:ratelimit:",
		now:    time.Now,
	}
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

// Allow counts the hit with INCR on a per-window key that expires with the window.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, policy Policy) (Result, error) {
	start := windowStart(l.now(), policy.Window)
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, start.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, policy.Window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	return newResult(incr.Val(), policy, start), nil
}
