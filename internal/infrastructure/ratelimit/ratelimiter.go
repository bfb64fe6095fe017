package ratelimit

import (
	"context"
	"time"
)

// Policy is a fixed window: at most Limit hits per Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, policy Policy) (Result, error)
}

// windowStart aligns now to the start of its window.
func windowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}

func newResult(count int64, policy Policy, start time.Time) Result {
	remaining := policy.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= int64(policy.Limit),
		Remaining: remaining,
		ResetAt:   start.Add(policy.Window),
	}
}
