package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryRateLimiter is the per-process fallback when Redis is disabled.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

type memoryWindow struct {
	start time.Time
	count int64
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

var _ RateLimiter = (*MemoryRateLimiter)(nil)

func (l *MemoryRateLimiter) Allow(_ context.Context, key string, policy Policy) (Result, error) {
	start := windowStart(l.now(), policy.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !w.start.Equal(start) {
		if !ok && len(l.windows) > 10000 {
			l.evictBefore(start)
		}
		w = &memoryWindow{start: start}
		l.windows[key] = w
	}
	w.count++

	return newResult(w.count, policy, start), nil
}

func (l *MemoryRateLimiter) evictBefore(start time.Time) {
	for k, w := range l.windows {
		if w.start.Before(start) {
			delete(l.windows, k)
		}
	}
}
