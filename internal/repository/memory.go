package repository

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryRateLimiter keeps a token-bucket limiter per key. It backs the
// gateway when Redis is unreachable, so limits reset on restart and are
// per-instance.
type MemoryRateLimiter struct {
	limiters sync.Map
	limit    rate.Limit
	burst    int
}

func NewMemoryRateLimiter(requests int, window time.Duration, burst int) *MemoryRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if burst <= 0 {
		burst = requests
	}
	return &MemoryRateLimiter{
		limit: rate.Limit(float64(requests) / window.Seconds()),
		burst: burst,
	}
}

func (r *MemoryRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	val, ok := r.limiters.Load(key)
	if !ok {
		val, _ = r.limiters.LoadOrStore(key, rate.NewLimiter(r.limit, r.burst))
	}
	return val.(*rate.Limiter).Allow(), nil
}
