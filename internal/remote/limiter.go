package remote

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Limiter enforces a requests-per-minute ceiling and a maximum number of in-flight requests.
// Callers over budget wait instead of failing.
type Limiter struct {
	rate *rate.Limiter
	sem  *semaphore.Weighted
}

func NewLimiter(rpm, concurrency int) *Limiter {
	if concurrency <= 0 {
		concurrency = 1
	}
	l := &Limiter{sem: semaphore.NewWeighted(int64(concurrency))}
	if rpm > 0 {
		l.rate = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), concurrency)
	}
	return l
}

// Do runs fn once a concurrency slot and a rate token are both available.
func (l *Limiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if l == nil {
		return fn(ctx)
	}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)

	if l.rate != nil {
		if err := l.rate.Wait(ctx); err != nil {
			return err
		}
	}
	return fn(ctx)
}
