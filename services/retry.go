package services

import (
	"PinguinGuard/metrics"
	"PinguinGuard/models"
	"context"
	"errors"
	"time"
)

// RetryPolicy retries idempotent backend calls that failed with
// models.ErrStoreUnavailable. Other errors are returned immediately.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Backoff: 50 * time.Millisecond}

// NoRetry runs each call exactly once.
var NoRetry = RetryPolicy{Attempts: 1}

func (p RetryPolicy) do(ctx context.Context, op string, m *metrics.RestrictionMetrics, fn func(context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, models.ErrStoreUnavailable) || attempt >= attempts {
			return err
		}
		m.ObserveRetry(op)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(p.Backoff * time.Duration(attempt)):
		}
	}
}
