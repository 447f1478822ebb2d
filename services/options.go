package services

import (
	"PinguinGuard/metrics"
	"time"
)

// Clock returns the current time. Tests inject a fixed or stepping clock.
type Clock func() time.Time

type storeConfig struct {
	retry    RetryPolicy
	clock    Clock
	metrics  *metrics.RestrictionMetrics
	location *time.Location
}

type StoreOption func(*storeConfig)

func defaultStoreConfig() storeConfig {
	return storeConfig{
		retry:    DefaultRetryPolicy,
		clock:    time.Now,
		location: time.Local,
	}
}

func WithRetryPolicy(p RetryPolicy) StoreOption {
	return func(c *storeConfig) { c.retry = p }
}

func WithStoreClock(clock Clock) StoreOption {
	return func(c *storeConfig) { c.clock = clock }
}

func WithStoreMetrics(m *metrics.RestrictionMetrics) StoreOption {
	return func(c *storeConfig) { c.metrics = m }
}

// WithLocation sets the time zone whose calendar days bucket usage.
func WithLocation(loc *time.Location) StoreOption {
	return func(c *storeConfig) {
		if loc != nil {
			c.location = loc
		}
	}
}
