package services

import (
	"PinguinGuard/interfaces"
	"PinguinGuard/logger"
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

func init() {
	logger.Init(logger.Config{Level: "error", Output: io.Discard})
}

// fastRetry keeps retry tests quick.
var fastRetry = RetryPolicy{Attempts: 3, Backoff: time.Millisecond}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// steppingClock is a settable clock safe for use from worker goroutines.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

var errBackendDown = fmt.Errorf("dial tcp: connection refused: %w", models.ErrStoreUnavailable)

// flakyPolicyRepo fails the next `failures` calls, or every call while down.
type flakyPolicyRepo struct {
	repositories.PolicyRepository
	failures atomic.Int32
	down     atomic.Bool
	calls    atomic.Int32
}

func (r *flakyPolicyRepo) fail() error {
	r.calls.Add(1)
	if r.down.Load() {
		return errBackendDown
	}
	if r.failures.Add(-1) >= 0 {
		return errBackendDown
	}
	return nil
}

func (r *flakyPolicyRepo) FindByChildID(ctx context.Context, childID string) (models.Policy, error) {
	if err := r.fail(); err != nil {
		return models.Policy{}, err
	}
	return r.PolicyRepository.FindByChildID(ctx, childID)
}

func (r *flakyPolicyRepo) Save(ctx context.Context, policy models.Policy) error {
	if err := r.fail(); err != nil {
		return err
	}
	return r.PolicyRepository.Save(ctx, policy)
}

// flakyUsageRepo reports the backend as unavailable while down is set.
type flakyUsageRepo struct {
	repositories.UsageRepository
	down     atomic.Bool
	failures atomic.Int32
}

func (r *flakyUsageRepo) fail() error {
	if r.down.Load() || r.failures.Add(-1) >= 0 {
		return errBackendDown
	}
	return nil
}

func (r *flakyUsageRepo) AddUsage(ctx context.Context, childID, date string, minutes int) (models.UsageRecord, error) {
	if err := r.fail(); err != nil {
		return models.UsageRecord{}, err
	}
	return r.UsageRepository.AddUsage(ctx, childID, date, minutes)
}

func (r *flakyUsageRepo) FindByDate(ctx context.Context, childID, date string) (models.UsageRecord, error) {
	if err := r.fail(); err != nil {
		return models.UsageRecord{}, err
	}
	return r.UsageRepository.FindByDate(ctx, childID, date)
}

func (r *flakyUsageRepo) FindRange(ctx context.Context, childID, fromDate, toDate string) ([]models.UsageRecord, error) {
	if err := r.fail(); err != nil {
		return nil, err
	}
	return r.UsageRepository.FindRange(ctx, childID, fromDate, toDate)
}

// recordingPublisher collects audit events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, event interfaces.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.Type)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}
