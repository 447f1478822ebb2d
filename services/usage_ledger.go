package services

import (
	"PinguinGuard/logger"
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// UsageLedger accumulates usage minutes per child per calendar day. The day
// of a write is the local date of the caller-supplied timestamp; a session
// that crosses midnight has to be recorded as two calls, one per day.
type UsageLedger struct {
	repo   repositories.UsageRepository
	cfg    storeConfig
	locks  *keyedMutex
	logger *log.Logger

	mu    sync.RWMutex
	today map[string]models.UsageRecord
}

func NewUsageLedger(repo repositories.UsageRepository, opts ...StoreOption) *UsageLedger {
	cfg := defaultStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &UsageLedger{
		repo:   repo,
		cfg:    cfg,
		locks:  newKeyedMutex(),
		logger: logger.With("usage_ledger"),
		today:  make(map[string]models.UsageRecord),
	}
}

// RecordUsage adds minutes to the bucket of at's calendar day. The backend
// increment is not idempotent, so it is never retried here.
func (l *UsageLedger) RecordUsage(ctx context.Context, childID string, minutes int, at time.Time) (models.UsageRecord, error) {
	if childID == "" {
		return models.UsageRecord{}, fmt.Errorf("%w: child id is required", models.ErrInvalidUsage)
	}
	if minutes < 0 || minutes > models.MaxSessionMinutes {
		return models.UsageRecord{}, fmt.Errorf("%w: minutes must be within [0, %d], got %d",
			models.ErrInvalidUsage, models.MaxSessionMinutes, minutes)
	}

	unlock := l.locks.Lock(childID)
	defer unlock()

	date := models.DayKey(at, l.cfg.location)
	rec, err := l.repo.AddUsage(ctx, childID, date, minutes)
	if err != nil {
		l.logger.Error("failed to record usage", "child", childID, "date", date, "error", err)
		return models.UsageRecord{}, err
	}

	l.remember(rec)
	l.cfg.metrics.ObserveUsage(minutes)
	return rec, nil
}

// Today returns the bucket for asOf's calendar day, or a zero record when the
// child has not used the app that day.
func (l *UsageLedger) Today(ctx context.Context, childID string, asOf time.Time) (models.UsageRecord, error) {
	date := models.DayKey(asOf, l.cfg.location)
	if rec, ok := l.cached(childID, date); ok {
		return rec, nil
	}

	unlock := l.locks.Lock(childID)
	defer unlock()
	if rec, ok := l.cached(childID, date); ok {
		return rec, nil
	}

	var rec models.UsageRecord
	err := l.cfg.retry.do(ctx, "usage.get", l.cfg.metrics, func(ctx context.Context) error {
		var err error
		rec, err = l.repo.FindByDate(ctx, childID, date)
		return err
	})
	if errors.Is(err, models.ErrNotFound) {
		rec = models.EmptyUsage(childID, date)
	} else if err != nil {
		return models.UsageRecord{}, err
	}

	l.remember(rec)
	return rec, nil
}

func (l *UsageLedger) MinutesUsedToday(ctx context.Context, childID string, asOf time.Time) (int, error) {
	rec, err := l.Today(ctx, childID, asOf)
	if err != nil {
		return 0, err
	}
	return rec.MinutesUsedToday, nil
}

// History returns the last n calendar days ending today, oldest first. Days
// without usage are present as zero records so the series is contiguous.
func (l *UsageLedger) History(ctx context.Context, childID string, lastNDays int) ([]models.UsageRecord, error) {
	if lastNDays <= 0 || lastNDays > models.MaxHistoryDays {
		return nil, fmt.Errorf("%w: days must be within [1, %d], got %d",
			models.ErrInvalidUsage, models.MaxHistoryDays, lastNDays)
	}

	now := l.cfg.clock().In(l.cfg.location)
	// Noon keeps AddDate away from DST edges.
	end := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, l.cfg.location)
	start := end.AddDate(0, 0, -(lastNDays - 1))
	from, to := start.Format(models.DateLayout), end.Format(models.DateLayout)

	var stored []models.UsageRecord
	err := l.cfg.retry.do(ctx, "usage.history", l.cfg.metrics, func(ctx context.Context) error {
		var err error
		stored, err = l.repo.FindRange(ctx, childID, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]models.UsageRecord, len(stored))
	for _, rec := range stored {
		byDate[rec.Date] = rec
	}

	history := make([]models.UsageRecord, 0, lastNDays)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(models.DateLayout)
		if rec, ok := byDate[date]; ok {
			history = append(history, rec)
		} else {
			history = append(history, models.EmptyUsage(childID, date))
		}
	}
	return history, nil
}

// remember caches rec unless a newer day is already cached.
func (l *UsageLedger) remember(rec models.UsageRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.today[rec.ChildID]; ok && cur.Date > rec.Date {
		return
	}
	l.today[rec.ChildID] = rec
}

func (l *UsageLedger) cached(childID, date string) (models.UsageRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rec, ok := l.today[childID]
	if !ok || rec.Date != date {
		return models.UsageRecord{}, false
	}
	return rec, true
}
