package memory

import (
	"PinguinGuard/models"
	"context"
	"fmt"
	"sort"
	"sync"
)

type usageKey struct {
	childID string
	date    string
}

type UsageRepository struct {
	mu      sync.RWMutex
	records map[usageKey]models.UsageRecord
}

func NewUsageRepository() *UsageRepository {
	return &UsageRepository{records: make(map[usageKey]models.UsageRecord)}
}

func (r *UsageRepository) AddUsage(ctx context.Context, childID, date string, minutes int) (models.UsageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := usageKey{childID: childID, date: date}
	rec, ok := r.records[key]
	if !ok {
		rec = models.EmptyUsage(childID, date)
	}
	rec.MinutesUsedToday += minutes
	rec.SessionCount++
	r.records[key] = rec
	return rec, nil
}

func (r *UsageRepository) FindByDate(ctx context.Context, childID, date string) (models.UsageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[usageKey{childID: childID, date: date}]
	if !ok {
		return models.UsageRecord{}, fmt.Errorf("usage for %s on %s: %w", childID, date, models.ErrNotFound)
	}
	return rec, nil
}

func (r *UsageRepository) FindRange(ctx context.Context, childID, fromDate, toDate string) ([]models.UsageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.UsageRecord
	for key, rec := range r.records {
		if key.childID == childID && key.date >= fromDate && key.date <= toDate {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
