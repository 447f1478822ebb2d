package repositories

import (
	"PinguinGuard/models"
	"context"
)

// UsageRepository persists per-day usage buckets keyed by (child, date).
type UsageRepository interface {
	// AddUsage atomically adds minutes and one session to the bucket,
	// creating it when absent. It is NOT idempotent.
	AddUsage(ctx context.Context, childID, date string, minutes int) (models.UsageRecord, error)
	FindByDate(ctx context.Context, childID, date string) (models.UsageRecord, error)
	// FindRange returns stored buckets with fromDate <= date <= toDate, oldest first.
	// Days without a bucket are simply absent.
	FindRange(ctx context.Context, childID, fromDate, toDate string) ([]models.UsageRecord, error)
}
