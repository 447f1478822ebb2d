package repositories

import (
	"PinguinGuard/models"
	"context"
	"time"
)

type UnblockRequestRepository interface {
	// Create inserts a PENDING request. It fails with models.ErrAlreadyPending
	// when another request is pending for the child. Re-inserting the same ID
	// is a no-op, so retries are safe.
	Create(ctx context.Context, request models.UnblockRequest) error
	FindByID(ctx context.Context, id string) (models.UnblockRequest, error)
	FindPendingByChild(ctx context.Context, childID string) (models.UnblockRequest, error)
	// Resolve moves a PENDING request to a terminal status. The update is
	// conditional on the stored status, so at most one caller succeeds;
	// everyone else gets models.ErrNotPending.
	Resolve(ctx context.Context, id string, status models.RequestStatus, response *string, respondedBy string, at time.Time) (models.UnblockRequest, error)
	// ListByChild and ListPending return most-recent-first.
	ListByChild(ctx context.Context, childID string) ([]models.UnblockRequest, error)
	ListPending(ctx context.Context) ([]models.UnblockRequest, error)
}
