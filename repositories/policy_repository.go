package repositories

import (
	"PinguinGuard/models"
	"context"
)

// PolicyRepository persists one policy per child.
type PolicyRepository interface {
	// FindByChildID returns models.ErrNotFound when no policy was ever set.
	FindByChildID(ctx context.Context, childID string) (models.Policy, error)
	// Save replaces the whole policy row. It is idempotent.
	Save(ctx context.Context, policy models.Policy) error
}
