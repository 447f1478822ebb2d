package repositories

import (
	"PinguinGuard/models"
	"context"
)

type ParentRepository interface {
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (models.Parent, error)
	Save(ctx context.Context, parent models.Parent) error
}
