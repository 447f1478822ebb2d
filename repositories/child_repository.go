package repositories

import (
	"PinguinGuard/models"
	"context"
)

type ChildRepository interface {
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (models.Child, error)
	FindByParentUID(ctx context.Context, parentUID string) ([]models.Child, error)
	Save(ctx context.Context, child models.Child) error
}
