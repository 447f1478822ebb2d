package impl

import (
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"

	"gorm.io/gorm"
)

type ParentRepositoryImpl struct {
	DB *gorm.DB
}

func NewParentRepository(db *gorm.DB) repositories.ParentRepository {
	return &ParentRepositoryImpl{DB: db}
}

func (r *ParentRepositoryImpl) FindByFirebaseUID(ctx context.Context, firebaseUID string) (models.Parent, error) {
	var parent models.Parent
	if err := r.DB.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&parent).Error; err != nil {
		return models.Parent{}, translateError("find parent", err)
	}
	return parent, nil
}

func (r *ParentRepositoryImpl) Save(ctx context.Context, parent models.Parent) error {
	return translateError("save parent", r.DB.WithContext(ctx).Save(&parent).Error)
}
