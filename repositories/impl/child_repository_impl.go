package impl

import (
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"

	"gorm.io/gorm"
)

type ChildRepositoryImpl struct {
	DB *gorm.DB
}

func NewChildRepository(db *gorm.DB) repositories.ChildRepository {
	return &ChildRepositoryImpl{DB: db}
}

func (r *ChildRepositoryImpl) FindByFirebaseUID(ctx context.Context, firebaseUID string) (models.Child, error) {
	var child models.Child
	if err := r.DB.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&child).Error; err != nil {
		return models.Child{}, translateError("find child", err)
	}
	return child, nil
}

func (r *ChildRepositoryImpl) FindByParentUID(ctx context.Context, parentUID string) ([]models.Child, error) {
	var children []models.Child
	if err := r.DB.WithContext(ctx).Where("parent_uid = ?", parentUID).Find(&children).Error; err != nil {
		return nil, translateError("find children", err)
	}
	return children, nil
}

func (r *ChildRepositoryImpl) Save(ctx context.Context, child models.Child) error {
	return translateError("save child", r.DB.WithContext(ctx).Save(&child).Error)
}
