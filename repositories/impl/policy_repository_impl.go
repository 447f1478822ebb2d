package impl

import (
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PolicyRepositoryImpl struct {
	DB *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) repositories.PolicyRepository {
	return &PolicyRepositoryImpl{DB: db}
}

func (r *PolicyRepositoryImpl) FindByChildID(ctx context.Context, childID string) (models.Policy, error) {
	var row PolicyRow
	if err := r.DB.WithContext(ctx).Where("child_id = ?", childID).First(&row).Error; err != nil {
		return models.Policy{}, translateError("find policy", err)
	}
	return fromPolicyRow(row)
}

func (r *PolicyRepositoryImpl) Save(ctx context.Context, policy models.Policy) error {
	row, err := toPolicyRow(policy)
	if err != nil {
		return err
	}
	// Full-row upsert: replaying the same write leaves the same row.
	err = r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "child_id"}},
		UpdateAll: true,
	}).Create(&row).Error
	return translateError("save policy", err)
}
