package impl

import (
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnblockRequestRepositoryImpl struct {
	DB *gorm.DB
}

func NewUnblockRequestRepository(db *gorm.DB) repositories.UnblockRequestRepository {
	return &UnblockRequestRepositoryImpl{DB: db}
}

func (r *UnblockRequestRepositoryImpl) Create(ctx context.Context, request models.UnblockRequest) error {
	row := toRequestRow(request)
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return translateError("create unblock request", err)
	}

	// The partial unique index rejected the insert. A retry of our own
	// earlier insert is fine; anything else is a competing pending request.
	pending, findErr := r.FindPendingByChild(ctx, request.ChildID)
	if findErr == nil && pending.ID == request.ID {
		return nil
	}
	return fmt.Errorf("create unblock request for %s: %w", request.ChildID, models.ErrAlreadyPending)
}

func (r *UnblockRequestRepositoryImpl) FindByID(ctx context.Context, id string) (models.UnblockRequest, error) {
	var row UnblockRequestRow
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return models.UnblockRequest{}, translateError("find unblock request", err)
	}
	return fromRequestRow(row), nil
}

func (r *UnblockRequestRepositoryImpl) FindPendingByChild(ctx context.Context, childID string) (models.UnblockRequest, error) {
	var row UnblockRequestRow
	err := r.DB.WithContext(ctx).
		Where("child_id = ? AND status = ?", childID, models.RequestStatusPending).
		First(&row).Error
	if err != nil {
		return models.UnblockRequest{}, translateError("find pending unblock request", err)
	}
	return fromRequestRow(row), nil
}

func (r *UnblockRequestRepositoryImpl) Resolve(ctx context.Context, id string, status models.RequestStatus, response *string, respondedBy string, at time.Time) (models.UnblockRequest, error) {
	res := r.DB.WithContext(ctx).Model(&UnblockRequestRow{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":          string(status),
			"parent_response": response,
			"responded_by":    respondedBy,
			"responded_at":    at,
		})
	if res.Error != nil {
		return models.UnblockRequest{}, translateError("resolve unblock request", res.Error)
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return models.UnblockRequest{}, err
	}
	if res.RowsAffected == 0 {
		return current, fmt.Errorf("resolve unblock request %s (status %s): %w", id, current.Status, models.ErrNotPending)
	}
	return current, nil
}

func (r *UnblockRequestRepositoryImpl) ListByChild(ctx context.Context, childID string) ([]models.UnblockRequest, error) {
	var rows []UnblockRequestRow
	err := r.DB.WithContext(ctx).
		Where("child_id = ?", childID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError("list unblock requests", err)
	}
	return fromRequestRows(rows), nil
}

func (r *UnblockRequestRepositoryImpl) ListPending(ctx context.Context) ([]models.UnblockRequest, error) {
	var rows []UnblockRequestRow
	err := r.DB.WithContext(ctx).
		Where("status = ?", models.RequestStatusPending).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError("list pending unblock requests", err)
	}
	return fromRequestRows(rows), nil
}

func fromRequestRows(rows []UnblockRequestRow) []models.UnblockRequest {
	requests := make([]models.UnblockRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, fromRequestRow(row))
	}
	return requests
}
