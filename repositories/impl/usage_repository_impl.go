package impl

import (
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsageRepositoryImpl struct {
	DB *gorm.DB
}

func NewUsageRepository(db *gorm.DB) repositories.UsageRepository {
	return &UsageRepositoryImpl{DB: db}
}

func (r *UsageRepositoryImpl) AddUsage(ctx context.Context, childID, date string, minutes int) (models.UsageRecord, error) {
	var row UsageRow
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		insert := UsageRow{
			ChildID:      childID,
			Date:         date,
			MinutesUsed:  minutes,
			SessionCount: 1,
			UpdatedAt:    time.Now(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "child_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"minutes_used":  gorm.Expr("usage_records.minutes_used + ?", minutes),
				"session_count": gorm.Expr("usage_records.session_count + 1"),
				"updated_at":    insert.UpdatedAt,
			}),
		}).Create(&insert).Error
		if err != nil {
			return err
		}
		return tx.Where("child_id = ? AND date = ?", childID, date).First(&row).Error
	})
	if err != nil {
		return models.UsageRecord{}, translateError("add usage", err)
	}
	return fromUsageRow(row), nil
}

func (r *UsageRepositoryImpl) FindByDate(ctx context.Context, childID, date string) (models.UsageRecord, error) {
	var row UsageRow
	if err := r.DB.WithContext(ctx).Where("child_id = ? AND date = ?", childID, date).First(&row).Error; err != nil {
		return models.UsageRecord{}, translateError("find usage", err)
	}
	return fromUsageRow(row), nil
}

func (r *UsageRepositoryImpl) FindRange(ctx context.Context, childID, fromDate, toDate string) ([]models.UsageRecord, error) {
	var rows []UsageRow
	err := r.DB.WithContext(ctx).
		Where("child_id = ? AND date >= ? AND date <= ?", childID, fromDate, toDate).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError("find usage range", err)
	}

	records := make([]models.UsageRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, fromUsageRow(row))
	}
	return records, nil
}
