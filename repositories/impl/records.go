package impl

import (
	"PinguinGuard/models"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// PolicyRow is the policies table. Windows are stored as a JSON array.
type PolicyRow struct {
	ChildID         string `gorm:"primaryKey;column:child_id"`
	IsBlocked       bool   `gorm:"not null;default:false"`
	BlockReason     *string
	AllowedWindows  string `gorm:"type:text;not null;default:'[]'"`
	DailyCapMinutes *int
	UpdatedAt       time.Time
}

func (PolicyRow) TableName() string {
	return "policies"
}

type UsageRow struct {
	ID           uint   `gorm:"primaryKey"`
	ChildID      string `gorm:"not null;uniqueIndex:idx_usage_child_date"`
	Date         string `gorm:"size:10;not null;uniqueIndex:idx_usage_child_date"`
	MinutesUsed  int    `gorm:"not null;default:0"`
	SessionCount int    `gorm:"not null;default:0"`
	UpdatedAt    time.Time
}

func (UsageRow) TableName() string {
	return "usage_records"
}

// UnblockRequestRow carries a partial unique index so the database itself
// refuses a second PENDING request for the same child.
type UnblockRequestRow struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	ChildID        string `gorm:"not null;index:idx_unblock_child_created,priority:1;index:idx_unblock_one_pending,unique,where:status = 'PENDING'"`
	Reason         string `gorm:"type:text;not null"`
	Status         string `gorm:"size:16;not null;index"`
	ParentResponse *string
	RespondedBy    *string
	CreatedAt      time.Time `gorm:"index:idx_unblock_child_created,priority:2"`
	RespondedAt    *time.Time
}

func (UnblockRequestRow) TableName() string {
	return "unblock_requests"
}

// Models lists every table for AutoMigrate.
func Models() []interface{} {
	return []interface{}{&PolicyRow{}, &UsageRow{}, &UnblockRequestRow{}, &models.Child{}, &models.Parent{}}
}

func toPolicyRow(p models.Policy) (PolicyRow, error) {
	windows := p.AllowedWindows
	if windows == nil {
		windows = []models.TimeWindow{}
	}
	raw, err := json.Marshal(windows)
	if err != nil {
		return PolicyRow{}, fmt.Errorf("marshal windows: %w", err)
	}
	return PolicyRow{
		ChildID:         p.ChildID,
		IsBlocked:       p.IsBlocked,
		BlockReason:     p.BlockReason,
		AllowedWindows:  string(raw),
		DailyCapMinutes: p.DailyCapMinutes,
		UpdatedAt:       p.UpdatedAt,
	}, nil
}

func fromPolicyRow(row PolicyRow) (models.Policy, error) {
	var windows []models.TimeWindow
	if row.AllowedWindows != "" {
		if err := json.Unmarshal([]byte(row.AllowedWindows), &windows); err != nil {
			return models.Policy{}, fmt.Errorf("unmarshal windows for %s: %w", row.ChildID, err)
		}
	}
	return models.Policy{
		ChildID:         row.ChildID,
		IsBlocked:       row.IsBlocked,
		BlockReason:     row.BlockReason,
		AllowedWindows:  windows,
		DailyCapMinutes: row.DailyCapMinutes,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

func fromUsageRow(row UsageRow) models.UsageRecord {
	return models.UsageRecord{
		ChildID:          row.ChildID,
		Date:             row.Date,
		MinutesUsedToday: row.MinutesUsed,
		SessionCount:     row.SessionCount,
	}
}

func toRequestRow(r models.UnblockRequest) UnblockRequestRow {
	return UnblockRequestRow{
		ID:             r.ID,
		ChildID:        r.ChildID,
		Reason:         r.Reason,
		Status:         string(r.Status),
		ParentResponse: r.ParentResponse,
		RespondedBy:    r.RespondedBy,
		CreatedAt:      r.CreatedAt,
		RespondedAt:    r.RespondedAt,
	}
}

func fromRequestRow(row UnblockRequestRow) models.UnblockRequest {
	return models.UnblockRequest{
		ID:             row.ID,
		ChildID:        row.ChildID,
		Reason:         row.Reason,
		Status:         models.RequestStatus(row.Status),
		ParentResponse: row.ParentResponse,
		RespondedBy:    row.RespondedBy,
		CreatedAt:      row.CreatedAt,
		RespondedAt:    row.RespondedAt,
	}
}
