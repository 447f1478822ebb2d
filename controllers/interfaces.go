package controllers

import (
	"PinguinGuard/models"
	"context"
	"time"
)

// PolicyService is implemented by services.PolicyStore.
type PolicyService interface {
	Get(ctx context.Context, childID string) (models.Policy, error)
	SetBlock(ctx context.Context, childID string, blocked bool, reason *string) (models.Policy, error)
	SetWindows(ctx context.Context, childID string, windows []models.TimeWindow) (models.Policy, error)
	SetDailyCap(ctx context.Context, childID string, minutes *int) (models.Policy, error)
}

// UsageService is implemented by services.UsageLedger.
type UsageService interface {
	RecordUsage(ctx context.Context, childID string, minutes int, at time.Time) (models.UsageRecord, error)
	Today(ctx context.Context, childID string, asOf time.Time) (models.UsageRecord, error)
	History(ctx context.Context, childID string, lastNDays int) ([]models.UsageRecord, error)
}

// UnblockRequestService is implemented by services.UnblockRequestService.
type UnblockRequestService interface {
	Create(ctx context.Context, childID, reason string) (models.UnblockRequest, error)
	Respond(ctx context.Context, requestID string, approve bool, parentResponse *string, respondedBy string) (models.UnblockRequest, error)
	Get(ctx context.Context, requestID string) (models.UnblockRequest, error)
	ListForChild(ctx context.Context, childID string) ([]models.UnblockRequest, error)
	ListPending(ctx context.Context) ([]models.UnblockRequest, error)
}

// ChildDirectory resolves which parent a child belongs to.
type ChildDirectory interface {
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (models.Child, error)
	FindByParentUID(ctx context.Context, parentUID string) ([]models.Child, error)
}

// FamilyService is implemented by services.FamilyService.
type FamilyService interface {
	Children(ctx context.Context, parentUID string) ([]models.Child, error)
	LinkChild(ctx context.Context, parentUID, childUID, name string) (models.Child, error)
	RegisterDeviceToken(ctx context.Context, uid, userType, token, lang string) error
}

// PushTester is implemented by services.NotificationService.
type PushTester interface {
	SendTest(ctx context.Context, uid, userType string) (string, error)
}
