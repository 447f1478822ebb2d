package interfaces

import (
	"PinguinGuard/models"
	"context"
	"time"
)

// NotificationService pushes unblock-request updates to family devices.
// Delivery is best effort; callers log failures and carry on.
type NotificationService interface {
	NotifyUnblockRequested(ctx context.Context, request models.UnblockRequest) error
	NotifyUnblockResolved(ctx context.Context, request models.UnblockRequest) error
}

// VerdictBroadcaster fans a child's verdict changes out to live subscribers.
type VerdictBroadcaster interface {
	BroadcastVerdict(childID string, verdict models.Verdict)
}

// Audit event types
const (
	EventUnblockRequestCreated   = "unblock_request.created"
	EventUnblockRequestResponded = "unblock_request.responded"
	EventVerdictChanged          = "verdict.changed"
)

// AuditEvent is an append-only record of what happened to a child's access.
type AuditEvent struct {
	Type       string      `json:"type"`
	ChildID    string      `json:"child_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload,omitempty"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
	Close() error
}
