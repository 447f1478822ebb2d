package models

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// UnblockRequest is a child-initiated, parent-resolved request for access.
// APPROVED and REJECTED are terminal.
type UnblockRequest struct {
	ID             string        `json:"id"`
	ChildID        string        `json:"child_id"`
	Reason         string        `json:"reason"`
	Status         RequestStatus `json:"status"`
	ParentResponse *string       `json:"parent_response,omitempty"`
	RespondedBy    *string       `json:"responded_by,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	RespondedAt    *time.Time    `json:"responded_at,omitempty"`
}

func (r *UnblockRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

func (r *UnblockRequest) IsApproved() bool {
	return r.Status == RequestStatusApproved
}

// StatusFor maps a parent decision onto the terminal status.
func StatusFor(approve bool) RequestStatus {
	if approve {
		return RequestStatusApproved
	}
	return RequestStatusRejected
}
