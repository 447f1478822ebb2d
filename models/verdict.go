package models

import "time"

type RestrictionReason string

const (
	ReasonNone          RestrictionReason = "NONE"
	ReasonManualBlock   RestrictionReason = "MANUAL_BLOCK"
	ReasonOutsideWindow RestrictionReason = "OUTSIDE_WINDOW"
	ReasonCapExceeded   RestrictionReason = "CAP_EXCEEDED"
)

// Verdict is the computed restriction outcome for a single instant. It is
// recomputed on every evaluation and never persisted.
type Verdict struct {
	Restricted            bool              `json:"restricted"`
	Reason                RestrictionReason `json:"reason"`
	BlockReason           *string           `json:"block_reason,omitempty"`
	RemainingMinutesToday *int              `json:"remaining_minutes_today,omitempty"`
	EvaluatedAt           time.Time         `json:"evaluated_at"`
}

// SameOutcome compares verdicts by reason only; EvaluatedAt and the
// remaining minutes are expected to drift between evaluations.
func (v Verdict) SameOutcome(other Verdict) bool {
	return v.Reason == other.Reason
}
