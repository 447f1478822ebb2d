package services

import (
	"PinguinGuard/models"
	"context"
	"errors"
	"time"
)

// Evaluate combines a policy and the day's usage into a verdict for now.
// The first matching rule wins:
//
//  1. manual block
//  2. outside every allowed window (an empty window set never restricts)
//  3. daily cap reached (used == cap is already restricted)
//
// Evaluate is pure. The minute-of-day is taken from now in its own location,
// so callers pass now already converted to the family's time zone.
func Evaluate(policy models.Policy, usage models.UsageRecord, now time.Time) models.Verdict {
	v := models.Verdict{Reason: models.ReasonNone, EvaluatedAt: now}

	if policy.IsBlocked {
		v.Restricted = true
		v.Reason = models.ReasonManualBlock
		v.BlockReason = policy.BlockReason
		return v
	}

	if len(policy.AllowedWindows) > 0 && !insideAnyWindow(policy.AllowedWindows, models.MinuteOfDay(now)) {
		v.Restricted = true
		v.Reason = models.ReasonOutsideWindow
		return v
	}

	if policy.DailyCapMinutes != nil {
		remaining := *policy.DailyCapMinutes - usage.MinutesUsedToday
		if remaining <= 0 {
			v.Restricted = true
			v.Reason = models.ReasonCapExceeded
			return v
		}
		v.RemainingMinutesToday = &remaining
	}
	return v
}

func insideAnyWindow(windows []models.TimeWindow, minute int) bool {
	for _, w := range windows {
		if w.Contains(minute) {
			return true
		}
	}
	return false
}

type PolicyReader interface {
	Get(ctx context.Context, childID string) (models.Policy, error)
}

type UsageReader interface {
	Today(ctx context.Context, childID string, asOf time.Time) (models.UsageRecord, error)
}

// CurrentVerdict reads a policy/usage snapshot for the child and evaluates it.
// A child without a stored policy is unrestricted.
func CurrentVerdict(ctx context.Context, policies PolicyReader, usage UsageReader, childID string, now time.Time) (models.Verdict, error) {
	policy, err := policies.Get(ctx, childID)
	if errors.Is(err, models.ErrNotFound) {
		policy = models.UnrestrictedPolicy(childID)
	} else if err != nil {
		return models.Verdict{}, err
	}

	rec, err := usage.Today(ctx, childID, now)
	if err != nil {
		return models.Verdict{}, err
	}
	return Evaluate(policy, rec, now), nil
}
