package models

import (
	"fmt"
	"time"
)

// MinutesPerDay is the exclusive upper bound of a minute-of-day value.
const MinutesPerDay = 24 * 60

// TimeWindow is a permitted time-of-day interval [StartMinute, EndMinute).
// Windows never wrap past midnight.
type TimeWindow struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

func (w TimeWindow) Validate() error {
	if w.StartMinute < 0 || w.StartMinute >= MinutesPerDay || w.EndMinute < 0 || w.EndMinute >= MinutesPerDay {
		return fmt.Errorf("%w: window %s out of range [0,%d)", ErrInvalidPolicy, w, MinutesPerDay)
	}
	if w.StartMinute >= w.EndMinute {
		return fmt.Errorf("%w: window %s must start before it ends", ErrInvalidPolicy, w)
	}
	return nil
}

// Contains reports whether minute falls inside the window.
func (w TimeWindow) Contains(minute int) bool {
	return minute >= w.StartMinute && minute < w.EndMinute
}

func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.StartMinute < other.EndMinute && other.StartMinute < w.EndMinute
}

// String formats the window as "HH:MM-HH:MM".
func (w TimeWindow) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.StartMinute/60, w.StartMinute%60, w.EndMinute/60, w.EndMinute%60)
}

// ValidateWindows checks every window and requires the set to be sorted by
// start and pairwise non-overlapping. Overlapping input is rejected, never merged.
func ValidateWindows(windows []TimeWindow) error {
	for i, w := range windows {
		if err := w.Validate(); err != nil {
			return err
		}
		if i == 0 {
			continue
		}
		prev := windows[i-1]
		if prev.Overlaps(w) {
			return fmt.Errorf("%w: windows %s and %s overlap", ErrInvalidPolicy, prev, w)
		}
		if prev.StartMinute > w.StartMinute {
			return fmt.Errorf("%w: windows %s and %s are not in chronological order", ErrInvalidPolicy, prev, w)
		}
	}
	return nil
}

// Policy is the per-child restriction configuration.
type Policy struct {
	ChildID         string       `json:"child_id"`
	IsBlocked       bool         `json:"is_blocked"`
	BlockReason     *string      `json:"block_reason,omitempty"`
	AllowedWindows  []TimeWindow `json:"allowed_windows"`
	DailyCapMinutes *int         `json:"daily_cap_minutes,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// NewPolicy builds a validated policy. The windows slice is copied.
func NewPolicy(childID string, blocked bool, reason *string, windows []TimeWindow, capMinutes *int) (Policy, error) {
	p := Policy{
		ChildID:         childID,
		IsBlocked:       blocked,
		BlockReason:     reason,
		AllowedWindows:  append([]TimeWindow(nil), windows...),
		DailyCapMinutes: capMinutes,
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// UnrestrictedPolicy is what a child without a stored policy is evaluated against.
func UnrestrictedPolicy(childID string) Policy {
	return Policy{ChildID: childID}
}

func (p Policy) Validate() error {
	if p.ChildID == "" {
		return fmt.Errorf("%w: child id is required", ErrInvalidPolicy)
	}
	if err := ValidateDailyCap(p.DailyCapMinutes); err != nil {
		return err
	}
	return ValidateWindows(p.AllowedWindows)
}

// ValidateDailyCap accepts nil (no cap) or a positive minute count.
func ValidateDailyCap(minutes *int) error {
	if minutes != nil && *minutes <= 0 {
		return fmt.Errorf("%w: daily cap must be positive, got %d", ErrInvalidPolicy, *minutes)
	}
	return nil
}

// Clone returns a deep copy so cached policies can be handed out safely.
func (p Policy) Clone() Policy {
	c := p
	c.AllowedWindows = append([]TimeWindow(nil), p.AllowedWindows...)
	if p.BlockReason != nil {
		r := *p.BlockReason
		c.BlockReason = &r
	}
	if p.DailyCapMinutes != nil {
		m := *p.DailyCapMinutes
		c.DailyCapMinutes = &m
	}
	return c
}

// MinuteOfDay returns the minute-of-day of t in t's own location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
