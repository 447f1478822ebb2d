package models

import "time"

// DateLayout is the calendar-day key format of usage records.
const DateLayout = "2006-01-02"

const (
	// MaxSessionMinutes bounds one usage report to a full day.
	MaxSessionMinutes = 24 * 60
	// MaxHistoryDays bounds History to a year.
	MaxHistoryDays = 366
)

// UsageRecord holds a child's accumulated usage for one calendar day.
type UsageRecord struct {
	ChildID          string `json:"child_id"`
	Date             string `json:"date"`
	MinutesUsedToday int    `json:"minutes_used_today"`
	SessionCount     int    `json:"session_count"`
}

// DayKey returns the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// EmptyUsage is the zero-usage record reported for days without activity.
func EmptyUsage(childID, date string) UsageRecord {
	return UsageRecord{ChildID: childID, Date: date}
}
