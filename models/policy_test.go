package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestValidateWindowsAcceptsOrderedDisjoint(t *testing.T) {
	windows := []TimeWindow{{StartMinute: 480, EndMinute: 720}, {StartMinute: 720, EndMinute: 1200}}
	assert.NoError(t, ValidateWindows(windows))
}

func TestValidateWindowsRejectsOverlap(t *testing.T) {
	windows := []TimeWindow{{StartMinute: 480, EndMinute: 800}, {StartMinute: 720, EndMinute: 1200}}
	err := ValidateWindows(windows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPolicy))
	assert.Contains(t, err.Error(), "overlap")
}

func TestValidateWindowsRejectsUnordered(t *testing.T) {
	windows := []TimeWindow{{StartMinute: 900, EndMinute: 1000}, {StartMinute: 100, EndMinute: 200}}
	err := ValidateWindows(windows)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestValidateWindowsRejectsMalformed(t *testing.T) {
	cases := map[string]TimeWindow{
		"wraparound":   {StartMinute: 1200, EndMinute: 300},
		"empty":        {StartMinute: 600, EndMinute: 600},
		"negative":     {StartMinute: -1, EndMinute: 300},
		"end too late": {StartMinute: 0, EndMinute: MinutesPerDay},
	}
	for name, w := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateWindows([]TimeWindow{w}), ErrInvalidPolicy)
		})
	}
}

func TestNewPolicyRejectsNonPositiveCap(t *testing.T) {
	_, err := NewPolicy("child1", false, nil, nil, intPtr(0))
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	p, err := NewPolicy("child1", false, nil, nil, intPtr(60))
	require.NoError(t, err)
	assert.Equal(t, 60, *p.DailyCapMinutes)
}

func TestPolicyCloneIsDeep(t *testing.T) {
	reason := "homework"
	p, err := NewPolicy("child1", true, &reason, []TimeWindow{{StartMinute: 1, EndMinute: 2}}, intPtr(30))
	require.NoError(t, err)

	c := p.Clone()
	*c.BlockReason = "changed"
	*c.DailyCapMinutes = 90
	c.AllowedWindows[0].EndMinute = 100

	assert.Equal(t, "homework", *p.BlockReason)
	assert.Equal(t, 30, *p.DailyCapMinutes)
	assert.Equal(t, 2, p.AllowedWindows[0].EndMinute)
}

func TestTimeWindowContainsIsHalfOpen(t *testing.T) {
	w := TimeWindow{StartMinute: 480, EndMinute: 1200}
	assert.True(t, w.Contains(480))
	assert.True(t, w.Contains(1199))
	assert.False(t, w.Contains(1200))
	assert.False(t, w.Contains(479))
	assert.Equal(t, "08:00-20:00", w.String())
}

func TestDayKeyUsesLocation(t *testing.T) {
	almaty := time.FixedZone("ALMT", 5*60*60)
	at := time.Date(2024, 3, 1, 21, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", DayKey(at, time.UTC))
	assert.Equal(t, "2024-03-02", DayKey(at, almaty))
}
