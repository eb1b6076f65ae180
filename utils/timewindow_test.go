package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindow(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	// 2026-08-31 23:30 UTC is already 2026-09-01 08:30 in Seoul.
	at := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)
	start, end := DayWindow(at, seoul)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, seoul), start)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, seoul), end)
	assert.True(t, !at.Before(start) && at.Before(end))
}

func TestWeekWindowStartsMonday(t *testing.T) {
	for _, tc := range []struct {
		name string
		at   time.Time
	}{
		{"monday itself", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
		{"midweek", time.Date(2026, 9, 2, 15, 0, 0, 0, time.UTC)},
		{"sunday belongs to the running week", time.Date(2026, 9, 6, 23, 59, 59, 0, time.UTC)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			start, end := WeekWindow(tc.at, time.UTC)
			assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), start)
			assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), end)
			assert.Equal(t, time.Monday, start.Weekday())
		})
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 8, 31, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(a, b, time.UTC))
	assert.Equal(t, 0, DaysBetween(b, b, time.UTC))
	assert.Equal(t, -3, DaysBetween(b, a, time.UTC))
}

func TestDaysAgoLabel(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "오늘", DaysAgoLabel(now.Add(-2*time.Hour), now, time.UTC))
	assert.Equal(t, "1일 전", DaysAgoLabel(now.AddDate(0, 0, -1), now, time.UTC))
	assert.Equal(t, "14일 전", DaysAgoLabel(now.AddDate(0, 0, -14), now, time.UTC))
	// A start date in the future still renders as today.
	assert.Equal(t, "오늘", DaysAgoLabel(now.AddDate(0, 0, 1), now, time.UTC))
}
