// utils/timewindow.go
package utils

import (
	"fmt"
	"time"
)

// Calendar-window helpers. Every day/week boundary in the service is
// computed here, always in the configured vote timezone, so "today" means
// the same thing to admission control, tallies and trending.

// DayWindow returns the half-open interval [startOfDay, startOfNextDay)
// containing t in loc.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// WeekWindow returns the half-open ISO week interval [Monday 00:00:00,
// next Monday 00:00:00) containing t in loc.
func WeekWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	dayStart, _ := DayWindow(t, loc)
	// time.Weekday has Sunday == 0; ISO weeks start on Monday.
	offset := int(dayStart.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	start := dayStart.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// DaysBetween counts whole calendar days from a to b in loc (negative when
// b is before a's date).
func DaysBetween(a, b time.Time, loc *time.Location) int {
	aStart, _ := DayWindow(a, loc)
	bStart, _ := DayWindow(b, loc)
	return int(bStart.Sub(aStart).Hours() / 24)
}

// DaysAgoLabel renders the history label: "오늘" for today, otherwise
// "N일 전" ("N days ago").
func DaysAgoLabel(start, now time.Time, loc *time.Location) string {
	days := DaysBetween(start, now, loc)
	if days <= 0 {
		return "오늘"
	}
	return fmt.Sprintf("%d일 전", days)
}
