package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/learning-progress-api/internal/models"
)

// allTimeEpoch predates the first recorded activity and anchors all-time windows.
var allTimeEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Window is an evaluation range. Activity days are matched inclusively at day granularity.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the calendar day falls within the window, bounds included.
func (w Window) Contains(day time.Time) bool {
	key := models.DayKey(day)
	return key >= models.DayKey(w.Start) && key <= models.DayKey(w.End)
}

// ResolvePeriod turns a leaderboard period into a concrete window ending at now.
// Calendar boundaries are taken in now's location.
func ResolvePeriod(period models.Period, now time.Time) Window {
	var start time.Time
	switch period {
	case models.PeriodDaily:
		start = startOfDay(now)
	case models.PeriodWeekly:
		start = startOfWeek(now)
	case models.PeriodMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case models.PeriodAllTime:
		start = allTimeEpoch
	default:
		panic(fmt.Sprintf("service: unknown leaderboard period %q", period))
	}
	return Window{Start: start, End: now}
}

// ResolveAnalyticsPeriod returns the trailing window of period.Days() calendar days ending today.
func ResolveAnalyticsPeriod(period models.AnalyticsPeriod, now time.Time) Window {
	start := startOfDay(now).AddDate(0, 0, -(period.Days() - 1))
	return Window{Start: start, End: now}
}

// trailingDays lists the day keys of the n calendar days ending on now's day, oldest first.
func trailingDays(now time.Time, n int) []string {
	today := startOfDay(now)
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = models.DayKey(today.AddDate(0, 0, i-(n-1)))
	}
	return keys
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns Monday 00:00 of t's ISO week.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
