// Package window computes the reference instants a run compares against.
package window

import (
	"time"

	"poolPulse/internal/model"
)

// Compute returns now minus one day, two days and one week, each floored to the start of
// its minute, as unix seconds.
func Compute(now time.Time) model.Timestamps {
	now = now.UTC()
	return model.Timestamps{
		OneDay:  startOfMinute(now.AddDate(0, 0, -1)),
		TwoDay:  startOfMinute(now.AddDate(0, 0, -2)),
		OneWeek: startOfMinute(now.AddDate(0, 0, -7)),
	}
}

// OneDayBack returns the one-day-back instant alone.
func OneDayBack(now time.Time) int64 {
	return startOfMinute(now.UTC().AddDate(0, 0, -1))
}

func startOfMinute(t time.Time) int64 {
	return t.Truncate(time.Minute).Unix()
}
