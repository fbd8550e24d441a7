package schedule

import (
	"fmt"
	"time"
)

// ExpirationDate returns when a card leaving level should be tested again,
// counted from base. With a fixed time of day the clock part of the result
// is replaced, moving to the next day if that time lies before the computed
// instant. It panics if level has no schedule entry.
func ExpirationDate(base time.Time, level int, s *Settings) time.Time {
	if level < 0 || level >= len(s.Schedule) {
		panic(fmt.Sprintf("schedule: level %d outside schedule of %d entries", level, len(s.Schedule)))
	}
	due := base.Add(time.Duration(s.Schedule[level]) * time.Minute)
	if s.TimeOfDay == nil {
		return due
	}
	fixed := s.TimeOfDay.On(due)
	if fixed.Before(due) {
		fixed = fixed.AddDate(0, 0, 1)
	}
	return fixed
}

// IsDue reports whether a card expiring at expiration is due at now.
func IsDue(expiration, now time.Time) bool {
	return !now.Before(expiration)
}

// OverdueDays returns how many days past expiration now is, 0 if not yet due.
func OverdueDays(expiration, now time.Time) float64 {
	if now.Before(expiration) {
		return 0
	}
	return now.Sub(expiration).Hours() / 24.0
}
