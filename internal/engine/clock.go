package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Callers read it once per computation pass through Today so that every
// metric derived from the same group agrees on the date.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today captures the clock's current calendar date.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf strips the time of day and location from t, keeping the calendar
// date it has in its own location. All engine arithmetic runs on these
// midnight-UTC values so day differences are exact.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole number of days from 'from' to 'to'.
func daysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)) / (24 * time.Hour))
}
