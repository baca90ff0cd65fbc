package engine

import "time"

// DateToDayOfYear returns the zero-based ordinal of date within its year
// (January 1st is 0, December 31st of a leap year is 365).
func DateToDayOfYear(date time.Time) int {
	return date.YearDay() - 1
}

// DayOfYearToDate returns January 1st of year plus (dayOfYear - 1) days.
//
// The input is treated as one-based while DateToDayOfYear is zero-based, so
// DayOfYearToDate(DateToDayOfYear(d)+1, d.Year()) == d and a bare round trip
// lands one day early. Values past the end of the year roll into the next.
func DayOfYearToDate(dayOfYear, year int) time.Time {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 0, dayOfYear-1)
}
