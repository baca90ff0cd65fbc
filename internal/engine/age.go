package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/tartampluch/go-jubilee/internal/config"
)

// Breakdown is a day count expressed as whole years, weeks and days of a
// mean tropical year.
type Breakdown struct {
	Years     int
	Weeks     int
	Days      int
	TotalDays int
}

// Decompose splits totalDays using config.TropicalYearDays:
// years = ⌊d/Y⌋, weeks = ⌊(d mod Y)/7⌋, days = ⌊(d mod Y) mod 7⌋.
func Decompose(totalDays int) Breakdown {
	d := float64(totalDays)
	rem := math.Mod(d, config.TropicalYearDays)
	return Breakdown{
		Years:     int(math.Floor(d / config.TropicalYearDays)),
		Weeks:     int(math.Floor(rem / config.DaysPerWeek)),
		Days:      int(math.Floor(math.Mod(rem, config.DaysPerWeek))),
		TotalDays: totalDays,
	}
}

// AgeInDays returns today - birthdate in whole days.
func AgeInDays(birthdate, today time.Time) (int, error) {
	if DateOf(birthdate).After(DateOf(today)) {
		return 0, fmt.Errorf("%w: %s (%s > %s)", ErrInvalidInput, config.ErrFutureBirthdate,
			birthdate.Format(config.DateFormatOutput), today.Format(config.DateFormatOutput))
	}
	return daysBetween(birthdate, today), nil
}

// TotalAge sums every member's age. An empty group yields a zero Breakdown.
func TotalAge(g *Group, today time.Time) (Breakdown, error) {
	total, err := g.totalDays(today)
	if err != nil {
		return Breakdown{}, err
	}
	return Decompose(total), nil
}

// AverageAge returns the mean member age, rounded half-up to whole days.
func AverageAge(g *Group, today time.Time) (Breakdown, error) {
	n := g.Len()
	if n == 0 {
		return Breakdown{}, fmt.Errorf("average age: %w", ErrEmptyGroup)
	}
	total, err := g.totalDays(today)
	if err != nil {
		return Breakdown{}, err
	}
	return Decompose(roundHalfUp(float64(total) / float64(n))), nil
}

// AverageBirthdate averages the members' day-of-year values and places the
// result in today's year.
//
// The mean is linear: dates on either side of New Year average towards
// mid-year rather than wrapping around.
func AverageBirthdate(g *Group, today time.Time) (time.Time, error) {
	n := g.Len()
	if n == 0 {
		return time.Time{}, fmt.Errorf("average birthdate: %w", ErrEmptyGroup)
	}
	sum := 0
	for _, p := range g.Members() {
		sum += DateToDayOfYear(p.Birthdate)
	}
	avg := roundHalfUp(float64(sum) / float64(n))
	return DayOfYearToDate(avg, DateOf(today).Year()), nil
}

// roundHalfUp rounds non-negative x to the nearest integer, halves up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
