package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/tartampluch/go-jubilee/internal/config"
)

// Threshold is one milestone of combined age.
type Threshold struct {
	Label string
	Days  float64
}

// JubileeTable lists thresholds in ascending order.
type JubileeTable []Threshold

// Jubilee is an unreached threshold and when the group reaches it.
type Jubilee struct {
	Label     string
	Threshold float64
	DaysUntil int
	Date      time.Time
}

// PeriodForYears converts a whole number of tropical years into days.
func PeriodForYears(years int) float64 {
	return float64(years) * config.TropicalYearDays
}

// BuildJubileeTable returns count thresholds at consecutive multiples of
// periodDays. Each label names the multiple in years ("25 years").
func BuildJubileeTable(periodDays float64, count int) JubileeTable {
	if periodDays <= 0 || count <= 0 {
		return JubileeTable{}
	}
	table := make(JubileeTable, 0, count)
	for i := 1; i <= count; i++ {
		days := periodDays * float64(i)
		years := int(math.Round(days / config.TropicalYearDays))
		table = append(table, Threshold{
			Label: fmt.Sprintf(config.FormatJubileeLabel, years),
			Days:  days,
		})
	}
	return table
}

// DefaultJubileeTable is 40 thresholds in 25-year steps.
func DefaultJubileeTable() JubileeTable {
	return BuildJubileeTable(PeriodForYears(config.DefaultJubileeYears), config.DefaultJubileeCount)
}

// ComputeJubilees returns every threshold the group's combined age has not
// reached yet, in table order.
//
// The combined age grows by one day per member per calendar day, so a
// threshold is reached round(remaining / members) days after today.
func ComputeJubilees(g *Group, table JubileeTable, today time.Time) ([]Jubilee, error) {
	n := g.Len()
	if n == 0 {
		return nil, fmt.Errorf("jubilees: %w", ErrEmptyGroup)
	}
	total, err := g.totalDays(today)
	if err != nil {
		return nil, err
	}

	start := DateOf(today)
	jubilees := make([]Jubilee, 0, len(table))
	for _, t := range table {
		if t.Days <= float64(total) {
			continue
		}
		until := roundHalfUp((t.Days - float64(total)) / float64(n))
		jubilees = append(jubilees, Jubilee{
			Label:     t.Label,
			Threshold: t.Days,
			DaysUntil: until,
			Date:      start.AddDate(0, 0, until),
		})
	}
	return jubilees, nil
}

// NextJubilee returns the soonest jubilee. The first one wins a tie.
func NextJubilee(jubilees []Jubilee) (Jubilee, bool) {
	if len(jubilees) == 0 {
		return Jubilee{}, false
	}
	next := jubilees[0]
	for _, j := range jubilees[1:] {
		if j.DaysUntil < next.DaysUntil {
			next = j
		}
	}
	return next, true
}

// FindJubilee selects a jubilee by label.
func FindJubilee(jubilees []Jubilee, label string) (Jubilee, error) {
	for _, j := range jubilees {
		if j.Label == label {
			return j, nil
		}
	}
	return Jubilee{}, fmt.Errorf("%s %q: %w", config.ErrUnknownJubilee, label, ErrNotFound)
}
