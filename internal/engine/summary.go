package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-jubilee/internal/config"
)

// Summary holds every metric for one group at one date.
type Summary struct {
	Today            time.Time
	Members          int
	AverageBirthdate time.Time
	TotalAge         Breakdown
	AverageAge       Breakdown
	Jubilees         []Jubilee
	Ages             map[string]string
}

// Summarize computes all metrics against a single today so they agree with
// each other. It returns either a complete Summary or an error.
func Summarize(g *Group, table JubileeTable, today time.Time) (Summary, error) {
	today = DateOf(today)

	if err := g.Validate(today); err != nil {
		return Summary{}, err
	}

	avgDOB, err := AverageBirthdate(g, today)
	if err != nil {
		return Summary{}, err
	}
	total, err := TotalAge(g, today)
	if err != nil {
		return Summary{}, err
	}
	avg, err := AverageAge(g, today)
	if err != nil {
		return Summary{}, err
	}
	jubilees, err := ComputeJubilees(g, table, today)
	if err != nil {
		return Summary{}, err
	}
	ages, err := FormatAges(g, today)
	if err != nil {
		return Summary{}, fmt.Errorf("ages: %w", err)
	}

	slog.Debug("Summary computed",
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyToday, today.Format(config.DateFormatOutput),
		config.LogKeyMembers, g.Len(),
		config.LogKeyJubilees, len(jubilees),
	)

	return Summary{
		Today:            today,
		Members:          g.Len(),
		AverageBirthdate: avgDOB,
		TotalAge:         total,
		AverageAge:       avg,
		Jubilees:         jubilees,
		Ages:             ages,
	}, nil
}
