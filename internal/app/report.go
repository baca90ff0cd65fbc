package app

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/engine"
)

// ReportOptions selects what the person and jubilee cards show.
// Empty values pick the first member by name and the next jubilee.
type ReportOptions struct {
	Person  string
	Jubilee string
}

// Card is one titled value of the report.
type Card struct {
	Title string
	Value string
}

// BuildCards renders the metric cards of s in the translator's language.
func BuildCards(t *Translator, s engine.Summary, opts ReportOptions) ([]Card, error) {
	jubileeCard, err := buildJubileeCard(t, s, opts.Jubilee)
	if err != nil {
		return nil, err
	}
	personCard, err := buildPersonCard(t, s, opts.Person)
	if err != nil {
		return nil, err
	}

	return []Card{
		{
			Title: t.Localize(config.TKeyCardAvgBirthday, nil, config.FallbackAvgBirthday),
			Value: s.AverageBirthdate.Format(config.DateFormatOutput),
		},
		{
			Title: t.Localize(config.TKeyCardTotalAge, nil, config.FallbackTotalAge),
			Value: formatBreakdown(t, s.TotalAge),
		},
		jubileeCard,
		{
			Title: t.Localize(config.TKeyCardAverageAge, nil, config.FallbackAverageAge),
			Value: formatBreakdown(t, s.AverageAge),
		},
		personCard,
	}, nil
}

func buildJubileeCard(t *Translator, s engine.Summary, label string) (Card, error) {
	var (
		j  engine.Jubilee
		ok bool
	)
	if label == "" {
		j, ok = engine.NextJubilee(s.Jubilees)
	} else {
		var err error
		if j, err = engine.FindJubilee(s.Jubilees, label); err != nil {
			return Card{}, err
		}
		ok = true
	}

	if !ok {
		return Card{
			Title: t.Localize(config.TKeyCardJubileeDate, map[string]any{"Label": "-"}, fmt.Sprintf(config.FallbackJubileeDate, "-")),
			Value: t.Localize(config.TKeyNoJubilee, nil, config.FallbackNoJubilee),
		}, nil
	}

	date := j.Date.Format(config.DateFormatOutput)
	return Card{
		Title: t.Localize(config.TKeyCardJubileeDate,
			map[string]any{"Label": j.Label},
			fmt.Sprintf(config.FallbackJubileeDate, j.Label)),
		Value: t.Localize(config.TKeyValueJubilee,
			map[string]any{"Date": date, "Days": j.DaysUntil},
			fmt.Sprintf(config.FallbackJubileeValue, date, j.DaysUntil)),
	}, nil
}

func buildPersonCard(t *Translator, s engine.Summary, name string) (Card, error) {
	if name == "" {
		names := slices.Sorted(maps.Keys(s.Ages))
		if len(names) == 0 {
			return Card{}, fmt.Errorf("%s: %w", config.ErrUnknownMember, engine.ErrEmptyGroup)
		}
		name = names[0]
	}

	age, ok := s.Ages[name]
	if !ok {
		return Card{}, fmt.Errorf("%s %q: %w", config.ErrUnknownMember, name, engine.ErrNotFound)
	}
	return Card{
		Title: t.Localize(config.TKeyCardPersonAge,
			map[string]any{"Name": name},
			fmt.Sprintf(config.FallbackPersonAge, name)),
		Value: age,
	}, nil
}

func formatBreakdown(t *Translator, b engine.Breakdown) string {
	return t.Localize(config.TKeyValueBreakdown,
		map[string]any{"Years": b.Years, "Weeks": b.Weeks, "Days": b.Days},
		fmt.Sprintf(config.FallbackBreakdown, b.Years, b.Weeks, b.Days))
}

// WriteReport prints the title, member count and cards of s to w.
func WriteReport(w io.Writer, t *Translator, s engine.Summary, opts ReportOptions) error {
	cards, err := BuildCards(t, s, opts)
	if err != nil {
		return err
	}

	title := t.Localize(config.TKeyReportTitle, nil, config.FallbackReportTitle)
	if _, err := fmt.Fprintf(w, config.FormatReportTitle, title, s.Today.Format(config.DateFormatOutput)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrReportWrite, err)
	}
	members := t.LocalizeCount(config.TKeyMembers, s.Members, fmt.Sprintf(config.FallbackMembers, s.Members))
	if _, err := fmt.Fprintln(w, members); err != nil {
		return fmt.Errorf("%s: %w", config.ErrReportWrite, err)
	}
	for _, c := range cards {
		if _, err := fmt.Fprintf(w, config.FormatReportLine, c.Title, c.Value); err != nil {
			return fmt.Errorf("%s: %w", config.ErrReportWrite, err)
		}
	}
	return nil
}
