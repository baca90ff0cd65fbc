package app

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/engine"
	"github.com/tartampluch/go-jubilee/internal/roster"
)

type breakdownDoc struct {
	Years     int `json:"years"`
	Weeks     int `json:"weeks"`
	Days      int `json:"days"`
	TotalDays int `json:"total_days"`
}

type jubileeDoc struct {
	Label     string `json:"label"`
	Date      string `json:"date"`
	DaysUntil int    `json:"days_until"`
}

type statsDoc struct {
	Records    int `json:"records"`
	Accepted   int `json:"accepted"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
}

// summaryDoc is the wire shape of /summary.json.
type summaryDoc struct {
	Today            string            `json:"today"`
	Members          int               `json:"members"`
	AverageBirthdate string            `json:"average_birthdate"`
	TotalAge         breakdownDoc      `json:"total_age"`
	AverageAge       breakdownDoc      `json:"average_age"`
	NextJubilee      *jubileeDoc       `json:"next_jubilee,omitempty"`
	Jubilees         []jubileeDoc      `json:"jubilees"`
	Ages             map[string]string `json:"ages"`
	Source           statsDoc          `json:"source"`
}

func toBreakdownDoc(b engine.Breakdown) breakdownDoc {
	return breakdownDoc{Years: b.Years, Weeks: b.Weeks, Days: b.Days, TotalDays: b.TotalDays}
}

func toJubileeDoc(j engine.Jubilee) jubileeDoc {
	return jubileeDoc{Label: j.Label, Date: j.Date.Format(config.DateFormatOutput), DaysUntil: j.DaysUntil}
}

// EncodeSummary serializes s and the ingestion stats for the JSON route.
func EncodeSummary(s engine.Summary, stats roster.Stats) ([]byte, error) {
	doc := summaryDoc{
		Today:            s.Today.Format(config.DateFormatOutput),
		Members:          s.Members,
		AverageBirthdate: s.AverageBirthdate.Format(config.DateFormatOutput),
		TotalAge:         toBreakdownDoc(s.TotalAge),
		AverageAge:       toBreakdownDoc(s.AverageAge),
		Jubilees:         make([]jubileeDoc, 0, len(s.Jubilees)),
		Ages:             s.Ages,
		Source: statsDoc{
			Records:    stats.Records,
			Accepted:   stats.Accepted,
			Skipped:    stats.Skipped,
			Duplicates: stats.Duplicates,
		},
	}
	for _, j := range s.Jubilees {
		doc.Jubilees = append(doc.Jubilees, toJubileeDoc(j))
	}
	if next, ok := engine.NextJubilee(s.Jubilees); ok {
		d := toJubileeDoc(next)
		doc.NextJubilee = &d
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}
	return data, nil
}
