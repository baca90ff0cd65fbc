package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/engine"
)

// csvRow is one data line before date parsing.
type csvRow struct {
	Name     string `validate:"required"`
	Birthday string `validate:"required"`
}

// ParseCSV reads a group from CSV data. The first line is a header; the
// first column holds the name and the second the birthdate. Extra columns
// are ignored.
//
// Blank rows are dropped and rows with an unusable date (unparsable, before
// config.MinBirthdate or after today) are skipped with a warning.
func ParseCSV(ctx context.Context, r io.Reader, today time.Time) (*engine.Group, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return engine.NewGroup(), Stats{}, nil
	}
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s: %w", config.ErrRosterRead, err)
	}
	if len(header) < config.CSVMinColumns {
		return nil, Stats{}, errors.New(config.ErrCSVHeader)
	}

	c := newCollector(config.FormatCSV)
	for {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A malformed line (e.g. a stray quote) does not invalidate the rest.
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				c.stats.Records++
				c.skip(config.MsgSkippedRow, config.LogKeyLine, perr.Line, config.LogKeyError, err)
				continue
			}
			return nil, Stats{}, fmt.Errorf("%s: %w", config.ErrRosterRead, err)
		}
		c.stats.Records++

		line, _ := reader.FieldPos(0)
		row := csvRow{Name: column(record, config.CSVColName), Birthday: column(record, config.CSVColDate)}
		if v := validate.Struct(&row); !v.Validate() {
			c.stats.Skipped++
			c.log.Debug(config.MsgSkippedRow, config.LogKeyLine, line, config.LogKeyError, v.Errors.One())
			continue
		}

		birthdate, err := ParseDate(row.Birthday)
		if err != nil {
			c.skip(config.MsgSkippedDate, config.LogKeyLine, line, config.LogKeyValue, row.Birthday)
			continue
		}

		p := engine.Person{Name: row.Name, Birthdate: birthdate}
		if err := p.Validate(today); err != nil {
			c.skip(config.MsgSkippedRow, config.LogKeyLine, line, config.LogKeyError, err)
			continue
		}
		c.add(p)
	}

	g, stats := c.done()
	return g, stats, nil
}

// column returns the trimmed field at i, or "" when the row is short.
func column(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
