package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/engine"
)

// ParseDate reads a birthdate in any accepted layout.
// Year-less vCard dates (--MM-DD) are rejected: an age needs a year.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatDotted,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return engine.DateOf(t), nil
		}
	}

	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if _, err := time.Parse(f, value); err == nil {
			return time.Time{}, fmt.Errorf("%w: %s %q", engine.ErrInvalidInput, config.ErrDateNoYear, value)
		}
	}

	return time.Time{}, fmt.Errorf("%w: %s %q", engine.ErrInvalidInput, config.ErrDateParse, value)
}
