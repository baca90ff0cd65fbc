package roster

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/engine"
)

// ParseVCard reads a group from a vCard stream (.vcf).
//
// Cards without a BDAY, with a year-less BDAY or with an out-of-range
// birthdate are skipped. The name is taken from FN, then N, then
// config.FallbackName.
func ParseVCard(ctx context.Context, r io.Reader, today time.Time) (*engine.Group, Stats, error) {
	decoder := vcard.NewDecoder(r)
	c := newCollector(config.FormatVCard)

	for {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log error but continue to next card to maximize data recovery
			c.skip(config.MsgSkippedCard, config.LogKeyError, err)
			continue
		}
		c.stats.Records++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			c.stats.Skipped++
			continue
		}

		name := cardName(card)
		birthdate, err := ParseDate(bday.Value)
		if err != nil {
			c.skip(config.MsgSkippedDate, config.LogKeyName, name, config.LogKeyValue, bday.Value)
			continue
		}

		p := engine.Person{Name: name, Birthdate: birthdate}
		if err := p.Validate(today); err != nil {
			c.skip(config.MsgSkippedCard, config.LogKeyName, name, config.LogKeyError, err)
			continue
		}
		c.add(p)
	}

	g, stats := c.done()
	return g, stats, nil
}

// cardName applies FN > N > fallback.
func cardName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && strings.TrimSpace(fn.Value) != "" {
		return strings.TrimSpace(fn.Value)
	}
	if n := card.Name(); n != nil {
		if full := strings.TrimSpace(n.GivenName + " " + n.FamilyName); full != "" {
			return full
		}
	}
	return config.FallbackName
}
