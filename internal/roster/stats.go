package roster

import (
	"log/slog"

	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/engine"
)

// Stats counts what happened to the input records.
type Stats struct {
	Records    int // rows or cards read, blanks included
	Accepted   int // records stored in the group
	Skipped    int // blank, unparsable or out-of-range records
	Duplicates int // accepted records that replaced an earlier name
}

// collector accumulates accepted people into a group.
type collector struct {
	group *engine.Group
	stats Stats
	log   *slog.Logger
}

func newCollector(format string) *collector {
	return &collector{
		group: engine.NewGroup(),
		log: slog.With(
			config.LogKeyComponent, config.CompRoster,
			config.LogKeyFormat, format,
		),
	}
}

// add stores p; the caller has already validated it.
func (c *collector) add(p engine.Person) {
	if _, err := c.group.Birthdate(p.Name); err == nil {
		c.stats.Duplicates++
		c.log.Debug(config.MsgDuplicateName, config.LogKeyName, p.Name)
	}
	c.group.Set(p.Name, p.Birthdate)
	c.stats.Accepted++
}

func (c *collector) skip(msg string, args ...any) {
	c.stats.Skipped++
	c.log.Warn(msg, args...)
}

func (c *collector) done() (*engine.Group, Stats) {
	c.log.Info(config.MsgGroupLoaded,
		slog.Group(config.LogKeyStats,
			slog.Int("records", c.stats.Records),
			slog.Int("accepted", c.stats.Accepted),
			slog.Int("skipped", c.stats.Skipped),
			slog.Int("duplicates", c.stats.Duplicates),
		),
	)
	return c.group, c.stats
}
