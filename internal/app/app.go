package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/engine"
	"github.com/tartampluch/go-jubilee/internal/feed"
	"github.com/tartampluch/go-jubilee/internal/roster"
	"github.com/tartampluch/go-jubilee/internal/server"
)

// Snapshot is the outcome of one successful refresh.
type Snapshot struct {
	Summary  engine.Summary
	Stats    roster.Stats
	Calendar []byte
	JSON     []byte
}

// JubileeApp wires settings, ingestion, the engine and the outputs together.
type JubileeApp struct {
	Ctx        context.Context
	Clock      engine.Clock
	Settings   *config.Settings
	Loader     *roster.Loader
	Server     *server.JubileeServer // nil in one-shot mode
	Metrics    *server.Metrics       // nil disables metrics
	Translator *Translator

	mu     sync.RWMutex
	latest *Snapshot
}

// NewJubileeApp creates an app using the real clock and the settings' language.
func NewJubileeApp(ctx context.Context, s *config.Settings, loader *roster.Loader, srv *server.JubileeServer) *JubileeApp {
	app := &JubileeApp{
		Ctx:        ctx,
		Clock:      engine.RealClock{},
		Settings:   s,
		Loader:     loader,
		Server:     srv,
		Translator: NewTranslator(s.Language),
	}
	if srv != nil {
		app.Metrics = srv.Metrics
	}
	return app
}

// Run refreshes immediately, then on every tick until the context ends.
func (app *JubileeApp) Run() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	_, _ = app.Refresh()

	interval := app.Settings.Refresh.Interval
	if interval <= 0 {
		interval = config.DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			_, _ = app.Refresh()
		}
	}
}

// Refresh runs the pipeline (load -> summarize -> render -> publish).
// On failure the previously published payloads stay in place.
func (app *JubileeApp) Refresh() (*Snapshot, error) {
	log := slog.With(config.LogKeyComponent, config.CompApp)
	log.Info(config.MsgRefreshStarted)

	snap, err := app.compute()
	if app.Metrics != nil {
		members := 0
		if snap != nil {
			members = snap.Summary.Members
		}
		app.Metrics.ObserveRefresh(members, err)
	}
	if err != nil {
		log.Error(config.MsgRefreshFailed, config.LogKeyError, err)
		return nil, err
	}

	app.mu.Lock()
	app.latest = snap
	app.mu.Unlock()

	if app.Server != nil {
		app.Server.UpdateCalendar(snap.Calendar)
		app.Server.UpdateSummary(snap.JSON)
	}

	log.Info(config.MsgRefreshDone,
		config.LogKeyMembers, snap.Summary.Members,
		config.LogKeyJubilees, len(snap.Summary.Jubilees),
	)
	return snap, nil
}

func (app *JubileeApp) compute() (*Snapshot, error) {
	// One date for the whole pass so every output agrees.
	today := engine.Today(app.Clock)

	group, stats, err := app.Loader.Load(app.Ctx, app.sourceConfig(), today)
	if err != nil {
		return nil, err
	}

	summary, err := engine.Summarize(group, app.jubileeTable(), today)
	if err != nil {
		return nil, err
	}

	gen := &feed.Generator{
		Clock:               app.Clock,
		FormatJubilee:       app.jubileeTitle,
		FormatGroupBirthday: app.groupBirthdayTitle,
		ReminderTrigger:     app.Settings.ReminderTrigger(),
	}
	ics, err := gen.Render(summary)
	if err != nil {
		return nil, err
	}

	data, err := EncodeSummary(summary, stats)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Summary: summary, Stats: stats, Calendar: ics, JSON: data}, nil
}

// Latest returns the last successful snapshot, or nil.
func (app *JubileeApp) Latest() *Snapshot {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.latest
}

func (app *JubileeApp) sourceConfig() roster.SourceConfig {
	src := app.Settings.Source
	return roster.SourceConfig{
		Mode:      src.Mode,
		Format:    src.Format,
		LocalPath: src.Path,
		WebURL:    src.URL,
		WebUser:   src.User,
		WebPass:   src.Password,
	}
}

func (app *JubileeApp) jubileeTable() engine.JubileeTable {
	j := app.Settings.Jubilee
	return engine.BuildJubileeTable(engine.PeriodForYears(j.PeriodYears), j.Count)
}

func (app *JubileeApp) jubileeTitle(label string) string {
	return app.Translator.Localize(config.TKeyEvtJubilee,
		map[string]any{"Label": label},
		fmt.Sprintf(config.FallbackEvtJubilee, label))
}

func (app *JubileeApp) groupBirthdayTitle() string {
	return app.Translator.Localize(config.TKeyEvtGroupBirthday, nil, config.FallbackGroupBirthday)
}
