package app_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jubilee/internal/app"
	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/engine"
	"github.com/tartampluch/go-jubilee/internal/roster"
	"github.com/tartampluch/go-jubilee/internal/server"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const twinsCSV = "Name,birthday\nOla,2000-01-01\nKari,2000-01-01\n"

func writeGroup(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), config.FilePermUserRW))
	return path
}

func settingsFor(path string) *config.Settings {
	return &config.Settings{
		Source:   config.SourceSettings{Mode: config.SourceModeLocal, Format: config.FormatAuto, Path: path},
		Server:   config.ServerSettings{Port: config.DefaultPort},
		Refresh:  config.RefreshSettings{Interval: time.Hour},
		Language: config.DefaultLanguage,
		Jubilee:  config.JubileeSettings{PeriodYears: config.DefaultJubileeYears, Count: config.DefaultJubileeCount},
		Reminder: config.ReminderSettings{Enabled: true, Value: 1, Unit: config.UnitDays, Direction: config.DirBefore},
	}
}

func newTestApp(ctx context.Context, s *config.Settings, srv *server.JubileeServer) *app.JubileeApp {
	a := app.NewJubileeApp(ctx, s, &roster.Loader{}, srv)
	a.Clock = MockClock{CurrentTime: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
	return a
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func twinSummary(t *testing.T) engine.Summary {
	t.Helper()
	g := engine.NewGroup(
		engine.Person{Name: "Ola", Birthdate: day(2000, 1, 1)},
		engine.Person{Name: "Kari", Birthdate: day(2000, 1, 1)},
	)
	s, err := engine.Summarize(g, engine.DefaultJubileeTable(), day(2025, 1, 1))
	require.NoError(t, err)
	return s
}

// -----------------------------------------------------------------------------
// Refresh pipeline
// -----------------------------------------------------------------------------

func TestJubileeApp_Refresh_PublishesEverything(t *testing.T) {
	srv := server.NewJubileeServer(config.DefaultPort, nil)
	a := newTestApp(context.Background(), settingsFor(writeGroup(t, "family.csv", twinsCSV)), srv)

	snap, err := a.Refresh()
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Summary.Members)
	assert.Equal(t, 18264, snap.Summary.TotalAge.TotalDays)
	assert.Equal(t, roster.Stats{Records: 2, Accepted: 2}, snap.Stats)
	assert.Same(t, snap, a.Latest())

	ics := string(snap.Calendar)
	assert.Contains(t, ics, "SUMMARY:Group jubilee: 75 years")
	assert.Contains(t, ics, "TRIGGER:-P1D")
	assert.Contains(t, ics, "RRULE:FREQ=YEARLY")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(snap.JSON, &doc))
	assert.Equal(t, "2025-01-01", doc["today"])
	assert.Equal(t, "2024-12-31", doc["average_birthdate"])

	// The server now answers with the published payloads.
	h := srv.Router()
	for _, route := range []string{config.RouteCalendar, config.RouteSummary} {
		rec := serve(h, route)
		assert.Equal(t, http.StatusOK, rec.Code, route)
	}
	assert.Equal(t, string(snap.JSON), serve(h, config.RouteSummary).Body.String())
}

func TestJubileeApp_Refresh_LocalizedEvents(t *testing.T) {
	s := settingsFor(writeGroup(t, "family.csv", twinsCSV))
	s.Language = "fr"
	a := newTestApp(context.Background(), s, nil)

	snap, err := a.Refresh()
	require.NoError(t, err)
	assert.Contains(t, string(snap.Calendar), "Anniversaire du groupe")
}

func TestJubileeApp_Refresh_FailureKeepsLastPayload(t *testing.T) {
	path := writeGroup(t, "family.csv", twinsCSV)
	srv := server.NewJubileeServer(config.DefaultPort, nil)
	a := newTestApp(context.Background(), settingsFor(path), srv)

	first, err := a.Refresh()
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	_, err = a.Refresh()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrRosterRead)

	assert.Same(t, first, a.Latest())
	assert.Equal(t, string(first.JSON), serve(srv.Router(), config.RouteSummary).Body.String())
}

func TestJubileeApp_Refresh_EmptyGroup(t *testing.T) {
	a := newTestApp(context.Background(), settingsFor(writeGroup(t, "family.csv", "Name,birthday\n")), nil)

	_, err := a.Refresh()
	assert.ErrorIs(t, err, engine.ErrEmptyGroup)
	assert.Nil(t, a.Latest())
}

// TestJubileeApp_Run_StopsOnCancel ensures the worker exits with its context.
func TestJubileeApp_Run_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := newTestApp(ctx, settingsFor(writeGroup(t, "family.csv", twinsCSV)), nil)

	done := make(chan struct{})
	go func() {
		a.Run()
		close(done)
	}()

	require.Eventually(t, func() bool { return a.Latest() != nil }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

// -----------------------------------------------------------------------------
// Report
// -----------------------------------------------------------------------------

func TestWriteReport_English(t *testing.T) {
	var buf bytes.Buffer
	err := app.WriteReport(&buf, app.NewTranslator("en"), twinSummary(t), app.ReportOptions{})
	require.NoError(t, err)

	want := "Group age report (2025-01-01)\n" +
		"2 members\n" +
		"Average birthday of group    2024-12-31\n" +
		"Total age of family          50 years 0 weeks and 1 days\n" +
		"Date of 75 years jubilee     2037-07-02 (in 4565 days)\n" +
		"Average age of family        25 years 0 weeks and 0 days\n" +
		"Kari's age                   25 years\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteReport_French(t *testing.T) {
	var buf bytes.Buffer
	err := app.WriteReport(&buf, app.NewTranslator("fr"), twinSummary(t), app.ReportOptions{Person: "Ola"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "2 membres")
	assert.Contains(t, out, "50 ans 0 semaines et 1 jours")
	assert.Contains(t, out, "Âge de Ola")
}

func TestBuildCards_Selection(t *testing.T) {
	tr := app.NewTranslator("en")
	s := twinSummary(t)

	cards, err := app.BuildCards(tr, s, app.ReportOptions{Person: "Ola", Jubilee: "100 years"})
	require.NoError(t, err)
	require.Len(t, cards, 5)
	assert.Equal(t, "Date of 100 years jubilee", cards[2].Title)
	assert.True(t, strings.HasPrefix(cards[2].Value, "2049-12-31"), cards[2].Value)
	assert.Equal(t, "Ola's age", cards[4].Title)

	_, err = app.BuildCards(tr, s, app.ReportOptions{Person: "Nobody"})
	assert.ErrorIs(t, err, engine.ErrNotFound)

	_, err = app.BuildCards(tr, s, app.ReportOptions{Jubilee: "50 years"})
	assert.ErrorIs(t, err, engine.ErrNotFound, "reached jubilees cannot be selected")
}

func TestBuildCards_NoUpcomingJubilee(t *testing.T) {
	s := twinSummary(t)
	s.Jubilees = nil

	cards, err := app.BuildCards(app.NewTranslator("en"), s, app.ReportOptions{})
	require.NoError(t, err)
	assert.Equal(t, config.FallbackNoJubilee, cards[2].Value)
}

// -----------------------------------------------------------------------------
// JSON summary
// -----------------------------------------------------------------------------

func TestEncodeSummary(t *testing.T) {
	data, err := app.EncodeSummary(twinSummary(t), roster.Stats{Records: 3, Accepted: 2, Skipped: 1})
	require.NoError(t, err)

	var doc struct {
		Members  int `json:"members"`
		TotalAge struct {
			Years     int `json:"years"`
			TotalDays int `json:"total_days"`
		} `json:"total_age"`
		NextJubilee struct {
			Label     string `json:"label"`
			Date      string `json:"date"`
			DaysUntil int    `json:"days_until"`
		} `json:"next_jubilee"`
		Jubilees []json.RawMessage `json:"jubilees"`
		Ages     map[string]string `json:"ages"`
		Source   struct {
			Skipped int `json:"skipped"`
		} `json:"source"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, 2, doc.Members)
	assert.Equal(t, 50, doc.TotalAge.Years)
	assert.Equal(t, 18264, doc.TotalAge.TotalDays)
	assert.Equal(t, "75 years", doc.NextJubilee.Label)
	assert.Equal(t, "2037-07-02", doc.NextJubilee.Date)
	assert.Equal(t, 4565, doc.NextJubilee.DaysUntil)
	assert.Len(t, doc.Jubilees, 38)
	assert.Equal(t, "25 years", doc.Ages["Ola"])
	assert.Equal(t, 1, doc.Source.Skipped)
}

func TestEncodeSummary_NoJubileesOmitsNext(t *testing.T) {
	s := twinSummary(t)
	s.Jubilees = nil

	data, err := app.EncodeSummary(s, roster.Stats{})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "next_jubilee")
	assert.Contains(t, string(data), `"jubilees":[]`)
}
