package feed

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/tartampluch/go-jubilee/internal/config"
	"github.com/tartampluch/go-jubilee/internal/engine"
)

// uidSpace scopes the UUIDv5 event identifiers to this application.
var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(config.UIDNamespace))

// Generator turns a computed summary into an iCalendar feed.
type Generator struct {
	Clock engine.Clock // Stamps DTSTAMP.

	// FormatJubilee and FormatGroupBirthday let the caller inject localized
	// event titles. Nil falls back to English.
	FormatJubilee       func(label string) string
	FormatGroupBirthday func() string

	// ReminderTrigger is an ISO 8601 duration ("-P1D"); empty disables alarms.
	ReminderTrigger string
}

// Render builds the feed: one all-day event per upcoming jubilee and a
// yearly event on the group's average birthday.
func (g *Generator) Render(s engine.Summary) ([]byte, error) {
	if s.Members == 0 {
		// A valid but empty VCALENDAR keeps subscribed clients from flagging the feed.
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(g.Clock.Now().UTC())

	for _, j := range s.Jubilees {
		if j.DaysUntil == 0 {
			slog.Info(config.MsgJubileeToday,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyLabel, j.Label)
		}
		event := g.jubileeEvent(j, s)
		event.Props.Set(dtStamp)
		cal.Children = append(cal.Children, event.Component)
	}

	birthday := g.groupBirthdayEvent(s)
	birthday.Props.Set(dtStamp)
	cal.Children = append(cal.Children, birthday.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgFeedGenerated,
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyJubilees, len(s.Jubilees),
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

func (g *Generator) jubileeEvent(j engine.Jubilee, s engine.Summary) *ical.Event {
	summary := fmt.Sprintf(config.FallbackEvtJubilee, j.Label)
	if g.FormatJubilee != nil {
		summary = g.FormatJubilee(j.Label)
	}

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, eventUID(uidKindJubilee, j.Label))
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropDescription,
		fmt.Sprintf(config.FormatDescJubilee, j.DaysUntil, s.Today.Format(config.DateFormatOutput)))

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDate(j.Date)
	event.Props.Set(dtStart)

	g.addAlarm(event, summary)
	return event
}

func (g *Generator) groupBirthdayEvent(s engine.Summary) *ical.Event {
	summary := config.FallbackGroupBirthday
	if g.FormatGroupBirthday != nil {
		summary = g.FormatGroupBirthday()
	}

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, eventUID(config.UIDGroupBirthday, config.AppID))
	event.Props.SetText(config.PropSummary, summary)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDate(s.AverageBirthdate)
	event.Props.Set(dtStart)

	rrule := ical.NewProp(config.PropRRule)
	rrule.Value = config.ICalRRuleYear
	event.Props.Set(rrule)

	g.addAlarm(event, summary)
	return event
}

// addAlarm appends a DISPLAY alarm when a reminder is configured.
func (g *Generator) addAlarm(event *ical.Event, description string) {
	if g.ReminderTrigger == "" {
		return
	}
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	trigger := ical.NewProp(config.PropTrigger)
	trigger.Value = g.ReminderTrigger
	alarm.Props.Set(trigger)

	event.Children = append(event.Children, alarm)
}

const uidKindJubilee = "jubilee"

// eventUID is stable for a given kind and key so clients update events in place.
func eventUID(kind, key string) string {
	name := fmt.Sprintf(config.FormatUIDName, kind, key)
	return uuid.NewSHA1(uidSpace, []byte(name)).String()
}
