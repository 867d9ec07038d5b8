package ics

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"kaical/internal/model"
	"kaical/internal/schedule"
)

const dateTimeLayout = "20060102T150405"

// serialConfig mirrors the library's own defaults: 75-octet content
// lines with CRLF endings.
var serialConfig = &ical.SerializationConfiguration{
	MaxLength:         75,
	PropertyMaxLength: 75,
	NewLine:           "\r\n",
}

// Serializer renders schedule entries into standalone VEVENT blocks.
// The zero value works: it uses schedule.DefaultFormatter, random
// UIDs and the current time for DTSTAMP. Tests override NewUID/Now for
// reproducible output.
type Serializer struct {
	Formatter schedule.Formatter
	NewUID    func() string
	Now       func() time.Time
}

// EventBlock serializes one entry into a VEVENT fragment (no enclosing
// VCALENDAR). Start and end are emitted as local wall-clock values with
// a TZID parameter for the entry's own zone, matching the floating
// UNTIL in the recurrence rule. Location is "<building>, <room>".
func (s *Serializer) EventBlock(e model.Entry) string {
	cal := ical.NewCalendar()
	ev := cal.AddEvent(s.uid())
	ev.SetDtStampTime(s.now().UTC())
	ev.SetSummary(s.formatter().Header(e))
	setLocalTime(ev, ical.ComponentPropertyDtStart, e.Start)
	setLocalTime(ev, ical.ComponentPropertyDtEnd, e.End)
	ev.SetLocation(e.Building + ", " + e.Room)
	ev.SetDescription(s.formatter().Description(e))
	if e.Rule != nil {
		ev.AddRrule(e.Rule.RRule())
	}
	// Serialize emits a trailing CRLF; trim it so assembled documents
	// have no blank lines between blocks.
	return strings.TrimRight(ev.Serialize(serialConfig), "\r\n")
}

// Blocks serializes every entry in order.
func (s *Serializer) Blocks(entries []model.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.EventBlock(e))
	}
	return out
}

func setLocalTime(ev *ical.VEvent, prop ical.ComponentProperty, t time.Time) {
	ev.SetProperty(prop, t.Format(dateTimeLayout),
		&ical.KeyValues{Key: string(ical.ParameterTzid), Value: []string{t.Location().String()}})
}

func (s *Serializer) formatter() schedule.Formatter {
	if s.Formatter != nil {
		return s.Formatter
	}
	return schedule.DefaultFormatter{}
}

func (s *Serializer) uid() string {
	if s.NewUID != nil {
		return s.NewUID()
	}
	return uuid.NewString()
}

func (s *Serializer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
