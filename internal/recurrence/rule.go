package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is a day of the week, Monday-based (Monday=0 .. Sunday=6).
// This matches ISO-8601 day ordering rather than time.Weekday's
// Sunday-based one.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var weekdayICalCodes = [...]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

// ICal returns the two-letter BYDAY code for the weekday.
func (d Weekday) ICal() string {
	return weekdayICalCodes[d]
}

// FromTime converts a time.Weekday (Sunday=0) into a Monday-based Weekday.
func FromTime(w time.Weekday) Weekday {
	return Weekday((int(w) + 6) % 7)
}

// End is the termination condition of a repeat rule: either a cutoff
// timestamp or an occurrence count. The zero value is not valid; use
// EndOnDate or EndAfterCount.
type End struct {
	until  time.Time
	count  int
	byDate bool
}

// EndOnDate terminates the recurrence at the given timestamp.
//
// The timestamp is serialized as-is in local wall-clock form, without a
// UTC designator. No timezone conversion happens during formatting, so
// the caller must supply `until` already in the zone the calendar is
// meant to be read in.
func EndOnDate(until time.Time) *End {
	return &End{until: until, byDate: true}
}

// EndAfterCount terminates the recurrence after n occurrences.
func EndAfterCount(n int) (*End, error) {
	if n < 1 {
		return nil, fmt.Errorf("recurrence: count must be >= 1, got %d", n)
	}
	return &End{count: n}, nil
}

const untilLayout = "20060102T150405"

func (e *End) rrulePart() string {
	if e.byDate {
		return "UNTIL=" + e.until.Format(untilLayout)
	}
	return "COUNT=" + strconv.Itoa(e.count)
}

// Frequency is the base repeat period of a rule.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

var frequencyNames = [...]string{"DAILY", "WEEKLY", "MONTHLY", "YEARLY"}

func (f Frequency) String() string {
	if f < Daily || f > Yearly {
		return "Frequency(" + strconv.Itoa(int(f)) + ")"
	}
	return frequencyNames[f]
}

// Rule is a repeat rule over a closed set of frequencies. Rules are
// built through the per-frequency constructors and are not mutated
// afterwards; each rule belongs to exactly one schedule entry.
type Rule struct {
	freq     Frequency
	weekdays []Weekday // weekly rules only
	monthDay int       // monthly rules only, 0 = unset
	interval int
	end      *End
}

func newRule(freq Frequency, interval int, end *End) (*Rule, error) {
	if interval < 1 {
		return nil, fmt.Errorf("recurrence: interval must be >= 1, got %d", interval)
	}
	return &Rule{freq: freq, interval: interval, end: end}, nil
}

// NewDaily repeats every `interval` days.
func NewDaily(interval int, end *End) (*Rule, error) {
	return newRule(Daily, interval, end)
}

// NewWeekly repeats every `interval` weeks on the given weekdays. The
// weekday order is preserved verbatim in the BYDAY list; an empty list
// omits BYDAY entirely.
func NewWeekly(weekdays []Weekday, interval int, end *End) (*Rule, error) {
	r, err := newRule(Weekly, interval, end)
	if err != nil {
		return nil, err
	}
	for _, d := range weekdays {
		if d < Monday || d > Sunday {
			return nil, fmt.Errorf("recurrence: invalid weekday %d", int(d))
		}
	}
	r.weekdays = weekdays
	return r, nil
}

// NewMonthly repeats every `interval` months, optionally pinned to a
// day of the month (0 leaves BYMONTHDAY unset).
func NewMonthly(monthDay, interval int, end *End) (*Rule, error) {
	if monthDay < 0 || monthDay > 31 {
		return nil, fmt.Errorf("recurrence: invalid day of month %d", monthDay)
	}
	r, err := newRule(Monthly, interval, end)
	if err != nil {
		return nil, err
	}
	r.monthDay = monthDay
	return r, nil
}

// NewYearly repeats every `interval` years on the start date.
func NewYearly(interval int, end *End) (*Rule, error) {
	return newRule(Yearly, interval, end)
}

// Frequency reports the base period of the rule.
func (r *Rule) Frequency() Frequency { return r.freq }

// RRule renders the rule as an iCalendar RRULE property value, e.g.
// "FREQ=WEEKLY;BYDAY=MO;INTERVAL=2;UNTIL=20251231T000000".
func (r *Rule) RRule() string {
	parts := []string{"FREQ=" + r.freq.String()}

	switch r.freq {
	case Weekly:
		if len(r.weekdays) > 0 {
			codes := make([]string, len(r.weekdays))
			for i, d := range r.weekdays {
				codes[i] = d.ICal()
			}
			parts = append(parts, "BYDAY="+strings.Join(codes, ","))
		}
	case Monthly:
		if r.monthDay > 0 {
			parts = append(parts, "BYMONTHDAY="+strconv.Itoa(r.monthDay))
		}
	}

	parts = append(parts, "INTERVAL="+strconv.Itoa(r.interval))
	if r.end != nil {
		parts = append(parts, r.end.rrulePart())
	}
	return strings.Join(parts, ";")
}
