package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"kaical/internal/model"
	"kaical/internal/recurrence"
)

// Source data carries no explicit duration; every lesson is assumed to
// run for one standard pair.
const lessonDuration = 90 * time.Minute

// Date-field tokens marking biweekly lessons: "чет" = even ISO weeks,
// "неч" = odd ISO weeks.
const (
	tokenEvenWeeks = "чет"
	tokenOddWeeks  = "неч"
)

var (
	// ErrBadTime marks an unparseable lesson start time. Treated as
	// data corruption (likely an upstream format change), so it aborts
	// the whole parse instead of skipping the record.
	ErrBadTime = errors.New("schedule: malformed lesson time")
	// ErrBadDate marks an unparseable DD.MM date fragment. Fatal for
	// the same reason as ErrBadTime.
	ErrBadDate = errors.New("schedule: malformed lesson date")
)

// rawLesson is the upstream per-lesson record, one object in the
// weekday-keyed JSON delivered by the schedule exporter.
type rawLesson struct {
	Subject    string `json:"disciplName"`
	LessonType string `json:"disciplType"`
	Room       string `json:"audNum"`
	Building   string `json:"buildNum"`
	Teacher    string `json:"prepodName"`
	Department string `json:"orgUnitName"`
	Time       string `json:"dayTime"`
	Date       string `json:"dayDate"`
}

var weekdayKeys = map[string]recurrence.Weekday{
	"1": recurrence.Monday,
	"2": recurrence.Tuesday,
	"3": recurrence.Wednesday,
	"4": recurrence.Thursday,
	"5": recurrence.Friday,
	"6": recurrence.Saturday,
	"7": recurrence.Sunday,
}

// Semester bounds the recurrences produced by the parser.
type Semester struct {
	// Start and End must carry the semester's local timezone; all
	// produced timestamps live in that zone.
	Start time.Time
	End   time.Time
	// Year is the implied year for DD.MM date fragments.
	Year int
}

// Parser resolves the weekday-keyed schedule JSON into entries anchored
// within a semester window.
type Parser struct {
	data map[string][]rawLesson
	sem  Semester
	loc  *time.Location
	log  *zap.Logger
}

// NewParser decodes the raw schedule JSON. Malformed JSON is a fatal
// structural error. The logger receives per-record warnings for data
// the parser skips.
func NewParser(content []byte, sem Semester, logger *zap.Logger) (*Parser, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var data map[string][]rawLesson
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("schedule: decode json: %w", err)
	}
	return &Parser{
		data: data,
		sem:  sem,
		loc:  sem.Start.Location(),
		log:  logger,
	}, nil
}

// Parse walks the weekday keys in ascending order and, within a day,
// the source record order. Records with missing fields and unknown
// weekday keys are skipped with a warning; malformed time or date
// values abort the parse.
func (p *Parser) Parse() ([]model.Entry, error) {
	keys := make([]string, 0, len(p.data))
	for k := range p.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var entries []model.Entry
	for _, key := range keys {
		weekday, ok := weekdayKeys[key]
		if !ok {
			p.log.Warn("unknown weekday key, skipping", zap.String("key", key))
			continue
		}
		p.log.Debug("parsing weekday",
			zap.String("key", key),
			zap.Stringer("weekday", weekday),
			zap.Int("records", len(p.data[key])))

		for _, raw := range p.data[key] {
			resolved, err := p.resolve(weekday, raw)
			if err != nil {
				return nil, err
			}
			entries = append(entries, resolved...)
		}
	}
	return entries, nil
}

// resolve turns one raw record into zero or more entries depending on
// its date field: a parity token yields one biweekly entry, a DD.MM
// list yields one single-occurrence entry per fragment, and an empty
// field yields one plain weekly entry.
func (p *Parser) resolve(weekday recurrence.Weekday, raw rawLesson) ([]model.Entry, error) {
	subject := strings.TrimSpace(raw.Subject)
	lessonType := strings.TrimSpace(raw.LessonType)
	room := strings.TrimSpace(raw.Room)
	building := strings.TrimSpace(raw.Building)
	teacher := strings.TrimSpace(raw.Teacher)
	department := strings.TrimSpace(raw.Department)
	timeField := strings.TrimSpace(raw.Time)
	dateField := strings.TrimSpace(raw.Date)

	for _, field := range []string{subject, lessonType, room, building, teacher, department, timeField} {
		if field == "" {
			p.log.Warn("record missing required fields, skipping",
				zap.Stringer("weekday", weekday),
				zap.String("subject", raw.Subject),
				zap.String("time", raw.Time))
			return nil, nil
		}
	}

	hour, minute, err := parseClock(timeField)
	if err != nil {
		p.log.Error("failed to parse lesson time", zap.String("value", timeField))
		return nil, err
	}

	build := func(day time.Time, rule *recurrence.Rule) (model.Entry, error) {
		start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, p.loc)
		return model.New(start, start.Add(lessonDuration),
			subject, lessonType, room, building, teacher, department, rule)
	}

	switch {
	case dateField == tokenEvenWeeks || dateField == tokenOddWeeks:
		even := dateField == tokenEvenWeeks
		day := firstOccurrence(p.sem.Start, weekday, even)
		rule, err := recurrence.NewWeekly([]recurrence.Weekday{weekday}, 2, recurrence.EndOnDate(p.sem.End))
		if err != nil {
			return nil, err
		}
		e, err := build(day, rule)
		if err != nil {
			return nil, err
		}
		return []model.Entry{e}, nil

	case dateField != "":
		days, err := p.parseDates(dateField)
		if err != nil {
			return nil, err
		}
		out := make([]model.Entry, 0, len(days))
		for _, day := range days {
			e, err := build(day, nil)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil

	default:
		// No date restriction: the lesson runs every week. The anchor
		// keeps the parity of the semester start itself.
		day := firstOccurrence(p.sem.Start, weekday, isEvenWeek(p.sem.Start))
		rule, err := recurrence.NewWeekly([]recurrence.Weekday{weekday}, 1, recurrence.EndOnDate(p.sem.End))
		if err != nil {
			return nil, err
		}
		e, err := build(day, rule)
		if err != nil {
			return nil, err
		}
		return []model.Entry{e}, nil
	}
}

// parseDates splits a whitespace-separated list of DD.MM fragments and
// resolves each against the semester's implied year.
func (p *Parser) parseDates(field string) ([]time.Time, error) {
	fragments := strings.Fields(field)
	out := make([]time.Time, 0, len(fragments))
	for _, frag := range fragments {
		day, err := time.ParseInLocation("02.01.2006", fmt.Sprintf("%s.%d", frag, p.sem.Year), p.loc)
		if err != nil {
			p.log.Error("failed to parse lesson date", zap.String("value", frag))
			return nil, fmt.Errorf("%w: %q", ErrBadDate, frag)
		}
		out = append(out, day)
	}
	return out, nil
}

// parseClock parses the 24-hour "HH:MM" start portion of a lesson time
// range; anything after a dash (the end time) is ignored.
func parseClock(s string) (hour, minute int, err error) {
	startPart, _, _ := strings.Cut(s, "-")
	t, err := time.Parse("15:04", strings.TrimSpace(startPart))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	return t.Hour(), t.Minute(), nil
}

// isEvenWeek reports whether the date falls in an even ISO week. Parity
// is defined over ISO week numbers, never the day of year.
func isEvenWeek(t time.Time) bool {
	_, week := t.ISOWeek()
	return week%2 == 0
}

// firstOccurrence finds the first date on/after `from` that falls on
// the target weekday and in a week of the requested parity. When the
// natural weekday hit lands in the wrong week, the occurrence moves
// forward by exactly one week.
func firstOccurrence(from time.Time, weekday recurrence.Weekday, even bool) time.Time {
	day := from
	for recurrence.FromTime(day.Weekday()) != weekday {
		day = day.AddDate(0, 0, 1)
	}
	if isEvenWeek(day) != even {
		day = day.AddDate(0, 0, 7)
	}
	return day
}
