package model

import (
	"errors"
	"fmt"
	"time"

	"kaical/internal/recurrence"
)

// ErrEndNotAfterStart is returned when an entry's end timestamp does
// not strictly follow its start timestamp.
var ErrEndNotAfterStart = errors.New("entry end must be after start")

// Entry is one resolved lesson: either a single occurrence or, when
// Rule is set, the anchor occurrence of a recurring slot. Entries are
// validated at construction and treated as immutable afterwards; use
// WithTimes to derive a re-validated copy. A Rule is owned by exactly
// one entry and must not be shared.
type Entry struct {
	Start time.Time
	End   time.Time

	Subject    string
	LessonType string
	Room       string
	Building   string
	Teacher    string
	Department string

	Rule *recurrence.Rule
}

// New builds a validated entry. It fails if start is not strictly
// before end.
func New(start, end time.Time, subject, lessonType, room, building, teacher, department string, rule *recurrence.Rule) (Entry, error) {
	e := Entry{
		Start:      start,
		End:        end,
		Subject:    subject,
		LessonType: lessonType,
		Room:       room,
		Building:   building,
		Teacher:    teacher,
		Department: department,
		Rule:       rule,
	}
	if err := e.validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// WithTimes returns a copy of the entry with new timestamps, running
// the same validation as New.
func (e Entry) WithTimes(start, end time.Time) (Entry, error) {
	e.Start = start
	e.End = end
	if err := e.validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Duration is the length of one occurrence.
func (e Entry) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

func (e Entry) validate() error {
	if !e.Start.Before(e.End) {
		return fmt.Errorf("%w: start=%s end=%s", ErrEndNotAfterStart,
			e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
	}
	return nil
}
