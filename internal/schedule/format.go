package schedule

import (
	"fmt"
	"strings"

	"kaical/internal/model"
)

// Formatter renders an entry into the calendar-facing title and body.
// Callers may inject their own implementation; parsing and event
// serialization are independent of the chosen one.
type Formatter interface {
	Header(e model.Entry) string
	Description(e model.Entry) string
}

// DefaultFormatter renders the title as
// "<building> - <room> | <lesson type> - <subject>" and the body as a
// fixed-order label/value block.
type DefaultFormatter struct{}

func (DefaultFormatter) Header(e model.Entry) string {
	return fmt.Sprintf("%s - %s | %s - %s", e.Building, e.Room, e.LessonType, e.Subject)
}

func (DefaultFormatter) Description(e model.Entry) string {
	lines := []string{
		"Дисциплина: " + e.Subject,
		"Вид занятия: " + e.LessonType,
		"Здание: " + e.Building,
		"Аудитория: " + e.Room,
		"Преподаватель: " + e.Teacher,
		"Кафедра: " + e.Department,
	}
	return strings.Join(lines, "\n")
}
