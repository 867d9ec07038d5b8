package ics

import "strings"

// Calendar wraps pre-serialized VEVENT blocks into a complete
// VCALENDAR document. Blocks are passed through unchanged; the wrapper
// does not inspect or validate them.
func Calendar(events []string) string {
	lines := make([]string, 0, len(events)+4)
	lines = append(lines,
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//KAI Schedule Parser//EN",
	)
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\n")
}
