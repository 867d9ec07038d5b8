package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccurrencesBiweekly(t *testing.T) {
	// 2025-09-01 is a Monday in ISO week 36 (even).
	dtstart := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	until := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	rule, err := NewWeekly([]Weekday{Monday}, 2, EndOnDate(until))
	require.NoError(t, err)

	from := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

	occ, err := Occurrences(rule, dtstart, from, to)
	require.NoError(t, err)
	require.NotEmpty(t, occ)

	// Mondays every other week: Sep 1, 15, 29, Oct 13, 27, Nov 10, 24, Dec 8, 22.
	assert.Len(t, occ, 9)
	assert.True(t, occ[0].Equal(dtstart))

	for i, o := range occ {
		assert.Equal(t, time.Monday, o.Weekday())
		_, week := o.ISOWeek()
		assert.Zero(t, week%2, "occurrence %d not in an even ISO week", i)
		assert.False(t, o.Before(from))
		assert.False(t, o.After(to))
		if i > 0 {
			assert.Equal(t, 14*24*time.Hour, o.Sub(occ[i-1]))
		}
	}
}

func TestOccurrencesWeekly(t *testing.T) {
	dtstart := time.Date(2025, 9, 3, 13, 30, 0, 0, time.UTC)
	until := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	rule, err := NewWeekly([]Weekday{Wednesday}, 1, EndOnDate(until))
	require.NoError(t, err)

	occ, err := Occurrences(rule, dtstart, dtstart, until)
	require.NoError(t, err)

	// Sep 3, 10, 17, 24.
	require.Len(t, occ, 4)
	for _, o := range occ {
		assert.Equal(t, time.Wednesday, o.Weekday())
	}
}

func TestOccurrencesCount(t *testing.T) {
	dtstart := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	end, err := EndAfterCount(3)
	require.NoError(t, err)
	rule, err := NewDaily(1, end)
	require.NoError(t, err)

	occ, err := Occurrences(rule, dtstart, dtstart, dtstart.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Len(t, occ, 3)
}

func TestOccurrencesCapsUnboundedRule(t *testing.T) {
	dtstart := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	rule, err := NewDaily(1, nil)
	require.NoError(t, err)

	// No end condition and a window of ~55 years: enumeration must
	// stop at the cap instead of walking the whole window.
	occ, err := Occurrences(rule, dtstart, dtstart, dtstart.AddDate(0, 0, 20000))
	require.NoError(t, err)
	assert.Len(t, occ, maxOccurrences)
}

func TestOccurrencesInvertedRange(t *testing.T) {
	rule, err := NewWeekly([]Weekday{Monday}, 1, nil)
	require.NoError(t, err)

	from := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	_, err = Occurrences(rule, from, from, from.AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestOccurrencesNilRule(t *testing.T) {
	now := time.Now()
	_, err := Occurrences(nil, now, now, now.Add(time.Hour))
	assert.Error(t, err)
}
