package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayICal(t *testing.T) {
	codes := map[Weekday]string{
		Monday:    "MO",
		Tuesday:   "TU",
		Wednesday: "WE",
		Thursday:  "TH",
		Friday:    "FR",
		Saturday:  "SA",
		Sunday:    "SU",
	}
	for d, want := range codes {
		assert.Equal(t, want, d.ICal(), d.String())
	}
}

func TestFromTime(t *testing.T) {
	assert.Equal(t, Monday, FromTime(time.Monday))
	assert.Equal(t, Saturday, FromTime(time.Saturday))
	assert.Equal(t, Sunday, FromTime(time.Sunday))
}

func TestRuleRRule(t *testing.T) {
	until := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	countTen, err := EndAfterCount(10)
	require.NoError(t, err)

	tests := []struct {
		name string
		rule func() (*Rule, error)
		want string
	}{
		{
			name: "weekly single day biweekly until",
			rule: func() (*Rule, error) {
				return NewWeekly([]Weekday{Monday}, 2, EndOnDate(until))
			},
			want: "FREQ=WEEKLY;BYDAY=MO;INTERVAL=2;UNTIL=20251231T000000",
		},
		{
			name: "weekly preserves caller weekday order",
			rule: func() (*Rule, error) {
				return NewWeekly([]Weekday{Wednesday, Monday}, 1, nil)
			},
			want: "FREQ=WEEKLY;BYDAY=WE,MO;INTERVAL=1",
		},
		{
			name: "weekly without weekdays omits BYDAY",
			rule: func() (*Rule, error) {
				return NewWeekly(nil, 1, nil)
			},
			want: "FREQ=WEEKLY;INTERVAL=1",
		},
		{
			name: "daily with count",
			rule: func() (*Rule, error) {
				return NewDaily(1, countTen)
			},
			want: "FREQ=DAILY;INTERVAL=1;COUNT=10",
		},
		{
			name: "monthly pinned to day of month",
			rule: func() (*Rule, error) {
				return NewMonthly(15, 1, nil)
			},
			want: "FREQ=MONTHLY;BYMONTHDAY=15;INTERVAL=1",
		},
		{
			name: "monthly without day of month",
			rule: func() (*Rule, error) {
				return NewMonthly(0, 2, nil)
			},
			want: "FREQ=MONTHLY;INTERVAL=2",
		},
		{
			name: "yearly without end",
			rule: func() (*Rule, error) {
				return NewYearly(1, nil)
			},
			want: "FREQ=YEARLY;INTERVAL=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.rule()
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.RRule())
		})
	}
}

func TestUntilStaysLocalWallClock(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	until := time.Date(2025, 12, 31, 23, 59, 0, 0, loc)
	r, err := NewWeekly([]Weekday{Friday}, 1, EndOnDate(until))
	require.NoError(t, err)

	// No conversion to UTC and no Z suffix: the caller supplies the
	// cutoff in the target wall-clock already.
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=FR;INTERVAL=1;UNTIL=20251231T235900", r.RRule())
}

func TestEndAfterCountValidation(t *testing.T) {
	_, err := EndAfterCount(0)
	assert.Error(t, err)

	_, err = EndAfterCount(-3)
	assert.Error(t, err)

	end, err := EndAfterCount(1)
	require.NoError(t, err)
	assert.Equal(t, "COUNT=1", end.rrulePart())
}

func TestIntervalValidation(t *testing.T) {
	_, err := NewWeekly([]Weekday{Monday}, 0, nil)
	assert.Error(t, err)

	_, err = NewDaily(-1, nil)
	assert.Error(t, err)

	_, err = NewMonthly(5, 0, nil)
	assert.Error(t, err)

	_, err = NewYearly(0, nil)
	assert.Error(t, err)
}

func TestMonthDayValidation(t *testing.T) {
	_, err := NewMonthly(32, 1, nil)
	assert.Error(t, err)

	_, err = NewMonthly(-1, 1, nil)
	assert.Error(t, err)
}
