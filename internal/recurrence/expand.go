package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// maxOccurrences bounds expansion so that a misconfigured window cannot
// produce an unbounded occurrence list.
const maxOccurrences = 5000

// Occurrences expands a rule anchored at dtstart into the concrete
// occurrence times inside [from, to], inclusive on both ends.
//
// The rule's own RRULE serialization is fed through the rrule engine,
// so this doubles as a validity check on the produced syntax. Floating
// UNTIL values are interpreted in dtstart's location.
func Occurrences(r *Rule, dtstart, from, to time.Time) ([]time.Time, error) {
	if r == nil {
		return nil, errors.New("recurrence: nil rule")
	}
	if to.Before(from) {
		return nil, errors.New("recurrence: range end is before range start")
	}

	opt, err := rrule.StrToROptionInLocation(r.RRule(), dtstart.Location())
	if err != nil {
		return nil, fmt.Errorf("recurrence: parse %q: %w", r.RRule(), err)
	}
	rr, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("recurrence: build %q: %w", r.RRule(), err)
	}
	rr.DTStart(dtstart)

	// Walk the iterator instead of Between so the cap bounds the
	// enumeration itself, not just the returned slice.
	var occ []time.Time
	next := rr.Iterator()
	for {
		o, ok := next()
		if !ok || o.After(to) {
			break
		}
		if o.Before(from) {
			continue
		}
		occ = append(occ, o)
		if len(occ) == maxOccurrences {
			break
		}
	}
	return occ, nil
}
