package daterange

import (
	"errors"
	"time"
)

var ErrEndBeforeStart = errors.New("daterange: end date precedes start date")

// DateRange is a date-only interval. Both bounds are normalized to midnight
// UTC; construct values through New so the ordering invariant always holds.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// New validates that end does not precede start and strips any time-of-day
// component from both bounds.
func New(start, end time.Time) (DateRange, error) {
	s := truncateToDate(start)
	e := truncateToDate(end)
	if e.Before(s) {
		return DateRange{}, ErrEndBeforeStart
	}
	return DateRange{Start: s, End: e}, nil
}

// Days returns the length in whole days. A same-day range has length zero;
// pricing treats this as a night count, not a calendar-day count.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start) / (24 * time.Hour))
}

// Overlaps reports whether two ranges share at least one night. Ranges that
// merely touch at a boundary (one ends the day the other starts) do not
// overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
