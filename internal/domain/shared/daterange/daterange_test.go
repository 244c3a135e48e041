package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsReversedBounds(t *testing.T) {
	_, err := New(date(2026, time.March, 10), date(2026, time.March, 9))
	require.ErrorIs(t, err, ErrEndBeforeStart)
}

func TestNewStripsTimeOfDay(t *testing.T) {
	start := time.Date(2026, time.March, 10, 15, 4, 5, 0, time.UTC)
	end := time.Date(2026, time.March, 12, 23, 59, 59, 0, time.UTC)

	r, err := New(start, end)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.March, 10), r.Start)
	assert.Equal(t, date(2026, time.March, 12), r.End)
}

func TestNewNormalizesZone(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	start := time.Date(2026, time.March, 10, 2, 0, 0, 0, loc)

	r, err := New(start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	// 02:00 at UTC+5 is still March 9 in UTC.
	assert.Equal(t, date(2026, time.March, 9), r.Start)
}

func TestDays(t *testing.T) {
	r, err := New(date(2026, time.March, 10), date(2026, time.March, 13))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Days())

	same, err := New(date(2026, time.March, 10), date(2026, time.March, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, same.Days())
}

func TestOverlaps(t *testing.T) {
	base, err := New(date(2026, time.March, 10), date(2026, time.March, 13))
	require.NoError(t, err)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{name: "inside", start: date(2026, time.March, 11), end: date(2026, time.March, 12), want: true},
		{name: "straddles start", start: date(2026, time.March, 8), end: date(2026, time.March, 11), want: true},
		{name: "straddles end", start: date(2026, time.March, 12), end: date(2026, time.March, 15), want: true},
		{name: "contains", start: date(2026, time.March, 9), end: date(2026, time.March, 14), want: true},
		{name: "touches at end", start: date(2026, time.March, 13), end: date(2026, time.March, 15), want: false},
		{name: "touches at start", start: date(2026, time.March, 8), end: date(2026, time.March, 10), want: false},
		{name: "disjoint", start: date(2026, time.April, 1), end: date(2026, time.April, 3), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := New(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, base.Overlaps(other))
			assert.Equal(t, tt.want, other.Overlaps(base))
		})
	}
}
