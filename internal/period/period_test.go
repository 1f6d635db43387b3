package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolve(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		start, end  string
		defaultDays int
		wantStart   string
		wantEnd     string
	}{
		{
			name:        "both absent defaults to trailing window ending today",
			defaultDays: 30,
			wantStart:   "2025-05-17",
			wantEnd:     "2025-06-15",
		},
		{
			name:        "seven day default",
			defaultDays: 7,
			wantStart:   "2025-06-09",
			wantEnd:     "2025-06-15",
		},
		{
			name:        "explicit range passes through verbatim",
			start:       "2025-01-01",
			end:         "2025-01-31",
			defaultDays: 30,
			wantStart:   "2025-01-01",
			wantEnd:     "2025-01-31",
		},
		{
			name:        "inverted range is not corrected",
			start:       "2025-03-10",
			end:         "2025-03-01",
			defaultDays: 30,
			wantStart:   "2025-03-10",
			wantEnd:     "2025-03-01",
		},
		{
			name:        "malformed start falls back relative to explicit end",
			start:       "not-a-date",
			end:         "2025-02-10",
			defaultDays: 7,
			wantStart:   "2025-02-04",
			wantEnd:     "2025-02-10",
		},
		{
			name:        "malformed end falls back to today",
			start:       "2025-06-01",
			end:         "06/15/2025",
			defaultDays: 7,
			wantStart:   "2025-06-01",
			wantEnd:     "2025-06-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Resolve(tt.start, tt.end, tt.defaultDays, now)
			require.Equal(t, tt.wantStart, w.StartDate())
			require.Equal(t, tt.wantEnd, w.EndDate())
		})
	}
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		name      string
		window    Window
		wantStart string
		wantEnd   string
	}{
		{
			name:      "seven day window",
			window:    Window{Start: day("2025-01-10"), End: day("2025-01-16")},
			wantStart: "2025-01-03",
			wantEnd:   "2025-01-09",
		},
		{
			name:      "single day window",
			window:    Window{Start: day("2025-01-10"), End: day("2025-01-10")},
			wantStart: "2025-01-09",
			wantEnd:   "2025-01-09",
		},
		{
			name:      "window crossing a month boundary",
			window:    Window{Start: day("2025-03-01"), End: day("2025-03-31")},
			wantStart: "2025-01-29",
			wantEnd:   "2025-02-28",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Previous(tt.window)
			require.Equal(t, tt.wantStart, prev.StartDate())
			require.Equal(t, tt.wantEnd, prev.EndDate())

			// invariants: identical day-count, ends the day before, disjoint
			require.Equal(t, tt.window.Days(), prev.Days())
			require.Equal(t, tt.window.Start.AddDate(0, 0, -1), prev.End)
			require.True(t, prev.End.Before(tt.window.Start))
		})
	}
}

func TestWindowDays(t *testing.T) {
	require.Equal(t, 1, Window{Start: day("2025-01-01"), End: day("2025-01-01")}.Days())
	require.Equal(t, 31, Window{Start: day("2025-01-01"), End: day("2025-01-31")}.Days())
	require.Equal(t, 366, Window{Start: day("2024-01-01"), End: day("2024-12-31")}.Days())
}

func TestTruncate(t *testing.T) {
	ts := time.Date(2025, 6, 15, 23, 59, 59, 999, time.FixedZone("CEST", 2*3600))
	got := Truncate(ts)
	require.Equal(t, "2025-06-15", got.Format(DayFormat))
	require.Equal(t, time.UTC, got.Location())
}
