// Package period resolves raw date-range parameters into concrete UTC
// calendar-day windows, plus the same-length immediately-preceding window
// used for period-over-period comparison.
package period

import "time"

// DayFormat is the wire format for calendar dates.
const DayFormat = "2006-01-02"

// Window is an inclusive [Start, End] range of UTC calendar days. Both
// bounds are midnight-aligned. An inverted window (Start after End) is
// legal and yields empty aggregates downstream rather than an error.
type Window struct {
	Start time.Time
	End   time.Time
}

// Resolve parses the raw start/end parameters. Absent or malformed values
// fall back to a trailing window of defaultDays ending today (UTC).
func Resolve(start, end string, defaultDays int, now time.Time) Window {
	today := Truncate(now)

	endT, err := time.Parse(DayFormat, end)
	if err != nil {
		endT = today
	}

	startT, err := time.Parse(DayFormat, start)
	if err != nil {
		startT = endT.AddDate(0, 0, -(defaultDays - 1))
	}

	return Window{Start: startT, End: endT}
}

// Previous returns the comparison window: identical day-count,
// non-overlapping, ending the day before w starts.
func Previous(w Window) Window {
	days := w.Days()
	return Window{
		Start: w.Start.AddDate(0, 0, -days),
		End:   w.Start.AddDate(0, 0, -1),
	}
}

// Days is the inclusive day-count of the window.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// StartDate formats the window start as YYYY-MM-DD.
func (w Window) StartDate() string {
	return w.Start.Format(DayFormat)
}

// EndDate formats the window end as YYYY-MM-DD.
func (w Window) EndDate() string {
	return w.End.Format(DayFormat)
}

// Truncate drops t to its UTC calendar date.
func Truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
