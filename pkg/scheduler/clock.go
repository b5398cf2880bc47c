package scheduler

import (
	"strconv"
	"strings"
	"time"

	"github.com/stallbacken/stallplan/pkg/models"
)

// DateLayout is the calendar-date form shifts arrive in.
const DateLayout = "2006-01-02"

// ParseShiftDate parses a shift's date field. Plain calendar dates are
// the norm; RFC 3339 timestamps occur in older exports and are accepted
// too. ok is false when neither form matches.
func ParseShiftDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if d, err := time.Parse(DateLayout, raw); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, raw); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// SameISOWeek reports whether two dates fall in the same ISO 8601 week.
func SameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// shiftStart extracts the start clock from an encoded "HH:MM-HH:MM"
// shift time range.
func shiftStart(timeRange string) (int, bool) {
	start, _, found := strings.Cut(timeRange, "-")
	if !found {
		return 0, false
	}
	return parseClock(start)
}

// windowContains reports whether a weekly window covers the given
// day-of-week and start clock. The clock check is [start, end): a shift
// starting exactly at the window's end is outside it.
func windowContains(w models.TimeWindow, dayOfWeek, startMinutes int) bool {
	if w.DayOfWeek != dayOfWeek {
		return false
	}
	lo, ok := parseClock(w.Start)
	if !ok {
		return false
	}
	hi, ok := parseClock(w.End)
	if !ok {
		return false
	}
	return startMinutes >= lo && startMinutes < hi
}
