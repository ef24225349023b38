package util

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in config and report labels.
const DateLayout = "2006-01-02"

// MonthLayout is the year-month label format of monthly buckets.
const MonthLayout = "2006-01"

// DateRange is an inclusive range of calendar days. Start and End are
// midnight of their day in the range's location.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Label returns the year-month of the range start.
func (r DateRange) Label() string {
	return r.Start.Format(MonthLayout)
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Day truncates t to midnight of its calendar day, keeping its location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last second of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, 1).Add(-time.Second)
}

// MonthRanges partitions [from, to] into calendar-month ranges. The first
// range starts on from and the last one ends on to; every range in between
// covers a whole month. Returns nil when from is after to.
func MonthRanges(from, to time.Time) []DateRange {
	from, to = Day(from), Day(to.In(from.Location()))
	if from.After(to) {
		return nil
	}

	var out []DateRange
	start := from
	for !start.After(to) {
		// first day of the next month, minus one day
		next := time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, start.Location())
		end := next.AddDate(0, 0, -1)
		if end.After(to) {
			end = to
		}
		out = append(out, DateRange{Start: start, End: end})
		start = next
	}
	return out
}
