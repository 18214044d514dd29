package scoring

import "time"

const dateLayout = "2006-01-02"

// HolidaySet holds dates excluded from working-day counts. The weekend
// convention (Saturday and Sunday non-working) is fixed; holidays are
// injected by the caller.
type HolidaySet struct {
	dates map[string]struct{}
}

// NewHolidaySet creates a holiday set from the given dates. Time-of-day
// and location are ignored; only the calendar date matters.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := HolidaySet{dates: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		set.dates[d.Format(dateLayout)] = struct{}{}
	}
	return set
}

// Contains reports whether the date is in the set.
func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h.dates[t.Format(dateLayout)]
	return ok
}

// Len returns the number of dates in the set.
func (h HolidaySet) Len() int {
	return len(h.dates)
}

// IsWorkingDay reports whether the date is a working day: not a Saturday,
// not a Sunday, and not in the holiday set.
func IsWorkingDay(t time.Time, holidays HolidaySet) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(t)
}

// WorkingDaysBetween counts working days strictly after from, up to and
// including to. It returns 0 when to is on or before from.
func WorkingDaysBetween(from, to time.Time, holidays HolidaySet) int {
	from = truncateToDate(from)
	to = truncateToDate(to)

	days := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWorkingDay(d, holidays) {
			days++
		}
	}
	return days
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
