package domain

import (
	"fmt"
	"time"
)

// Period is a named relative time window resolved against the reporting
// timezone. The zero value is not valid; use ParsePeriod.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod maps a query-string value to a Period.
// The empty string means "all" (no lower bound). Unknown values return
// ErrInvalidPeriod; endpoints fall back to their documented default.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(s), nil
	case "":
		return PeriodAll, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
}

// Window is a half-open time interval [Start, End). A zero Start means the
// window has no lower bound.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	return t.Before(w.End)
}

// Unbounded reports whether the window has no lower bound ("all" period).
func (w Window) Unbounded() bool {
	return w.Start.IsZero()
}

// Resolve computes the concrete [start, end) window for the period anchored
// to now in the reporting timezone loc. End is always now. The function is
// pure: same inputs, same window.
//
// Start rules, all in civil time of loc:
//   - today: start of the current calendar day
//   - week:  start of the calendar day 7 days ago (day-aligned so the window
//     spans a clean multiple of days)
//   - month: now minus 1 calendar month
//   - year:  now minus 1 calendar year
//   - all:   no lower bound (zero Start)
func (p Period) Resolve(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	w := Window{End: now}

	switch p {
	case PeriodToday:
		w.Start = startOfDay(local)
	case PeriodWeek:
		w.Start = startOfDay(local.AddDate(0, 0, -7))
	case PeriodMonth:
		w.Start = local.AddDate(0, -1, 0)
	case PeriodYear:
		w.Start = local.AddDate(-1, 0, 0)
	case PeriodAll:
		// zero Start, unbounded
	}
	return w
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
