// Package submission filters, totals and pages a candidate's submission
// records against named date windows.
package submission

import "time"

// Filter tokens accepted by Window
const (
	LastWeek    = "last-week"
	ThisMonth   = "this-month"
	LastMonth   = "last-month"
	LastSixMons = "last-6-months"
	DateRange   = "date-range"
)

// Range is an inclusive [Start, End] window. An invalid range matches nothing.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether both boundaries were supplied
func (r Range) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Contains reports start <= t <= end
func (r Range) Contains(t time.Time) bool {
	if !r.Valid() {
		return false
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// Window computes the date range for a filter token evaluated at now.
// from and to are only read for DateRange and are used unchanged.
// Unknown tokens behave like ThisMonth.
func Window(token string, now time.Time, from, to time.Time) Range {
	loc := now.Location()
	y, m, _ := now.Date()

	switch token {
	case LastWeek:
		return Range{Start: now.AddDate(0, 0, -7), End: now}
	case LastMonth:
		return monthRange(y, m-1, loc)
	case LastSixMons:
		start := now.AddDate(0, -6, 0)
		sy, sm, sd := start.Date()
		return Range{Start: time.Date(sy, sm, sd, 0, 0, 0, 0, loc), End: now}
	case DateRange:
		return Range{Start: from, End: to}
	default:
		return monthRange(y, m, loc)
	}
}

// monthRange spans the first day 00:00:00 to the last day 23:59:59.
// time.Date normalizes month 0 to December of the previous year.
func monthRange(y int, m time.Month, loc *time.Location) Range {
	return Range{
		Start: time.Date(y, m, 1, 0, 0, 0, 0, loc),
		End:   time.Date(y, m+1, 0, 23, 59, 59, 0, loc),
	}
}

// KnownToken reports whether token is one of the named filters
func KnownToken(token string) bool {
	switch token {
	case LastWeek, ThisMonth, LastMonth, LastSixMons, DateRange:
		return true
	}
	return false
}
