package domain

import "time"

// Day truncates t to its calendar day in t's own location. All schedule
// dates are compared as local calendar days, never as UTC midnights.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// NextDay returns the calendar day after t.
func NextDay(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, 1)
}

// EndOfDay returns the first instant of the day after t, i.e. the
// exclusive upper bound of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return NextDay(t)
}
