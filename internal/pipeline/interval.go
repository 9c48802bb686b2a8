package pipeline

import "time"

const secondsPerDay = 24 * 60 * 60

// calendarDay drops the clock part of t, keeping the date as seen in t's own location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WithinDays reports whether t falls on a calendar day in [start, end].
// An inverted window (end before start) contains nothing.
func WithinDays(t, start, end time.Time) bool {
	day := calendarDay(t)
	return !day.Before(calendarDay(start)) && !day.After(calendarDay(end))
}

// AfterDay reports whether t falls on a calendar day strictly after ref.
func AfterDay(t, ref time.Time) bool {
	return calendarDay(t).After(calendarDay(ref))
}

// DaysBetween returns the whole calendar-day difference from -> to.
// Negative when to is before from.
func DaysBetween(from, to time.Time) int {
	// Unix seconds rather than Sub: a Duration saturates near 292 years.
	return int((calendarDay(to).Unix() - calendarDay(from).Unix()) / secondsPerDay)
}
