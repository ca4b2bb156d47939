package core

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire and as the day label in storage.
const DateLayout = "2006-01-02"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// ParseDate reads a calendar date given either as YYYY-MM-DD or as an RFC 3339 timestamp.
// The date written in the string is kept, so "2024-03-01T23:30:00-05:00" is March 1st.
// The returned time is midnight UTC of that date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339Nano, s)
		if tsErr != nil {
			return time.Time{}, err
		}
		t = ts
	}
	return StartOfDay(t), nil
}

// StartOfDay returns midnight UTC of the calendar date of t, in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable millisecond of the calendar date of t, in UTC.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}
