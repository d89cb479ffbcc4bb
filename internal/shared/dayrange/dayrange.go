// Package dayrange turns calendar days into inclusive timestamp ranges.
package dayrange

import (
	"errors"
	"strings"
	"time"
)

const Layout = "2006-01-02"

var ErrInvalidDay = errors.New("day must use the YYYY-MM-DD format")

// Bounds returns the first and last instant of the day containing t in loc.
// Both ends are inclusive.
func Bounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// Parse reads a YYYY-MM-DD day in loc. An empty value means the day of now.
func Parse(raw string, loc *time.Location, now time.Time) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.In(loc), nil
	}
	day, err := time.ParseInLocation(Layout, raw, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return day, nil
}

// StartOfDay is the first instant of the day containing t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	start, _ := Bounds(t, loc)
	return start
}
