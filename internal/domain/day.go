package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the wire format of a planning day.
const DayLayout = "2006-01-02"

// The planning day as a half-open time window [Start, End).
type DayWindow struct {
	Day   string
	Start time.Time
	End   time.Time
}

// ParseDay parses a YYYY-MM-DD day in the given location.
// A nil location means UTC.
func ParseDay(day string, loc *time.Location) (DayWindow, error) {
	if loc == nil {
		loc = time.UTC
	}

	day = strings.TrimSpace(day)
	start, err := time.ParseInLocation(DayLayout, day, loc)
	if err != nil {
		return DayWindow{}, fmt.Errorf("parse day %q: expected YYYY-MM-DD: %w", day, err)
	}

	return DayWindow{
		Day:   start.Format(DayLayout),
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}, nil
}

// Intersects reports whether [from, to] overlaps the day.
// A zero bound is treated as open on that side.
func (d DayWindow) Intersects(from, to time.Time) bool {
	if !from.IsZero() && !from.Before(d.End) {
		return false
	}
	if !to.IsZero() && to.Before(d.Start) {
		return false
	}
	return true
}
