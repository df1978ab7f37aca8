// Package clock centralizes the notion of "today" used for review scheduling.
//
// Dates are day-granular: a date is represented as midnight UTC carrying the
// calendar day observed in the clock's location.
package clock

import (
	"time"
)

// DateLayout is the storage and wire format for calendar dates.
const DateLayout = "2006-01-02"

// Clock supplies the current calendar day.
type Clock interface {
	Today() time.Time
	Now() time.Time
}

// System reads the wall clock in a fixed location.
type System struct {
	loc *time.Location
}

// NewSystem returns a clock for the named IANA zone ("" or "UTC" for UTC, "Local" for the host zone).
func NewSystem(zone string) (*System, error) {
	if zone == "" {
		zone = "UTC"
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	return &System{loc: loc}, nil
}

func (s *System) Now() time.Time {
	return time.Now()
}

func (s *System) Today() time.Time {
	return Date(time.Now().In(s.loc))
}

// Fixed always reports the same instant. Used in tests.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time   { return f.At }
func (f Fixed) Today() time.Time { return Date(f.At) }

// Date truncates t to its calendar day, keeping the day as seen in t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays moves a date forward by n calendar days.
func AddDays(date time.Time, n int) time.Time {
	return Date(date).AddDate(0, 0, n)
}

// Format renders a date in DateLayout.
func Format(date time.Time) string {
	return Date(date).Format(DateLayout)
}

// Parse reads a date in DateLayout.
func Parse(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
