package domain

import (
	"strings"
	"time"
)

// DateLayout is the only accepted wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf returns the civil date of t in its own location, as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts a calendar date by whole days.
func AddDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}

// Clock yields the current calendar date in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock builds a Clock; a nil location means time.Local and a nil now means time.Now.
func NewClock(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// FixedClock always reports the given date. Used by tests.
func FixedClock(date time.Time) *Clock {
	return NewClock(time.UTC, func() time.Time { return date })
}

// Today returns the current calendar date.
func (c *Clock) Today() time.Time {
	if c == nil {
		return DateOf(time.Now())
	}
	return DateOf(c.now().In(c.loc))
}

// Now returns the current instant.
func (c *Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c.now()
}
