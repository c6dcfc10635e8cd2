// Package calendar turns instants into calendar days for a fixed time zone.
//
// WHY A FIXED ZONE?
// A mood is limited to one per user per day, so the server needs a single
// answer to "what day is it?". Asking time.Now().Day() gives the day in
// whatever zone the process happens to run in, which changes when the
// container moves. Every day computation goes through one *time.Location
// (APP_TIMEZONE) instead.
//
// "Today" is the half-open range Bounds(now) returns:
//
//	start  2024-03-10 00:00  (inclusive)
//	end    2024-03-11 00:00  (exclusive, first instant of tomorrow)
//
// Day keys are stored as "2006-01-02" strings next to each mood. A string
// compares and indexes the same way in SQLite and Postgres, and the unique
// (user_id, day) index does the once-per-day check for us.
//
// DST NOTE:
// The start of a day is built with time.Date in the zone and the end with
// AddDate, never Add(24 * time.Hour). A day on a DST change is 23 or 25
// hours long.
package calendar

import (
	"fmt"
	"time"
)

// DayLayout is the format of day keys stored alongside moods.
const DayLayout = "2006-01-02"

// Calendar computes day keys and boundaries in one location.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Calendar for loc. A nil loc means the server's local zone.
func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc, now: time.Now}
}

// Load builds a Calendar from an IANA zone name ("Europe/Berlin"). An empty
// name or "Local" selects the server's local zone.
func Load(name string) (*Calendar, error) {
	if name == "" || name == "Local" {
		return New(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("calendar: loading time zone %q: %w", name, err)
	}
	return New(loc), nil
}

// WithClock returns a copy of c that reads the current time from now.
// Tests use it to pin "today".
func (c *Calendar) WithClock(now func() time.Time) *Calendar {
	return &Calendar{loc: c.loc, now: now}
}

// Location returns the zone days are computed in.
func (c *Calendar) Location() *time.Location { return c.loc }

// Now returns the current instant.
func (c *Calendar) Now() time.Time { return c.now() }

// DayKey returns the YYYY-MM-DD day t falls on.
func (c *Calendar) DayKey(t time.Time) string {
	return t.In(c.loc).Format(DayLayout)
}

// Today returns the day key for the current instant.
func (c *Calendar) Today() string {
	return c.DayKey(c.now())
}

// Bounds returns the start of t's day and the start of the following day.
// Days are not always 24h long across DST changes, so the end is computed
// with AddDate rather than Add.
func (c *Calendar) Bounds(t time.Time) (start, end time.Time) {
	lt := t.In(c.loc)
	start = time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, c.loc)
	end = start.AddDate(0, 0, 1)
	return start, end
}

// EndOfToday returns the first instant after today.
func (c *Calendar) EndOfToday() time.Time {
	_, end := c.Bounds(c.now())
	return end
}
