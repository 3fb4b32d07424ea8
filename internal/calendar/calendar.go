// Package calendar holds the wall-clock and local-calendar rules the rest of
// chronomark depends on, so tests can pin a date without touching the real clock.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Clock is the current time source.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports T. Used by tests and previews.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Calendar applies local calendar rules (day, week and month boundaries) in Loc.
// The zero value uses time.Local.
type Calendar struct {
	Loc *time.Location
}

// Local returns a Calendar bound to the system's local zone.
func Local() Calendar {
	return Calendar{Loc: time.Local}
}

func (c Calendar) location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

// In converts t into the calendar's zone.
func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.location())
}

// StartOfDay returns 00:00:00.000 of t's calendar day.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	t = c.In(t)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day.
func (c Calendar) EndOfDay(t time.Time) time.Time {
	t = c.In(t)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), c.location())
}

// SameDay reports whether a and b fall on the same calendar day.
func (c Calendar) SameDay(a, b time.Time) bool {
	ay, am, ad := c.In(a).Date()
	by, bm, bd := c.In(b).Date()
	return ay == by && am == bm && ad == bd
}

// WeekStart returns the Monday 00:00 of the week containing t.
func (c Calendar) WeekStart(t time.Time) time.Time {
	day := c.StartOfDay(t)
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7 // Sunday closes the week
	}
	return day.AddDate(0, 0, -(wd - 1))
}

// MonthStart returns the first day of t's month at 00:00.
func (c Calendar) MonthStart(t time.Time) time.Time {
	t = c.In(t)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, c.location())
}

// YearStart returns January 1st of t's year at 00:00.
func (c Calendar) YearStart(t time.Time) time.Time {
	t = c.In(t)
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, c.location())
}

// DaysInMonth returns the number of days in t's month.
func (c Calendar) DaysInMonth(t time.Time) int {
	return c.MonthStart(t).AddDate(0, 1, -1).Day()
}

// At combines the calendar day of date with an hour and minute.
func (c Calendar) At(date time.Time, hour, minute int) time.Time {
	d := c.In(date)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, c.location())
}

// MinuteOfDay returns hour*60+minute of t in the calendar's zone.
func (c Calendar) MinuteOfDay(t time.Time) int {
	t = c.In(t)
	return t.Hour()*60 + t.Minute()
}

// ErrBadClock is returned by ParseHHMM for anything that is not a valid 24h time.
var ErrBadClock = errors.New("invalid HH:MM time")

// ParseHHMM parses "HH:MM" (00:00 to 23:59).
func ParseHHMM(s string) (hour, minute int, err error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	hour, err = strconv.Atoi(hs)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	minute, err = strconv.Atoi(ms)
	if err != nil || minute < 0 || minute > 59 || len(ms) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return hour, minute, nil
}

// FormatHHMM formats t as zero-padded "HH:MM".
func FormatHHMM(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// FormatMinute formats a minute-of-day as "HH:MM".
func FormatMinute(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

// FormatDuration formats seconds as "1h 40m", "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// NewID returns a fresh entry identity.
func NewID() string {
	return uuid.NewString()
}
