package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of a civil date ("YYYY-MM-DD").
const DateLayout = "2006-01-02"

// CivilDate is a calendar date with no time-of-day or zone component.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseCivilDate parses a strict "YYYY-MM-DD" string and rejects impossible dates.
func ParseCivilDate(s string) (CivilDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CivilDate{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("date %q is not in YYYY-MM-DD format", s)
	}
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// CivilDateOf returns the civil date of t as seen in t's own location.
func CivilDateOf(t time.Time) CivilDate {
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// In returns the instant at which the date starts (00:00) in loc.
func (d CivilDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d CivilDate) Weekday() time.Weekday {
	return d.In(time.UTC).Weekday()
}

func (d CivilDate) AddDays(n int) CivilDate {
	return CivilDateOf(d.In(time.UTC).AddDate(0, 0, n))
}

func (d CivilDate) Before(other CivilDate) bool {
	return d.In(time.UTC).Before(other.In(time.UTC))
}

func (d CivilDate) After(other CivilDate) bool {
	return other.Before(d)
}

func (d CivilDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a civil time of day, in minutes from local midnight (e.g. 480 for 08:00).
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (24h clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("time %q is not in HH:MM format", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q has invalid minutes", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Duration is the offset of t from local midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
