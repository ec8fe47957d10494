package models

import (
	"fmt"
	"time"
)

// DayWindow is the working window of one weekday, in provider-local civil time.
type DayWindow struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// WeeklyPolicy maps each weekday to its working window; a nil entry means closed.
// Values are built once at startup and never mutated.
type WeeklyPolicy struct {
	days [7]*DayWindow
}

// NewWeeklyPolicy validates the windows (start < end) and returns an immutable policy.
func NewWeeklyPolicy(windows map[time.Weekday]DayWindow) (WeeklyPolicy, error) {
	var p WeeklyPolicy
	for day, w := range windows {
		if day < time.Sunday || day > time.Saturday {
			return WeeklyPolicy{}, fmt.Errorf("weekday %d out of range", day)
		}
		if w.Start < 0 || w.End > 24*60 || w.Start >= w.End {
			return WeeklyPolicy{}, fmt.Errorf("%s: window %s-%s must have start before end", day, w.Start, w.End)
		}
		p.days[day] = &w
	}
	return p, nil
}

// DefaultWeeklyPolicy is the provider's standard week.
func DefaultWeeklyPolicy() WeeklyPolicy {
	p, _ := NewWeeklyPolicy(map[time.Weekday]DayWindow{
		time.Monday:    {Start: 15*60 + 30, End: 19*60 + 30},
		time.Tuesday:   {Start: 8 * 60, End: 19*60 + 30},
		time.Wednesday: {Start: 8 * 60, End: 12 * 60},
		time.Thursday:  {Start: 8 * 60, End: 12 * 60},
		time.Friday:    {Start: 8 * 60, End: 19*60 + 30},
		time.Saturday:  {Start: 9 * 60, End: 12 * 60},
	})
	return p
}

// Window returns a copy of the day's window and whether the provider works that day.
func (p WeeklyPolicy) Window(day time.Weekday) (DayWindow, bool) {
	if day < time.Sunday || day > time.Saturday || p.days[day] == nil {
		return DayWindow{}, false
	}
	return *p.days[day], true
}
