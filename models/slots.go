package models

import "time"

// SlotDuration is the fixed length of every bookable slot.
const SlotDuration = time.Hour

// SlotCandidate is a one-hour interval on a civil date, identified by its local start time.
// StartUTC/EndUTC are filled in once the date's UTC offset has been resolved.
type SlotCandidate struct {
	Date     CivilDate `json:"-"`
	Start    TimeOfDay `json:"start"`
	StartUTC time.Time `json:"startUtc"`
	EndUTC   time.Time `json:"endUtc"`
}

// BusyInterval is an absolute UTC [Start, End) range already occupied on the provider's calendar.
type BusyInterval struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	AllDay bool      `json:"allDay,omitempty"`
	Source string    `json:"source,omitempty"` // calendar event id, when known
}

// Overlaps reports whether the half-open ranges [start, end) and [b.Start, b.End) intersect.
// Touching endpoints do not count.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && b.End.After(start)
}

// AvailableSlotsResponse is the success body of the slots endpoint.
type AvailableSlotsResponse struct {
	Slots []string `json:"slots"`
}
