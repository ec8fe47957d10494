package calendar

import (
	"context"
	"time"

	"massobook/models"
)

const (
	// ScopeReadOnly is enough to list events for availability.
	ScopeReadOnly = "https://www.googleapis.com/auth/calendar.events.readonly"
	// ScopeReadWrite is needed to create booking events.
	ScopeReadWrite = "https://www.googleapis.com/auth/calendar.events"

	StatusTentative = "tentative"
	statusCancelled = "cancelled"
)

// EventDraft is a calendar event to be created for a booking.
type EventDraft struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Status      string
	Private     map[string]string
}

// CreatedEvent identifies an event stored on the remote calendar.
type CreatedEvent struct {
	ID       string
	HTMLLink string
}

// Gateway is the provider's remote calendar: read for availability, write for bookings.
type Gateway interface {
	BusyIntervals(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error)
	CreateEvent(ctx context.Context, draft EventDraft) (CreatedEvent, error)
}
