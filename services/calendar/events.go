package calendar

import (
	"fmt"
	"time"

	"massobook/models"

	gcalendar "google.golang.org/api/calendar/v3"
)

// toBusyInterval normalizes a Google event into a UTC busy interval.
// Timed events keep their instants; all-day events cover
// [00:00Z of the start date, 00:00Z of the exclusive end date).
// Cancelled events are skipped. Events whose times cannot be read are reported as errors
// so that an unreadable commitment never turns into a free slot.
func toBusyInterval(e *gcalendar.Event) (models.BusyInterval, bool, error) {
	if e == nil || e.Status == statusCancelled {
		return models.BusyInterval{}, false, nil
	}
	if e.Start == nil {
		return models.BusyInterval{}, false, fmt.Errorf("event %s has no start", e.Id)
	}

	if e.Start.DateTime != "" {
		start, err := time.Parse(time.RFC3339, e.Start.DateTime)
		if err != nil {
			return models.BusyInterval{}, false, fmt.Errorf("event %s: start: %w", e.Id, err)
		}
		end := start
		if e.End != nil && e.End.DateTime != "" {
			end, err = time.Parse(time.RFC3339, e.End.DateTime)
			if err != nil {
				return models.BusyInterval{}, false, fmt.Errorf("event %s: end: %w", e.Id, err)
			}
		}
		return models.BusyInterval{Start: start.UTC(), End: end.UTC(), Source: e.Id}, true, nil
	}

	if e.Start.Date != "" {
		start, err := time.Parse(models.DateLayout, e.Start.Date)
		if err != nil {
			return models.BusyInterval{}, false, fmt.Errorf("event %s: start date: %w", e.Id, err)
		}
		end := start.Add(24 * time.Hour)
		if e.End != nil && e.End.Date != "" {
			if parsed, err := time.Parse(models.DateLayout, e.End.Date); err == nil && parsed.After(start) {
				end = parsed
			}
		}
		return models.BusyInterval{Start: start, End: end, AllDay: true, Source: e.Id}, true, nil
	}

	return models.BusyInterval{}, false, fmt.Errorf("event %s has neither dateTime nor date", e.Id)
}

func toGoogleEvent(d EventDraft) *gcalendar.Event {
	ev := &gcalendar.Event{
		Summary:     d.Summary,
		Description: d.Description,
		Status:      d.Status,
		Start: &gcalendar.EventDateTime{
			DateTime: d.Start.UTC().Format(time.RFC3339),
			TimeZone: d.TimeZone,
		},
		End: &gcalendar.EventDateTime{
			DateTime: d.End.UTC().Format(time.RFC3339),
			TimeZone: d.TimeZone,
		},
	}
	if len(d.Private) > 0 {
		ev.ExtendedProperties = &gcalendar.EventExtendedProperties{Private: d.Private}
	}
	return ev
}
