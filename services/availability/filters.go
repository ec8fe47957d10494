package availability

import (
	"time"

	"massobook/models"
)

// FilterConflicts drops every slot that overlaps at least one busy interval.
func FilterConflicts(slots []models.SlotCandidate, busy []models.BusyInterval) []models.SlotCandidate {
	if len(busy) == 0 {
		return slots
	}
	kept := make([]models.SlotCandidate, 0, len(slots))
	for _, s := range slots {
		if !overlapsAny(s, busy) {
			kept = append(kept, s)
		}
	}
	return kept
}

func overlapsAny(s models.SlotCandidate, busy []models.BusyInterval) bool {
	for _, b := range busy {
		if b.Overlaps(s.StartUTC, s.EndUTC) {
			return true
		}
	}
	return false
}

// FilterPast drops slots that have already started. Dates after the provider's
// current local date are returned untouched.
func FilterPast(slots []models.SlotCandidate, date models.CivilDate, now time.Time, tz *TimezoneConverter) []models.SlotCandidate {
	if date.After(tz.Today(now)) {
		return slots
	}
	kept := make([]models.SlotCandidate, 0, len(slots))
	for _, s := range slots {
		if s.StartUTC.After(now) {
			kept = append(kept, s)
		}
	}
	return kept
}

// FormatLabels renders the slots as ascending local "HH:MM" labels.
func FormatLabels(slots []models.SlotCandidate, tz *TimezoneConverter) []string {
	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, tz.ToLocal(s.Date, s.StartUTC).String())
	}
	return labels
}
