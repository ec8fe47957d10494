package availability

import (
	"massobook/models"
)

// GenerateRawSlots lists the one-hour slots of date under policy, in local time.
// A closed weekday yields no slots. A slot is produced only when it ends by
// closing time, so a 08:00-19:30 window ends with the 18:00 slot.
func GenerateRawSlots(date models.CivilDate, policy models.WeeklyPolicy) []models.SlotCandidate {
	window, open := policy.Window(date.Weekday())
	if !open {
		return nil
	}

	step := models.TimeOfDay(models.SlotDuration.Minutes())
	var slots []models.SlotCandidate
	for start := window.Start; start+step <= window.End; start += step {
		slots = append(slots, models.SlotCandidate{Date: date, Start: start})
	}
	return slots
}

// AnchorToUTC fills in the absolute [StartUTC, EndUTC) of each slot.
func AnchorToUTC(slots []models.SlotCandidate, tz *TimezoneConverter) []models.SlotCandidate {
	out := make([]models.SlotCandidate, len(slots))
	for i, s := range slots {
		s.StartUTC = tz.ToUTC(s.Date, s.Start)
		s.EndUTC = s.StartUTC.Add(models.SlotDuration)
		out[i] = s
	}
	return out
}
