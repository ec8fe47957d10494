package booking

import (
	"fmt"
	"strings"

	"massobook/models"
	"massobook/services/availability"
	"massobook/services/calendar"
)

const DefaultSummaryPrefix = "DA CONFERMARE"

// BuildEvent turns a booking into a tentative one-hour event. The instant comes
// from the same converter the availability path uses, so a booked label maps to
// the exact slot that was offered.
func BuildEvent(record models.BookingRecord, tz *availability.TimezoneConverter, prefix string) calendar.EventDraft {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultSummaryPrefix
	}
	start := tz.ToUTC(record.Date, record.Start)

	return calendar.EventDraft{
		Summary:     fmt.Sprintf("%s: prestazione %s %s", prefix, record.Name, record.Surname),
		Description: describe(record),
		Start:       start,
		End:         start.Add(models.SlotDuration),
		TimeZone:    tz.Location().String(),
		Status:      calendar.StatusTentative,
		Private: map[string]string{
			"bookingId":   record.ID,
			"clientEmail": record.Email,
		},
	}
}

func describe(r models.BookingRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Motivo visita: %s\n\n", r.Reason)
	b.WriteString("Contatti:\n")
	fmt.Fprintf(&b, "Telefono: %s\n", r.Phone)
	fmt.Fprintf(&b, "Email: %s\n", r.Email)
	fmt.Fprintf(&b, "Data di nascita: %s", r.Birthdate)
	return b.String()
}
