package models

// ConfirmationPayload carries what the client's confirmation email needs.
type ConfirmationPayload struct {
	BookingID string `json:"bookingId"`
	To        string `json:"to"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Date      string `json:"date"` // "YYYY-MM-DD"
	Time      string `json:"time"` // "HH:MM", provider-local
}
