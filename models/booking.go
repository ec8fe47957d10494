package models

import "time"

// BookingRequestInput is the body of the create-booking endpoint.
type BookingRequestInput struct {
	Name        string `json:"name" binding:"required"`
	Surname     string `json:"surname" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Birthdate   string `json:"birthdate"`
	BookingDate string `json:"booking_date" binding:"required"`
	BookingTime string `json:"booking_time" binding:"required"`
	Message     string `json:"message"`
}

// BookingRecord is one submitted reservation. It is created once and never updated.
type BookingRecord struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Surname     string    `bson:"surname" json:"surname"`
	Phone       string    `bson:"phone" json:"phone"`
	Email       string    `bson:"email" json:"email"`
	Birthdate   string    `bson:"birthdate,omitempty" json:"birthdate,omitempty"`
	Date        CivilDate `bson:"-" json:"-"`
	Start       TimeOfDay `bson:"-" json:"-"`
	BookingDate string    `bson:"booking_date" json:"booking_date"` // "YYYY-MM-DD"
	BookingTime string    `bson:"booking_time" json:"booking_time"` // "HH:MM", provider-local
	Reason      string    `bson:"reason,omitempty" json:"reason,omitempty"`
	StartUTC    time.Time `bson:"start_utc" json:"start_utc"`
	EndUTC      time.Time `bson:"end_utc" json:"end_utc"`
	EventID     string    `bson:"event_id,omitempty" json:"event_id,omitempty"`
	EventLink   string    `bson:"event_link,omitempty" json:"event_link,omitempty"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// BookingResponse is the success body of the create-booking endpoint.
type BookingResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	EventLink string `json:"eventLink"`
	BookingID string `json:"bookingId"`
}
