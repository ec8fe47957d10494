package handlers

// HandlerBundle groups the endpoint handlers for route registration.
type HandlerBundle struct {
	Availability *AvailabilityHandler
	Booking      *BookingHandler
}
