package notification

import (
	"context"

	"massobook/models"
)

// Mailer delivers the booking confirmation email.
type Mailer interface {
	SendConfirmation(ctx context.Context, p models.ConfirmationPayload) error
}

// Dispatcher hands a confirmation off for delivery, either right away or through a queue.
// Callers treat every error as best-effort: the booking already exists.
type Dispatcher interface {
	Dispatch(ctx context.Context, p models.ConfirmationPayload) error
}
