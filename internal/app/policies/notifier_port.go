package policies

import "context"

// Notifier hands events to the external notification pipeline (the mail
// service consumes them). Delivery itself is out of process.
type Notifier interface {
	Send(ctx context.Context, event string, data any) error
}

// Event names carried over the notifier.
const (
	EventBookingRequested    = "booking.requested"
	EventAvailabilityChanged = "availability.changed"
)
