package projections

import (
	"context"

	"sportsdesk/internal/adapters/ui"
	"sportsdesk/internal/domain/booking"
	"sportsdesk/internal/domain/registration"
)

// BookingLister fetches the authoritative booking list.
type BookingLister interface {
	ListBookings(ctx context.Context) ([]booking.Booking, error)
}

// RegistrationReader reads the locally persisted registrations.
// Read never fails; unusable data reads as empty.
type RegistrationReader interface {
	Read(ctx context.Context) []registration.Registration
}

// RenderTarget is where summary values are written.
type RenderTarget interface {
	Slots() []ui.Slot
	SetTexts(updates map[string]string) int
}
