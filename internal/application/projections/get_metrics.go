package projections

import (
	"context"
	"fmt"

	"sportsdesk/internal/domain/booking"
	"sportsdesk/internal/domain/inventory"
	"sportsdesk/internal/domain/metrics"
	"sportsdesk/internal/domain/registration"
)

// SnapshotDeps holds the sources a report cycle reads from.
type SnapshotDeps struct {
	Bookings      BookingLister
	Registrations RegistrationReader
	Events        []inventory.Event
}

// Snapshot is one consistent read of every source.
type Snapshot struct {
	Bookings      []booking.Booking
	Registrations []registration.Registration
	Events        []inventory.Event
}

// QuerySnapshot fetches bookings remotely and re-reads registrations.
// PRE: deps.Bookings and deps.Registrations are non-nil
// POST: On error nothing was read from the local store
func QuerySnapshot(ctx context.Context, deps SnapshotDeps) (Snapshot, error) {
	bookings, err := deps.Bookings.ListBookings(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch bookings: %w", err)
	}
	return Snapshot{
		Bookings:      bookings,
		Registrations: deps.Registrations.Read(ctx),
		Events:        deps.Events,
	}, nil
}

// QueryMetrics runs one aggregation cycle.
// PRE: deps.Bookings and deps.Registrations are non-nil
// POST: Returns Aggregate over a fresh snapshot, or the fetch error
func QueryMetrics(ctx context.Context, deps SnapshotDeps) (metrics.Metrics, error) {
	snap, err := QuerySnapshot(ctx, deps)
	if err != nil {
		return metrics.Metrics{}, err
	}
	return snap.Metrics(), nil
}

// Metrics aggregates the snapshot; the event inventory size is the event count.
func (s Snapshot) Metrics() metrics.Metrics {
	return metrics.Aggregate(s.Bookings, s.Registrations, len(s.Events))
}

// DetailedReport builds the detailed report from the snapshot.
func (s Snapshot) DetailedReport() DetailedReport {
	return QueryDetailedReport(s.Bookings, s.Registrations, s.Events)
}
