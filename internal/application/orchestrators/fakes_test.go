package orchestrators

import (
	"context"
	"sync"
	"time"

	"sportsdesk/internal/adapters/ui"
	"sportsdesk/internal/domain/booking"
	"sportsdesk/internal/domain/inventory"
	"sportsdesk/internal/domain/metrics"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "r_test-id-001" }

// fakeBookingService is an in-memory booking service.
type fakeBookingService struct {
	mu        sync.Mutex
	bookings  []booking.Booking
	listErr   error
	createErr error
	created   []booking.Booking
	lists     int
}

func (f *fakeBookingService) ListBookings(context.Context) ([]booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]booking.Booking(nil), f.bookings...), nil
}

func (f *fakeBookingService) CreateBooking(_ context.Context, b booking.Booking) (booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return booking.Booking{}, f.createErr
	}
	f.created = append(f.created, b)
	f.bookings = append(f.bookings, b)
	return b, nil
}

func (f *fakeBookingService) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

// fakePublisher records published generations.
type fakePublisher struct {
	mu          sync.Mutex
	generations []uint64
	last        metrics.Metrics
}

func (p *fakePublisher) Publish(_ context.Context, gen uint64, m metrics.Metrics) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generations = append(p.generations, gen)
	p.last = m
	return nil
}

func summaryBoard() *ui.Board {
	return ui.NewBoard([]ui.Slot{
		{ID: "events", Heading: "Total Events", Metric: metrics.KeyTotalEvents, Text: "-"},
		{ID: "participants", Heading: "Total Participants", Metric: metrics.KeyTotalParticipants, Text: "-"},
		{ID: "slots", Heading: "Slots Booked", Text: "-"},
		{ID: "sport", Heading: "Most Popular Sport", Text: "-"},
	})
}

func boardTexts(b *ui.Board) map[string]string {
	out := make(map[string]string)
	for _, s := range b.Slots() {
		out[s.ID] = s.Text
	}
	return out
}

func threeEvents() []inventory.Event {
	return []inventory.Event{
		{ID: "football-league", Title: "Football League", Description: "Weekly five-a-side"},
		{ID: "tennis-cup", Title: "Tennis Cup", Description: "Singles knockout"},
		{ID: "cricket-day", Title: "Cricket Day", Description: "Friendly T20"},
	}
}
