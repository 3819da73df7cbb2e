package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"sportsdesk/internal/adapters/bookingapi"
	"sportsdesk/internal/adapters/email"
	"sportsdesk/internal/adapters/http/perf"
	"sportsdesk/internal/adapters/storage/collection"
	"sportsdesk/internal/adapters/storage/kv"
	"sportsdesk/internal/adapters/ui"
	"sportsdesk/internal/application/projections"
	"sportsdesk/internal/domain/booking"
	"sportsdesk/internal/domain/inventory"
	"sportsdesk/internal/domain/registration"
)

// BookingService is the remote booking service.
type BookingService interface {
	ListBookings(ctx context.Context) ([]booking.Booking, error)
	CreateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error)
}

// BookingForm carries the booking form values.
type BookingForm struct {
	Sport string `json:"sport"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// RegistrationForm carries the event registration form values.
type RegistrationForm struct {
	Event string `json:"event"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Outcome is what the person at the desk is told after an action.
// ResetForm is true only after success; on failure the input is kept for correction.
type Outcome struct {
	OK        bool   `json:"ok"`
	ResetForm bool   `json:"resetForm"`
	Message   string `json:"message"`
	Err       error  `json:"-"`
}

// DeskDeps holds everything a Desk coordinates.
type DeskDeps struct {
	Bookings      BookingService
	Store         kv.Store
	Registrations RegistrationCollection // defaults to the collection in Store
	Events        []inventory.Event
	Board         *ui.Board
	Publisher     MetricsPublisher
	Mailer        email.Sender
	ReplyTo       string
	Collector     *perf.Collector
	GenerateID    func() string
	Now           func() time.Time
}

// Desk coordinates user actions with aggregation and projection.
type Desk struct {
	deps      DeskDeps
	refresher *Refresher
	regMu     sync.Mutex // serialises registration read-modify-write
}

// NewDesk wires a Desk.
// PRE: deps.Bookings, deps.Store and deps.Board are non-nil
func NewDesk(deps DeskDeps) *Desk {
	if deps.Registrations == nil {
		deps.Registrations = collection.Registrations(deps.Store)
	}
	d := &Desk{deps: deps}
	d.refresher = NewRefresher(RefreshDeps{
		Snapshot:  d.snapshotDeps(),
		Target:    deps.Board,
		Publisher: deps.Publisher,
		Collector: deps.Collector,
	})
	return d
}

func (d *Desk) snapshotDeps() projections.SnapshotDeps {
	return projections.SnapshotDeps{
		Bookings:      d.deps.Bookings,
		Registrations: d.deps.Registrations,
		Events:        d.deps.Events,
	}
}

// Board returns the desk's render target.
func (d *Desk) Board() *ui.Board {
	return d.deps.Board
}

// Events returns the event inventory.
func (d *Desk) Events() []inventory.Event {
	return d.deps.Events
}

// Refresher returns the desk's refresh coordinator.
func (d *Desk) Refresher() *Refresher {
	return d.refresher
}

// Refresh runs one aggregation cycle.
func (d *Desk) Refresh(ctx context.Context) RefreshResult {
	return d.refresher.Refresh(ctx)
}

// SubmitBooking reserves a slot with the booking service.
// PRE: none
// POST: On success the board is refreshed and ResetForm is set; on failure nothing changes
func (d *Desk) SubmitBooking(ctx context.Context, form BookingForm) Outcome {
	b := booking.Booking{
		Sport: form.Sport,
		Date:  form.Date,
		Time:  form.Time,
	}
	if err := b.Validate(); err != nil {
		return Outcome{Message: "Please choose a sport, date and time.", Err: err}
	}
	b.User = collection.ReadUser(ctx, d.deps.Store)

	created, err := d.deps.Bookings.CreateBooking(ctx, b)
	if err != nil {
		slog.Warn("booking_failed", "sport", b.Sport, "date", b.Date, "error", err)
		var remote *bookingapi.RemoteError
		if errors.As(err, &remote) {
			return Outcome{Message: "Failed to book slot: " + remote.Message, Err: err}
		}
		return Outcome{Message: bookingapi.UserMessage(err), Err: err}
	}
	slog.Info("booking_created", "sport", created.Sport, "date", created.Date, "time", created.Time, "user", created.User)

	d.refresher.Refresh(ctx)
	return Outcome{
		OK:        true,
		ResetForm: true,
		Message:   fmt.Sprintf("Slot booked successfully for %s on %s at %s!", b.Sport, b.Date, b.Time),
	}
}

// SubmitRegistration records an event registration locally.
// PRE: none
// POST: On success the registration is durable and the board refreshed; on failure storage is unchanged
func (d *Desk) SubmitRegistration(ctx context.Context, form RegistrationForm) Outcome {
	d.regMu.Lock()
	reg, err := ExecuteRegister(ctx, RegisterInput{
		Event: form.Event,
		Name:  form.Name,
		Email: form.Email,
		Phone: form.Phone,
	}, RegisterDeps{
		Registrations: d.deps.Registrations,
		GenerateID:    d.deps.GenerateID,
		Now:           d.deps.Now,
		Mailer:        d.deps.Mailer,
		ReplyTo:       d.deps.ReplyTo,
	})
	d.regMu.Unlock()

	if err != nil {
		return Outcome{Message: registrationMessage(err), Err: err}
	}

	d.refresher.Refresh(ctx)
	return Outcome{
		OK:        true,
		ResetForm: true,
		Message:   fmt.Sprintf(`Registered %s to "%s" successfully!`, reg.Name, reg.Event),
	}
}

func registrationMessage(err error) string {
	switch {
	case errors.Is(err, registration.ErrMissingFields):
		return "Please fill in the event, your name, email and phone."
	case errors.Is(err, registration.ErrInvalidPhone):
		return "Please enter a valid 10-digit contact number."
	case errors.Is(err, registration.ErrIDCollision):
		return "Could not save the registration. Please try again."
	default:
		return "Could not save the registration. Your details were not stored."
	}
}

// ShowDetailedReport builds the detailed report from fresh data and opens it on the board.
// PRE: none
// POST: On error the board's modal is unchanged
func (d *Desk) ShowDetailedReport(ctx context.Context) (projections.DetailedReport, template.HTML, error) {
	snap, err := projections.QuerySnapshot(ctx, d.snapshotDeps())
	if err != nil {
		slog.Warn("detailed_report_failed", "error", err)
		return projections.DetailedReport{}, "", err
	}
	report := snap.DetailedReport()
	html, err := projections.RenderDetailedReport(report)
	if err != nil {
		return projections.DetailedReport{}, "", err
	}
	d.deps.Board.ShowModal(projections.DetailedReportTitle, html)
	return report, html, nil
}
