package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sportsdesk/internal/adapters/email"
	"sportsdesk/internal/domain/registration"
)

// maxIDAttempts bounds id regeneration when a generated id is already taken.
const maxIDAttempts = 3

// confirmationTimeout bounds the best-effort confirmation email.
const confirmationTimeout = 10 * time.Second

// RegistrationCollection is the persisted registration sequence.
type RegistrationCollection interface {
	Read(ctx context.Context) []registration.Registration
	Load(ctx context.Context) ([]registration.Registration, error)
	Write(ctx context.Context, regs []registration.Registration) error
}

// RegisterInput carries the raw registration form values.
type RegisterInput struct {
	Event string
	Name  string
	Email string
	Phone string
}

// RegisterDeps holds dependencies for ExecuteRegister.
type RegisterDeps struct {
	Registrations RegistrationCollection
	GenerateID    func() string    // defaults to NewRegistrationID
	Now           func() time.Time // defaults to time.Now
	Mailer        email.Sender     // optional confirmation email
	ReplyTo       string
}

// NewRegistrationID returns "r_" followed by a UUIDv7: time-ordered with a random tail.
func NewRegistrationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return registration.IDPrefix + id.String()
}

// ExecuteRegister validates a submission and appends it to the registration collection.
// PRE: Callers serialise concurrent calls against the same collection
// POST: On success the returned registration is durably stored; on error storage is unchanged
// INVARIANT: Registration ids are unique within the collection
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (registration.Registration, error) {
	generateID := deps.GenerateID
	if generateID == nil {
		generateID = NewRegistrationID
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	fields := registration.Fields{
		Event: input.Event,
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}.Normalize()
	if err := fields.Validate(); err != nil {
		return registration.Registration{}, err
	}

	regs, err := deps.Registrations.Load(ctx)
	if err != nil {
		return registration.Registration{}, fmt.Errorf("persist registration: %w", err)
	}

	id := ""
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := generateID()
		if candidate != "" && !registration.ContainsID(regs, candidate) {
			id = candidate
			break
		}
		slog.Warn("registration_id_collision", "attempt", attempt+1)
	}
	if id == "" {
		return registration.Registration{}, registration.ErrIDCollision
	}

	reg, err := registration.New(fields, id, now())
	if err != nil {
		return registration.Registration{}, err
	}

	next := make([]registration.Registration, 0, len(regs)+1)
	next = append(next, regs...)
	next = append(next, reg)
	if err := deps.Registrations.Write(ctx, next); err != nil {
		return registration.Registration{}, fmt.Errorf("persist registration: %w", err)
	}
	slog.Info("registration_saved", "registration_id", reg.ID, "event", reg.Event, "total", len(next))

	if deps.Mailer != nil {
		sendConfirmation(ctx, deps.Mailer, reg, deps.ReplyTo)
	}
	return reg, nil
}

// sendConfirmation emails the participant; failures are logged only.
func sendConfirmation(ctx context.Context, mailer email.Sender, reg registration.Registration, replyTo string) {
	req, err := email.ConfirmationRequest(reg, replyTo)
	if err != nil {
		slog.Error("registration_confirmation_failed", "registration_id", reg.ID, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, confirmationTimeout)
	defer cancel()
	if _, err := mailer.Send(ctx, req); err != nil {
		slog.Error("registration_confirmation_failed", "registration_id", reg.ID, "error", err)
	}
}
