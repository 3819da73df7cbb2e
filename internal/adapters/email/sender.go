package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string
	From    string // overrides the sender default when set
	Subject string
	HTML    string
	ReplyTo string
	Kind    string // e.g. KindRegistrationConfirmation; sent as a provider tag
}

// KindRegistrationConfirmation marks the mail sent after a registration is stored.
const KindRegistrationConfirmation = "registration_confirmation"

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
