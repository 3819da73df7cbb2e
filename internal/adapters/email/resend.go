package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ErrNoRecipients is returned when a request has nobody to deliver to.
var ErrNoRecipients = errors.New("email has no recipients")

// resendEmails is the part of the Resend client the desk uses.
type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendSender delivers desk mail (registration confirmations) through Resend.
type ResendSender struct {
	emails resendEmails
	from   string
	now    func() time.Time
}

// NewResendSender returns a sender for apiKey. from is used when a request leaves From empty.
func NewResendSender(apiKey, from string) *ResendSender {
	return newResendSender(resend.NewClient(apiKey).Emails, from)
}

func newResendSender(emails resendEmails, from string) *ResendSender {
	return &ResendSender{emails: emails, from: from, now: time.Now}
}

// Send hands one message to Resend, tagged with its kind when set.
// PRE: none
// POST: Returns ErrNoRecipients without calling Resend when req.To is empty
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: req.ReplyTo,
	}
	if req.From != "" {
		params.From = req.From
	}
	if req.Kind != "" {
		params.Tags = []resend.Tag{{Name: "kind", Value: req.Kind}}
	}

	resp, err := s.emails.SendWithContext(ctx, params)
	if err != nil {
		return SendResult{}, fmt.Errorf("send %q via resend: %w", req.Subject, err)
	}
	slog.Info("email_sent", "provider", "resend", "message_id", resp.Id, "kind", req.Kind)
	return SendResult{MessageID: resp.Id, SentAt: s.now()}, nil
}
