package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
)

// fakeResend records the last request and answers with a fixed id or error.
type fakeResend struct {
	got   *resend.SendEmailRequest
	calls int
	err   error
}

func (f *fakeResend) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.calls++
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "msg_1"}, nil
}

func TestResendSender_Send(t *testing.T) {
	fake := &fakeResend{}
	s := newResendSender(fake, "Desk <desk@example.com>")
	sentAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return sentAt }

	res, err := s.Send(context.Background(), SendRequest{
		To:      []string{"ana@example.com"},
		Subject: "Registration confirmed: Football League",
		HTML:    "<p>hi</p>",
		ReplyTo: "help@example.com",
		Kind:    KindRegistrationConfirmation,
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.MessageID != "msg_1" || !res.SentAt.Equal(sentAt) {
		t.Errorf("unexpected result %+v", res)
	}
	if fake.got.From != "Desk <desk@example.com>" || fake.got.ReplyTo != "help@example.com" {
		t.Errorf("expected default from and reply-to, got %+v", fake.got)
	}
	if len(fake.got.Tags) != 1 || fake.got.Tags[0].Value != KindRegistrationConfirmation {
		t.Errorf("expected kind tag, got %+v", fake.got.Tags)
	}
}

func TestResendSender_FromOverride(t *testing.T) {
	fake := &fakeResend{}
	newResendSender(fake, "default@example.com").Send(context.Background(), SendRequest{
		To: []string{"a@example.com"}, From: "events@example.com",
	})
	if fake.got.From != "events@example.com" {
		t.Errorf("expected override, got %q", fake.got.From)
	}
	if fake.got.Tags != nil {
		t.Errorf("expected no tags without a kind, got %+v", fake.got.Tags)
	}
}

func TestResendSender_Errors(t *testing.T) {
	fake := &fakeResend{err: errors.New("401 invalid key")}
	s := newResendSender(fake, "desk@example.com")

	if _, err := s.Send(context.Background(), SendRequest{}); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("expected ErrNoRecipients, got %v", err)
	}
	if fake.calls != 0 {
		t.Errorf("expected no provider call without recipients, got %d", fake.calls)
	}

	if _, err := s.Send(context.Background(), SendRequest{To: []string{"a@example.com"}}); !errors.Is(err, fake.err) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}
