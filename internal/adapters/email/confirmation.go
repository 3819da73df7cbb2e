package email

import (
	"fmt"
	"strings"

	"sportsdesk/internal/adapters/markdown"
	"sportsdesk/internal/domain/registration"
)

// ConfirmationRequest builds the "you are registered" email for reg.
// PRE: reg.Email is non-empty
// POST: HTML contains the escaped event and participant names
func ConfirmationRequest(reg registration.Registration, replyTo string) (SendRequest, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "Hi %s,\n\n", markdown.Escape(reg.Name))
	fmt.Fprintf(&md, "You are registered for **%s**.\n\n", markdown.Escape(reg.Event))
	fmt.Fprintf(&md, "- Reference: `%s`\n", reg.ID)
	fmt.Fprintf(&md, "- Contact number: %s\n", markdown.Escape(reg.Phone))
	fmt.Fprintf(&md, "- Registered at: %s UTC\n", reg.CreatedAt.UTC().Format("2006-01-02 15:04"))

	html, err := markdown.Render(md.String())
	if err != nil {
		return SendRequest{}, err
	}
	return SendRequest{
		To:      []string{reg.Email},
		Subject: fmt.Sprintf("Registration confirmed: %s", reg.Event),
		HTML:    string(html),
		ReplyTo: replyTo,
		Kind:    KindRegistrationConfirmation,
	}, nil
}
