package registration

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// IDPrefix marks client-generated registration ids.
const IDPrefix = "r_"

// Domain errors
var (
	ErrMissingFields = errors.New("event, name, email and phone are required")
	ErrInvalidPhone  = errors.New("please enter a valid 10-digit contact number")
	ErrIDCollision   = errors.New("could not generate a unique registration id")
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// Registration is a participant's signup for an event. The desk is its only
// writer and reader.
type Registration struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fields carries the raw values of a registration submission.
type Fields struct {
	Event string
	Name  string
	Email string
	Phone string
}

// Normalize trims the free-text fields the way the form does before validation.
// The event value comes from a fixed select list and is kept as submitted.
func (f Fields) Normalize() Fields {
	return Fields{
		Event: f.Event,
		Name:  strings.TrimSpace(f.Name),
		Email: strings.TrimSpace(f.Email),
		Phone: strings.TrimSpace(f.Phone),
	}
}

// Validate applies the submission rules in order and reports the first violation.
// PRE: f has been normalized
// POST: Returns ErrMissingFields, ErrInvalidPhone, or nil
func (f Fields) Validate() error {
	if f.Event == "" || f.Name == "" || f.Email == "" || f.Phone == "" {
		return ErrMissingFields
	}
	if !ValidPhone(f.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidPhone reports whether phone is exactly ten ASCII digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// New builds a Registration from validated fields.
// PRE: f.Validate() returned nil, id is non-empty
// POST: CreatedAt is now in UTC at millisecond precision
func New(f Fields, id string, now time.Time) (Registration, error) {
	if err := f.Validate(); err != nil {
		return Registration{}, err
	}
	return Registration{
		ID:        id,
		Event:     f.Event,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
	}, nil
}

// ContainsID reports whether any registration in regs carries id.
// INVARIANT: regs is not mutated
func ContainsID(regs []Registration, id string) bool {
	for _, r := range regs {
		if r.ID == id {
			return true
		}
	}
	return false
}
