package booking

import (
	"errors"
	"strings"
)

// DefaultUser is the identity attached to bookings when no user is known.
const DefaultUser = "guest"

// Domain errors
var (
	ErrFieldsRequired = errors.New("sport, date and time are required")
)

// Booking is a reserved facility slot. The remote booking service owns the
// authoritative copy; the desk only ever holds a transient snapshot.
type Booking struct {
	Sport string `json:"sport"`
	Date  string `json:"date"` // YYYY-MM-DD
	Time  string `json:"time"` // HH:MM
	User  string `json:"user"`
}

// Validate checks the fields a booking submission must carry.
// PRE: Booking struct is initialized
// POST: Returns ErrFieldsRequired if sport, date or time is blank
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.Sport) == "" || strings.TrimSpace(b.Date) == "" || strings.TrimSpace(b.Time) == "" {
		return ErrFieldsRequired
	}
	return nil
}
