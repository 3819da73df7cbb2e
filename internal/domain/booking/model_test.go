package booking_test

import (
	"errors"
	"testing"

	"sportsdesk/internal/domain/booking"
)

// TestBookingValidation tests the required-field rule for booking submissions.
func TestBookingValidation(t *testing.T) {
	tests := []struct {
		name    string
		booking booking.Booking
		wantErr bool
	}{
		{"complete", booking.Booking{Sport: "Tennis", Date: "2026-10-20", Time: "18:00"}, false},
		{"user optional", booking.Booking{Sport: "Tennis", Date: "2026-10-20", Time: "18:00", User: ""}, false},
		{"missing sport", booking.Booking{Date: "2026-10-20", Time: "18:00"}, true},
		{"blank date", booking.Booking{Sport: "Tennis", Date: "  ", Time: "18:00"}, true},
		{"missing time", booking.Booking{Sport: "Tennis", Date: "2026-10-20"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.booking.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, booking.ErrFieldsRequired) {
				t.Errorf("expected ErrFieldsRequired, got %v", err)
			}
		})
	}
}
