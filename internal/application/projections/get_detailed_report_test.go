package projections

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sportsdesk/internal/domain/booking"
	"sportsdesk/internal/domain/inventory"
	"sportsdesk/internal/domain/metrics"
	"sportsdesk/internal/domain/registration"
)

func TestQueryDetailedReport(t *testing.T) {
	bookings := []booking.Booking{{Sport: "Tennis"}, {Sport: "Football"}, {Sport: "Tennis"}, {Sport: ""}}
	regs := []registration.Registration{{Name: "Ana", Event: "Football League"}, {Name: "Ben", Event: "Tennis Cup"}}
	events := []inventory.Event{{ID: "fl", Title: "Football League", Description: "Weekly five-a-side"}}

	got := QueryDetailedReport(bookings, regs, events)
	want := DetailedReport{
		SportCounts:  []metrics.SportCount{{Sport: "Tennis", Count: 2}, {Sport: "Football", Count: 1}},
		Events:       events,
		Participants: []Participant{{Name: "Ana", Event: "Football League"}, {Name: "Ben", Event: "Tennis Cup"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	sections := got.Sections()
	wantLines := [][]string{
		{"Tennis: 2", "Football: 1"},
		{"Football League — Weekly five-a-side"},
		{"Ana (Football League)", "Ben (Tennis Cup)"},
	}
	for i, s := range sections {
		if diff := cmp.Diff(wantLines[i], s.Lines); diff != "" {
			t.Errorf("section %q mismatch (-want +got):\n%s", s.Heading, diff)
		}
	}
}

// TestQueryDetailedReport_Placeholders verifies empty listings show their placeholder.
func TestQueryDetailedReport_Placeholders(t *testing.T) {
	r := QueryDetailedReport(nil, nil, nil)
	if r.SportCounts == nil || r.Events == nil || r.Participants == nil {
		t.Fatalf("expected non-nil listings, got %+v", r)
	}
	got := r.Sections()
	want := []ReportSection{
		{Heading: HeadingBookingsPerSport, Lines: []string{PlaceholderNoBookings}},
		{Heading: HeadingUpcomingEvents, Lines: []string{PlaceholderNoEvents}},
		{Heading: HeadingParticipants, Lines: []string{PlaceholderNoParticipant}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

// TestRenderDetailedReport_EscapesUserText verifies names cannot inject markup.
func TestRenderDetailedReport_EscapesUserText(t *testing.T) {
	regs := []registration.Registration{{Name: `<img src=x onerror=alert(1)>`, Event: "**Cup**"}}
	html, err := RenderDetailedReport(QueryDetailedReport(nil, regs, nil))
	if err != nil {
		t.Fatalf("RenderDetailedReport: %v", err)
	}
	out := string(html)
	if strings.Contains(out, "<img") {
		t.Errorf("expected image tag to be escaped, got %s", out)
	}
	if strings.Contains(out, "<strong>") {
		t.Errorf("expected emphasis markers to stay literal, got %s", out)
	}
	for _, want := range []string{"<h4>Bookings per Sport</h4>", "<h4>Upcoming Events</h4>", "<h4>Registered Participants</h4>", "<li>No bookings yet</li>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %s", want, out)
		}
	}
}
