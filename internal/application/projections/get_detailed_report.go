package projections

import (
	"fmt"
	"html/template"
	"strings"

	"sportsdesk/internal/adapters/markdown"
	"sportsdesk/internal/domain/booking"
	"sportsdesk/internal/domain/inventory"
	"sportsdesk/internal/domain/metrics"
	"sportsdesk/internal/domain/registration"
)

// Report headings and empty-listing placeholders.
const (
	DetailedReportTitle      = "Detailed Reports"
	HeadingBookingsPerSport  = "Bookings per Sport"
	HeadingUpcomingEvents    = "Upcoming Events"
	HeadingParticipants      = "Registered Participants"
	PlaceholderNoBookings    = "No bookings yet"
	PlaceholderNoEvents      = "No upcoming events"
	PlaceholderNoParticipant = "No participants yet"
)

// Participant is one registration as the report lists it.
type Participant struct {
	Name  string `json:"name"`
	Event string `json:"event"`
}

// Label renders "Name (Event)".
func (p Participant) Label() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Event)
}

// DetailedReport is the three-listing breakdown behind the summary.
type DetailedReport struct {
	SportCounts  []metrics.SportCount `json:"sportCounts"`
	Events       []inventory.Event    `json:"events"`
	Participants []Participant        `json:"participants"`
}

// QueryDetailedReport builds the report from a booking snapshot, the registration
// collection and the event inventory.
// PRE: none; nil inputs are treated as empty
// POST: Listings are non-nil and keep input order; sports are in first-appearance order
// INVARIANT: Inputs are not mutated
func QueryDetailedReport(bookings []booking.Booking, regs []registration.Registration, events []inventory.Event) DetailedReport {
	report := DetailedReport{
		SportCounts:  metrics.CountBySport(bookings),
		Events:       append([]inventory.Event{}, events...),
		Participants: make([]Participant, 0, len(regs)),
	}
	if report.SportCounts == nil {
		report.SportCounts = []metrics.SportCount{}
	}
	for _, r := range regs {
		report.Participants = append(report.Participants, Participant{Name: r.Name, Event: r.Event})
	}
	return report
}

// Sections returns each heading with its lines, placeholders included.
func (r DetailedReport) Sections() []ReportSection {
	sports := make([]string, 0, len(r.SportCounts))
	for _, sc := range r.SportCounts {
		sports = append(sports, fmt.Sprintf("%s: %d", sc.Sport, sc.Count))
	}
	events := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, e.Label())
	}
	people := make([]string, 0, len(r.Participants))
	for _, p := range r.Participants {
		people = append(people, p.Label())
	}
	return []ReportSection{
		{Heading: HeadingBookingsPerSport, Lines: orPlaceholder(sports, PlaceholderNoBookings)},
		{Heading: HeadingUpcomingEvents, Lines: orPlaceholder(events, PlaceholderNoEvents)},
		{Heading: HeadingParticipants, Lines: orPlaceholder(people, PlaceholderNoParticipant)},
	}
}

// ReportSection is one heading and its list items.
type ReportSection struct {
	Heading string
	Lines   []string
}

func orPlaceholder(lines []string, placeholder string) []string {
	if len(lines) == 0 {
		return []string{placeholder}
	}
	return lines
}

// Markdown renders the report as Markdown with every user-supplied value escaped.
func (r DetailedReport) Markdown() string {
	var md strings.Builder
	for i, s := range r.Sections() {
		if i > 0 {
			md.WriteString("\n")
		}
		fmt.Fprintf(&md, "#### %s\n\n", s.Heading)
		for _, line := range s.Lines {
			fmt.Fprintf(&md, "- %s\n", markdown.Escape(line))
		}
	}
	return md.String()
}

// RenderDetailedReport renders the report to safe HTML.
// POST: No markup from booking, event or participant text survives
func RenderDetailedReport(r DetailedReport) (template.HTML, error) {
	html, err := markdown.Render(r.Markdown())
	if err != nil {
		return "", fmt.Errorf("render detailed report: %w", err)
	}
	return html, nil
}
