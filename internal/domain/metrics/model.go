package metrics

import (
	"strconv"

	"sportsdesk/internal/domain/booking"
	"sportsdesk/internal/domain/registration"
)

// FallbackSport is reported as most popular when no booking names a sport.
const FallbackSport = "Football"

// Metric keys identify the four summary values independently of slot headings.
const (
	KeyTotalEvents       = "total_events"
	KeyTotalParticipants = "total_participants"
	KeySlotsBooked       = "slots_booked"
	KeyMostPopularSport  = "most_popular_sport"
)

// Keys lists the metric keys in display order.
var Keys = []string{KeyTotalEvents, KeyTotalParticipants, KeySlotsBooked, KeyMostPopularSport}

// Metrics is the four-field summary shown on the desk.
type Metrics struct {
	TotalEvents       int    `json:"totalEvents"`
	TotalParticipants int    `json:"totalParticipants"`
	SlotsBooked       int    `json:"slotsBooked"`
	MostPopularSport  string `json:"mostPopularSport"`
}

// SportCount is the number of bookings for one sport.
type SportCount struct {
	Sport string `json:"sport"`
	Count int    `json:"count"`
}

// Aggregate combines a booking snapshot and the registration collection into Metrics.
// PRE: none; any input, including nil slices, is accepted
// POST: Returns zeroed counts and FallbackSport for empty inputs
// INVARIANT: bookings and registrations are not mutated
func Aggregate(bookings []booking.Booking, registrations []registration.Registration, eventCardCount int) Metrics {
	if eventCardCount < 0 {
		eventCardCount = 0
	}
	return Metrics{
		TotalEvents:       eventCardCount,
		TotalParticipants: len(registrations),
		SlotsBooked:       len(bookings),
		MostPopularSport:  MostPopular(CountBySport(bookings)),
	}
}

// CountBySport tallies bookings per sport in order of first appearance.
// Bookings without a sport are not counted.
// INVARIANT: bookings is not mutated
func CountBySport(bookings []booking.Booking) []SportCount {
	index := make(map[string]int)
	var counts []SportCount
	for _, b := range bookings {
		if b.Sport == "" {
			continue
		}
		i, ok := index[b.Sport]
		if !ok {
			i = len(counts)
			index[b.Sport] = i
			counts = append(counts, SportCount{Sport: b.Sport})
		}
		counts[i].Count++
	}
	return counts
}

// MostPopular returns the sport with the highest count. Ties go to the
// earliest entry, so callers must pass counts in first-appearance order.
func MostPopular(counts []SportCount) string {
	best := -1
	for i, c := range counts {
		if best < 0 || c.Count > counts[best].Count {
			best = i
		}
	}
	if best < 0 {
		return FallbackSport
	}
	return counts[best].Sport
}

// Value returns the display text for a metric key and whether the key is known.
func (m Metrics) Value(key string) (string, bool) {
	switch key {
	case KeyTotalEvents:
		return strconv.Itoa(m.TotalEvents), true
	case KeyTotalParticipants:
		return strconv.Itoa(m.TotalParticipants), true
	case KeySlotsBooked:
		return strconv.Itoa(m.SlotsBooked), true
	case KeyMostPopularSport:
		return m.MostPopularSport, true
	}
	return "", false
}
