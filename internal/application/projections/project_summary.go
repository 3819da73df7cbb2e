package projections

import (
	"strings"

	"sportsdesk/internal/adapters/ui"
	"sportsdesk/internal/domain/metrics"
)

// headingMatchers maps heading fragments to metric keys, checked in order.
var headingMatchers = []struct {
	fragment string
	key      string
}{
	{"total events", metrics.KeyTotalEvents},
	{"total participants", metrics.KeyTotalParticipants},
	{"slots booked", metrics.KeySlotsBooked},
	{"most popular sport", metrics.KeyMostPopularSport},
}

// MetricFor resolves which metric a slot displays.
// An explicit Metric wins; otherwise the first heading fragment found decides.
// POST: ok is false for slots that show no known metric
func MetricFor(slot ui.Slot) (key string, ok bool) {
	if slot.Metric != "" {
		for _, k := range metrics.Keys {
			if k == slot.Metric {
				return k, true
			}
		}
		return "", false
	}
	heading := strings.ToLower(slot.Heading)
	for _, m := range headingMatchers {
		if strings.Contains(heading, m.fragment) {
			return m.key, true
		}
	}
	return "", false
}

// ProjectSummary writes m into every slot of target that shows a metric.
// PRE: target is non-nil
// POST: Slots without a resolvable metric keep their text; returns slots written
// INVARIANT: All writes land in one SetTexts call
func ProjectSummary(m metrics.Metrics, target RenderTarget) int {
	updates := make(map[string]string)
	for _, slot := range target.Slots() {
		key, ok := MetricFor(slot)
		if !ok {
			continue
		}
		value, _ := m.Value(key)
		updates[slot.ID] = value
	}
	if len(updates) == 0 {
		return 0
	}
	return target.SetTexts(updates)
}
