package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"sportsdesk/internal/adapters/ui"
	"sportsdesk/internal/domain/inventory"
	"sportsdesk/internal/domain/metrics"
)

// Site is the page inventory: event cards, report slots and bookable sports.
type Site struct {
	Events []inventory.Event
	Slots  []ui.Slot
	Sports []string
}

// siteFile is the top-level structure of a site file for decoding.
type siteFile struct {
	Events []*eventBlock `hcl:"event,block"`
	Slots  []*slotBlock  `hcl:"slot,block"`
	Sports []string      `hcl:"sports,optional"`
}

type eventBlock struct {
	ID          string `hcl:"id,label"`
	Title       string `hcl:"title"`
	Description string `hcl:"description,optional"`
}

type slotBlock struct {
	ID      string `hcl:"id,label"`
	Heading string `hcl:"heading"`
	Metric  string `hcl:"metric,optional"`
	Initial string `hcl:"initial,optional"`
}

// DefaultSite is used when no site file exists.
func DefaultSite() Site {
	return Site{
		Events: []inventory.Event{
			{ID: "inter-college-football", Title: "Inter-College Football", Description: "Knockout tournament on the main ground"},
			{ID: "badminton-open", Title: "Badminton Open", Description: "Singles and doubles in the indoor hall"},
			{ID: "cricket-league", Title: "Cricket League", Description: "Weekend T20 fixtures"},
		},
		Slots:  defaultSlots(),
		Sports: []string{"Football", "Cricket", "Badminton", "Tennis", "Basketball"},
	}
}

func defaultSlots() []ui.Slot {
	return []ui.Slot{
		{ID: "total-events", Heading: "Total Events", Metric: metrics.KeyTotalEvents, Text: "0"},
		{ID: "total-participants", Heading: "Total Participants", Metric: metrics.KeyTotalParticipants, Text: "0"},
		{ID: "slots-booked", Heading: "Slots Booked", Metric: metrics.KeySlotsBooked, Text: "0"},
		{ID: "most-popular-sport", Heading: "Most Popular Sport", Metric: metrics.KeyMostPopularSport, Text: "-"},
	}
}

// LoadSite decodes the site file at path.
// PRE: none
// POST: A missing file yields DefaultSite; a file without slot blocks gets the default slots
func LoadSite(path string) (Site, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		slog.Warn("site_file_missing", "path", path)
		return DefaultSite(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Site{}, fmt.Errorf("parse site file %s: %w", path, diags)
	}
	var parsed siteFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return Site{}, fmt.Errorf("decode site file %s: %w", path, diags)
	}

	site := Site{Sports: parsed.Sports}
	for _, e := range parsed.Events {
		site.Events = append(site.Events, inventory.Event{ID: e.ID, Title: e.Title, Description: e.Description})
	}

	seen := make(map[string]bool)
	for _, s := range parsed.Slots {
		if seen[s.ID] {
			return Site{}, fmt.Errorf("site file %s: duplicate slot %q", path, s.ID)
		}
		seen[s.ID] = true
		if s.Metric != "" && !slices.Contains(metrics.Keys, s.Metric) {
			return Site{}, fmt.Errorf("site file %s: slot %q has unknown metric %q", path, s.ID, s.Metric)
		}
		site.Slots = append(site.Slots, ui.Slot{ID: s.ID, Heading: s.Heading, Metric: s.Metric, Text: s.Initial})
	}
	if len(site.Slots) == 0 {
		site.Slots = defaultSlots()
	}
	return site, nil
}

