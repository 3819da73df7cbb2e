package ui

import (
	"sync"
	"testing"
)

func testSlots() []Slot {
	return []Slot{
		{ID: "events", Heading: "Total Events", Text: "0"},
		{ID: "people", Heading: "Total Participants", Text: "0"},
	}
}

func TestBoard_SetTexts(t *testing.T) {
	b := NewBoard(testSlots())

	if n := b.SetTexts(map[string]string{"events": "4", "ghost": "x"}); n != 1 {
		t.Errorf("expected 1 slot changed, got %d", n)
	}
	slots := b.Slots()
	if slots[0].Text != "4" || slots[1].Text != "0" {
		t.Errorf("unexpected slots %+v", slots)
	}
	if b.UpdatedAt().IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
	if b.SetText("ghost", "x") {
		t.Error("expected SetText on unknown slot to report false")
	}
}

// TestBoard_SlotsIsCopy verifies callers cannot mutate board state through Slots.
func TestBoard_SlotsIsCopy(t *testing.T) {
	b := NewBoard(testSlots())
	s := b.Slots()
	s[0].Text = "99"
	if b.Slots()[0].Text != "0" {
		t.Error("expected board to be unaffected by caller mutation")
	}
}

func TestBoard_Modal(t *testing.T) {
	b := NewBoard(nil)
	if b.Modal().Open {
		t.Fatal("expected modal closed initially")
	}
	b.ShowModal("Detailed Reports", "<ul></ul>")
	m := b.Modal()
	if !m.Open || m.Title != "Detailed Reports" || m.Body != "<ul></ul>" {
		t.Errorf("unexpected modal %+v", m)
	}
	b.CloseModal()
	if b.Modal().Open {
		t.Error("expected modal closed")
	}
}

func TestBoard_ConcurrentAccess(t *testing.T) {
	b := NewBoard(testSlots())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.SetTexts(map[string]string{"events": "1", "people": "1"})
		}()
		go func() {
			defer wg.Done()
			s := b.Slots()
			if s[0].Text != s[1].Text {
				t.Errorf("observed partial update %+v", s)
			}
		}()
	}
	wg.Wait()
}
