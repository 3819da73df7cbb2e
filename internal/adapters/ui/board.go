// Package ui holds the desk's render target: report slots and a modal surface.
package ui

import (
	"html/template"
	"sync"
	"time"
)

// Slot is one report card. Metric, when set, names the value it shows;
// otherwise the heading decides.
type Slot struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
	Metric  string `json:"metric,omitempty"`
	Text    string `json:"text"`
}

// Modal is the overlay used for on-demand views.
type Modal struct {
	Title string        `json:"title"`
	Body  template.HTML `json:"body"`
	Open  bool          `json:"open"`
}

// Board is safe for concurrent use. Readers always see a consistent set of slot texts.
type Board struct {
	mu        sync.RWMutex
	slots     []Slot
	modal     Modal
	updatedAt time.Time
}

// NewBoard creates a board with the given slots in display order.
// PRE: slot IDs are unique
func NewBoard(slots []Slot) *Board {
	return &Board{slots: append([]Slot(nil), slots...)}
}

// Slots returns a copy of the slots in display order.
func (b *Board) Slots() []Slot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Slot(nil), b.slots...)
}

// SetText replaces the text of slot id. It reports whether the slot exists.
func (b *Board) SetText(id, text string) bool {
	return b.SetTexts(map[string]string{id: text}) == 1
}

// SetTexts applies every update in one step and returns how many slots changed.
// Unknown IDs are ignored.
func (b *Board) SetTexts(updates map[string]string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for i := range b.slots {
		if text, ok := updates[b.slots[i].ID]; ok {
			b.slots[i].Text = text
			n++
		}
	}
	if n > 0 {
		b.updatedAt = time.Now()
	}
	return n
}

// UpdatedAt reports when slot text last changed; zero if never.
func (b *Board) UpdatedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updatedAt
}

// ShowModal opens the modal with title and body, replacing any open one.
func (b *Board) ShowModal(title string, body template.HTML) {
	b.mu.Lock()
	b.modal = Modal{Title: title, Body: body, Open: true}
	b.mu.Unlock()
}

// CloseModal dismisses the modal.
func (b *Board) CloseModal() {
	b.mu.Lock()
	b.modal = Modal{}
	b.mu.Unlock()
}

// Modal returns the current modal state.
func (b *Board) Modal() Modal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modal
}
