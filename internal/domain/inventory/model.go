package inventory

// Event is one entry of the event inventory shown as a card on the desk.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Label renders the event the way the detailed report lists it.
func (e Event) Label() string {
	if e.Description == "" {
		return e.Title
	}
	return e.Title + " — " + e.Description
}
