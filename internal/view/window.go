package view

const (
	// InitialWindow is the number of cards visible when a grid first renders,
	// and the number of skeleton placeholders shown while it loads
	InitialWindow = 8

	// WindowStep is how many more cards each "load more" click reveals
	WindowStep = 4
)

// Window is the client-side pagination over an already-fetched list: a
// visible prefix that grows in fixed steps and never exceeds the total.
type Window struct {
	Visible int
	Total   int
}

// NewWindow opens the initial window over a list of the given length
func NewWindow(total int) Window {
	return WindowAt(InitialWindow, total)
}

// WindowAt clamps a requested visible count to the list bounds
func WindowAt(visible, total int) Window {
	if total < 0 {
		total = 0
	}
	if visible < 0 {
		visible = 0
	}
	if visible > total {
		visible = total
	}
	return Window{Visible: visible, Total: total}
}

// Grow reveals one more step, capped at the full list
func (w Window) Grow() Window {
	return WindowAt(w.Visible+WindowStep, w.Total)
}

// HasMore reports whether any items remain hidden; once false the load-more
// control is disabled
func (w Window) HasMore() bool {
	return w.Visible < w.Total
}

// Slice returns the visible prefix of items
func Slice[T any](items []T, w Window) []T {
	if w.Visible >= len(items) {
		return items
	}
	return items[:w.Visible]
}
