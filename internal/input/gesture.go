package input

import "time"

// gesture is the ephemeral state for one pointer interaction, created at
// button-down and discarded at release. Handlers receive it explicitly;
// nothing about an in-flight drag lives in ambient fields.
type gesture struct {
	button int
	mode   RoutingMode

	startCol int
	startRow int
	lastCol  int
	lastRow  int

	// dragging is set once motion leaves the starting cell; until then
	// the interaction is still a click.
	dragging bool

	// selecting is set when a local drag-selection has been started (or
	// queued behind copy-mode entry).
	selecting bool

	lastEmit time.Time
}

func newGesture(button int, mode RoutingMode, col, row int) *gesture {
	return &gesture{
		button:   button,
		mode:     mode,
		startCol: col,
		startRow: row,
		lastCol:  col,
		lastRow:  row,
	}
}

// moved reports whether the pointer has left the cell it was last seen in.
func (g *gesture) moved(col, row int) bool {
	return col != g.lastCol || row != g.lastRow
}

// throttled reports whether a drag emission should be suppressed because
// the minimum interval since the previous one has not elapsed. Throttling
// is purely rate limiting; it is never load-bearing for ordering.
func (g *gesture) throttled(now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}
	return now.Sub(g.lastEmit) < interval
}

func (g *gesture) emitted(now time.Time) {
	g.lastEmit = now
}
