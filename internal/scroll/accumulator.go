// Package scroll converts continuous pixel deltas into discrete line counts
// and keeps the native scroll container and the copy-mode scroll offset
// mutually consistent.
package scroll

import "math"

// Accumulator turns a stream of pixel deltas into whole lines while carrying
// the sub-line remainder forward, so no motion is lost to rounding. One
// accumulator serves one gesture stream (wheel, touch); it must be reset at
// the start of a new discrete interaction, never across events of the same
// gesture.
type Accumulator struct {
	remainder float64
}

// Convert folds deltaPixels into the running remainder and returns the whole
// number of lines it now covers. The remainder stays strictly below one line
// height in magnitude, so the summed output never drifts from the summed
// input by a full line.
func (a *Accumulator) Convert(deltaPixels, lineHeight float64) int {
	if lineHeight <= 0 {
		return 0
	}
	a.remainder += deltaPixels
	lines := int(math.Trunc(a.remainder / lineHeight))
	a.remainder -= float64(lines) * lineHeight
	return lines
}

// Reset discards any carried remainder. Called on touch-down and drag-start
// so stale fractional state from an unrelated gesture cannot leak in.
func (a *Accumulator) Reset() {
	a.remainder = 0
}

// Remainder returns the current sub-line remainder in pixels.
func (a *Accumulator) Remainder() float64 {
	return a.remainder
}
