// Package pane defines the pane snapshot and layout geometry consumed by
// the interaction engine. A snapshot mirrors one line of
// `tmux list-panes -F` output and is refreshed on every remote state push.
package pane

import "math"

// Pane describes one terminal pane as last reported by the multiplexer.
type Pane struct {
	ID     string // e.g. "%3"
	Index  int
	X      int // cell offset of the pane within its window
	Y      int
	Width  int // dimensions in character cells
	Height int

	CursorX int
	CursorY int
	Active  bool
	Command string // current foreground command (e.g. "bash", "vim")

	InMode       bool // remote-side copy mode active (#{pane_in_mode})
	AlternateOn  bool // alternate screen buffer (#{alternate_on})
	MouseAnyFlag bool // application requested mouse reporting (#{mouse_any_flag})

	HistorySize int // lines of remote scrollback (#{history_size})
}

// TotalLines is the combined history plus viewport height.
func (p *Pane) TotalLines() int {
	return p.HistorySize + p.Height
}

// Layout is the measured content rectangle of a rendered pane, in client
// pixels, plus the pixel size of one character cell. A zero Layout means
// the renderer has not reported a measurement yet.
type Layout struct {
	Left       float64
	Top        float64
	Width      float64
	Height     float64
	CharWidth  float64
	CharHeight float64
}

// Valid reports whether the layout carries a usable measurement.
func (l Layout) Valid() bool {
	return l.CharWidth > 0 && l.CharHeight > 0
}

// CellAt converts client pixel coordinates to 0-indexed cell coordinates
// within the pane. Pixel positions left of or above the content area clamp
// to cell 0; positions beyond the pane clamp to the last cell. Returns
// ok=false when no layout measurement is available, in which case callers
// must not emit a command.
func (p *Pane) CellAt(l Layout, px, py float64) (col, row int, ok bool) {
	if !l.Valid() {
		return 0, 0, false
	}

	col = int(math.Floor((px - l.Left) / l.CharWidth))
	row = int(math.Floor((py - l.Top) / l.CharHeight))

	col = clamp(col, 0, p.Width-1)
	row = clamp(row, 0, p.Height-1)
	return col, row, true
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
