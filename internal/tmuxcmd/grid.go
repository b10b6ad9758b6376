package tmuxcmd

// Grid caches a pane's full text content (history included) for reads by
// absolute row. It is fetched lazily on first read and held until
// Invalidate, so selection extraction over many rows costs one capture.
type Grid struct {
	runner *Runner
	paneID string
	lines  []string
	loaded bool
}

// NewGrid creates a grid backed by capture-pane for the given pane.
func NewGrid(r *Runner, paneID string) *Grid {
	return &Grid{runner: r, paneID: paneID}
}

// Line returns the text of an absolute row, or "" when out of range or
// when the capture fails.
func (g *Grid) Line(absRow int) string {
	if !g.loaded {
		lines, err := g.runner.CapturePane(g.paneID)
		if err != nil {
			return ""
		}
		g.lines = lines
		g.loaded = true
	}
	if absRow < 0 || absRow >= len(g.lines) {
		return ""
	}
	return g.lines[absRow]
}

// Invalidate drops the cached capture; the next read re-fetches.
func (g *Grid) Invalidate() {
	g.loaded = false
	g.lines = nil
}
