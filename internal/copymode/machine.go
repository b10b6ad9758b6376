// Package copymode implements the locally-simulated scrollback browsing
// mode: an authoritative scroll offset into history plus viewport, and a
// text selection expressed in absolute (history-relative) coordinates so it
// survives scrolling.
//
// This mirrors the multiplexer's own copy mode but runs entirely client
// side; no remote commands are involved while it is active.
package copymode

// Position is a cell coordinate. Row is absolute within the combined
// history and viewport (row 0 is the oldest history line), never
// viewport-relative.
type Position struct {
	Row int
	Col int
}

// SelectionMode determines how the anchor/cursor pair maps to selected
// cells.
type SelectionMode int

const (
	// SelectionChar selects the linear run of cells between anchor and
	// cursor, ordered by row then column.
	SelectionChar SelectionMode = iota
	// SelectionLine selects whole rows between the anchor and cursor rows
	// inclusive.
	SelectionLine
	// SelectionBlock selects the rectangle spanned by anchor and cursor.
	SelectionBlock
)

// Selection is an active text selection. Anchor is where it started,
// Cursor is the end being dragged.
type Selection struct {
	Anchor Position
	Cursor Position
	Mode   SelectionMode
}

// Machine is the copy-mode state machine for a single pane. At most one
// live machine exists per pane; it is created on entry and reset on exit.
type Machine struct {
	paneID     string
	paneHeight int
	totalLines int

	active bool
	offset int
	sel    *Selection

	// Continuations queued while the entry transition is still pending,
	// run in order once it commits. This replaces timer races for
	// "enter copy mode, then start selection" sequencing.
	pending []func()
}

// New creates an inactive machine for a pane. totalLines is
// historySize + paneHeight.
func New(paneID string, historySize, paneHeight int) *Machine {
	return &Machine{
		paneID:     paneID,
		paneHeight: paneHeight,
		totalLines: historySize + paneHeight,
	}
}

// PaneID returns the pane this machine belongs to.
func (m *Machine) PaneID() string {
	return m.paneID
}

// Active reports whether copy mode is on.
func (m *Machine) Active() bool {
	return m.active
}

// Offset returns the current scroll offset in lines from the top of
// history.
func (m *Machine) Offset() int {
	return m.offset
}

// MaxOffset is the bottom-most scroll position (live view).
func (m *Machine) MaxOffset() int {
	if m.totalLines < m.paneHeight {
		return 0
	}
	return m.totalLines - m.paneHeight
}

// AtBottom reports whether the view sits on the live output.
func (m *Machine) AtBottom() bool {
	return m.offset >= m.MaxOffset()
}

// Resize updates the pane geometry after a remote state push and re-clamps
// the offset.
func (m *Machine) Resize(historySize, paneHeight int) {
	m.paneHeight = paneHeight
	m.totalLines = historySize + paneHeight
	m.offset = m.clamp(m.offset)
}

// Enter activates copy mode seeded at the given offset, so entry is
// visually seamless with the gesture that triggered it. Continuations
// queued with Defer run immediately after the transition commits.
func (m *Machine) Enter(seedOffset int) {
	if m.active {
		return
	}
	m.active = true
	m.offset = m.clamp(seedOffset)

	queued := m.pending
	m.pending = nil
	for _, fn := range queued {
		fn()
	}
}

// Exit deactivates copy mode. The selection is discarded and any
// still-pending continuations are dropped: their preconditions no longer
// hold.
func (m *Machine) Exit() {
	m.active = false
	m.offset = m.MaxOffset()
	m.sel = nil
	m.pending = nil
}

// Defer runs fn now if copy mode is active, otherwise queues it to run
// right after the next Enter commits. Callers use this to sequence
// selection-start behind mode entry without timing assumptions.
func (m *Machine) Defer(fn func()) {
	if m.active {
		fn()
		return
	}
	m.pending = append(m.pending, fn)
}

// ScrollBy moves the offset by delta lines (positive is toward the live
// bottom) and returns the clamped result.
func (m *Machine) ScrollBy(delta int) int {
	return m.SetOffset(m.offset + delta)
}

// SetOffset moves the offset to an absolute position, clamped to
// [0, totalLines-paneHeight].
func (m *Machine) SetOffset(offset int) int {
	m.offset = m.clamp(offset)
	return m.offset
}

func (m *Machine) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if max := m.MaxOffset(); offset > max {
		return max
	}
	return offset
}
