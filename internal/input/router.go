package input

import (
	"time"

	"github.com/flplima/tmuxy/internal/copymode"
	"github.com/flplima/tmuxy/internal/momentum"
	"github.com/flplima/tmuxy/internal/pane"
	"github.com/flplima/tmuxy/internal/scroll"
	"github.com/flplima/tmuxy/internal/tmuxcmd"
)

// CommandSender dispatches one multiplexer command string, fire and forget.
type CommandSender interface {
	SendCommand(text string)
}

// Tuning holds the engine's behavioral constants.
type Tuning struct {
	// WheelMultiplier scales raw wheel deltas before line conversion.
	WheelMultiplier float64
	// DragThrottle is the minimum interval between consecutive
	// drag-extend emissions.
	DragThrottle time.Duration
	// IndicatorFade is how long the scroll-position indicator stays
	// visible after a reconciled change.
	IndicatorFade time.Duration
	// Momentum tunes inertial touch scrolling.
	Momentum momentum.Config
}

// DefaultTuning returns the stock engine behavior.
func DefaultTuning() Tuning {
	return Tuning{
		WheelMultiplier: 1.0,
		DragThrottle:    30 * time.Millisecond,
		IndicatorFade:   800 * time.Millisecond,
		Momentum:        momentum.DefaultConfig(),
	}
}

// PointerEvent is a mouse down/up/move at client pixel coordinates.
type PointerEvent struct {
	PaneID string
	X, Y   float64
	Button int // 0 left, 1 middle, 2 right
	Shift  bool
	Alt    bool
	Ctrl   bool
	Time   time.Time
}

// WheelEvent is a wheel or trackpad tick. Positive DeltaY scrolls toward
// the live bottom.
type WheelEvent struct {
	PaneID string
	X, Y   float64
	DeltaY float64
	Shift  bool
	Time   time.Time
}

// TouchEvent is a single-finger touch sample.
type TouchEvent struct {
	PaneID string
	X, Y   float64
	Time   time.Time
}

// session is the per-pane engine state: snapshot, layout, copy-mode
// machine, reconciler, accumulators, momentum, and the in-flight gesture.
type session struct {
	pane    pane.Pane
	layout  pane.Layout
	grid    copymode.Grid
	machine *copymode.Machine

	viewport scroll.Viewport
	recon    *scroll.Reconciler

	wheel scroll.Accumulator
	touch scroll.Accumulator

	engine         *momentum.Engine
	touchX, touchY float64
	gesture        *gesture
}

// Router is the engine's composition root. It owns one session per pane
// and wires DOM-shaped events to the classifier, the command encoder, the
// copy-mode machine, and the scroll reconciler.
//
// The router is single-threaded by contract: callers deliver events and
// frame ticks from one goroutine (the update loop), matching the
// cooperative event-driven model of the client.
type Router struct {
	send     CommandSender
	tuning   Tuning
	sessions map[string]*session

	// OnChange, when set, is invoked after any local state transition so
	// the rendering layer can refresh.
	OnChange func(paneID string)
}

// NewRouter creates a router dispatching commands through send.
func NewRouter(send CommandSender, tuning Tuning) *Router {
	if tuning.WheelMultiplier == 0 {
		tuning.WheelMultiplier = 1.0
	}
	return &Router{
		send:     send,
		tuning:   tuning,
		sessions: make(map[string]*session),
	}
}

func (r *Router) session(id string) *session {
	return r.sessions[id]
}

func (r *Router) changed(s *session) {
	if r.OnChange != nil {
		r.OnChange(s.pane.ID)
	}
}

// UpdatePane applies a remote state push for one pane, creating its
// session on first sight. If the remote side claims the pointer or enters
// its own copy mode, the local simulation yields.
func (r *Router) UpdatePane(p pane.Pane) {
	s := r.sessions[p.ID]
	if s == nil {
		s = &session{
			machine: copymode.New(p.ID, p.HistorySize, p.Height),
			engine:  momentum.NewEngine(r.tuning.Momentum),
		}
		r.sessions[p.ID] = s
	}
	s.pane = p
	s.machine.Resize(p.HistorySize, p.Height)

	if s.machine.Active() && (p.InMode || p.MouseAnyFlag) {
		s.machine.Exit()
		if s.recon != nil {
			s.recon.PinBottom()
		}
		r.changed(s)
	}
}

// RemovePane drops all state for a closed pane. Any gesture or coast in
// flight is silently cancelled; continuations keyed to the pane can never
// run again.
func (r *Router) RemovePane(id string) {
	if s := r.sessions[id]; s != nil {
		s.engine.Cancel()
	}
	delete(r.sessions, id)
}

// SetLayout records the measured content rectangle for a pane. The
// reconciler is (re)built when the line height changes.
func (r *Router) SetLayout(id string, l pane.Layout) {
	s := r.session(id)
	if s == nil {
		return
	}
	rebuild := s.viewport != nil && l.CharHeight > 0 &&
		(s.recon == nil || s.layout.CharHeight != l.CharHeight)
	s.layout = l
	if rebuild {
		s.recon = scroll.NewReconciler(s.viewport, l.CharHeight, r.tuning.IndicatorFade)
	}
}

// AttachViewport connects the pane's native scroll container.
func (r *Router) AttachViewport(id string, vp scroll.Viewport) {
	s := r.session(id)
	if s == nil {
		return
	}
	s.viewport = vp
	if s.layout.CharHeight > 0 {
		s.recon = scroll.NewReconciler(vp, s.layout.CharHeight, r.tuning.IndicatorFade)
	}
}

// SetGrid connects the text content provider used for word selection and
// clipboard extraction.
func (r *Router) SetGrid(id string, g copymode.Grid) {
	if s := r.session(id); s != nil {
		s.grid = g
	}
}

// CopyMode exposes the pane's copy-mode state for rendering. Returns nil
// for unknown panes.
func (r *Router) CopyMode(id string) *copymode.Machine {
	if s := r.session(id); s != nil {
		return s.machine
	}
	return nil
}

// SelectedText extracts the current selection's text, or "".
func (r *Router) SelectedText(id string) string {
	s := r.session(id)
	if s == nil || s.grid == nil {
		return ""
	}
	sel := s.machine.Selection()
	if sel == nil {
		return ""
	}
	return sel.Text(s.grid)
}

// IndicatorVisible reports whether the pane's transient scroll indicator
// should render.
func (r *Router) IndicatorVisible(id string, now time.Time) bool {
	s := r.session(id)
	return s != nil && s.recon != nil && s.recon.IndicatorVisible(now)
}

// PointerDown handles a button press.
func (r *Router) PointerDown(ev PointerEvent) {
	s := r.session(ev.PaneID)
	if s == nil {
		return
	}

	mode := Classify(&s.pane, EventClick, ev.Shift)
	if mode == ModeFocus {
		r.send.SendCommand(tmuxcmd.SelectPane(s.pane.ID))
		return
	}

	col, row, ok := s.pane.CellAt(s.layout, ev.X, ev.Y)
	if !ok {
		return
	}

	if mode == ModeMouseProtocol {
		r.send.SendCommand(tmuxcmd.MousePress(s.pane.ID, ev.Button, col, row, ev.Shift, ev.Alt, ev.Ctrl))
	}
	s.gesture = newGesture(ev.Button, mode, col, row)
}

// PointerMove handles pointer motion. Hover (no button held) is never
// forwarded; motion inside an in-flight gesture either streams SGR drags
// or extends the local selection, throttled either way.
func (r *Router) PointerMove(ev PointerEvent) {
	s := r.session(ev.PaneID)
	if s == nil || s.gesture == nil {
		return
	}
	g := s.gesture

	col, row, ok := s.pane.CellAt(s.layout, ev.X, ev.Y)
	if !ok {
		return
	}

	if g.mode == ModeMouseProtocol {
		if !g.moved(col, row) || g.throttled(ev.Time, r.tuning.DragThrottle) {
			return
		}
		r.send.SendCommand(tmuxcmd.MouseDrag(s.pane.ID, g.button, col, row, ev.Shift, ev.Alt, ev.Ctrl))
		g.lastCol, g.lastRow = col, row
		g.dragging = true
		g.emitted(ev.Time)
		return
	}

	if !g.dragging {
		if !g.moved(col, row) {
			return
		}
		g.dragging = true
		if Classify(&s.pane, EventDrag, ev.Shift) == ModeCopyLocal {
			r.beginDragSelection(s, g)
		}
	}

	if !g.selecting || g.throttled(ev.Time, r.tuning.DragThrottle) {
		g.lastCol, g.lastRow = col, row
		return
	}
	m := s.machine
	if m.Active() {
		m.ExtendSelection(m.Offset()+row, col)
		g.emitted(ev.Time)
		r.changed(s)
	}
	g.lastCol, g.lastRow = col, row
}

// beginDragSelection starts a character selection at the gesture's starting
// cell. If copy mode must first be entered, the selection-start runs as a
// continuation after the entry transition commits; there is no timer race.
func (r *Router) beginDragSelection(s *session, g *gesture) {
	m := s.machine
	g.selecting = true
	startCol, startRow := g.startCol, g.startRow

	m.Defer(func() {
		m.StartSelection(copymode.SelectionChar, m.Offset()+startRow, startCol)
	})
	if !m.Active() {
		// Seed at the bottom: that is where the drag visually started.
		m.Enter(m.MaxOffset())
	}
	r.changed(s)
}

// PointerUp handles a button release and ends the gesture.
func (r *Router) PointerUp(ev PointerEvent) {
	s := r.session(ev.PaneID)
	if s == nil || s.gesture == nil {
		return
	}
	g := s.gesture
	s.gesture = nil

	if g.mode == ModeMouseProtocol {
		if col, row, ok := s.pane.CellAt(s.layout, ev.X, ev.Y); ok {
			r.send.SendCommand(tmuxcmd.MouseRelease(s.pane.ID, g.button, col, row, ev.Shift, ev.Alt, ev.Ctrl))
		}
	}
}

// PointerLeave cancels an in-flight gesture when the pointer exits the
// pane. A mouse-protocol gesture gets a release at its last known cell so
// the remote application does not see a stuck button.
func (r *Router) PointerLeave(paneID string) {
	s := r.session(paneID)
	if s == nil || s.gesture == nil {
		return
	}
	g := s.gesture
	s.gesture = nil

	if g.mode == ModeMouseProtocol {
		r.send.SendCommand(tmuxcmd.MouseRelease(s.pane.ID, g.button, g.lastCol, g.lastRow, false, false, false))
	}
}

// DoubleClick handles word selection. Entry and selection-start are
// sequenced through the machine's continuation queue.
func (r *Router) DoubleClick(ev PointerEvent) {
	s := r.session(ev.PaneID)
	if s == nil {
		return
	}

	switch Classify(&s.pane, EventDoubleClick, ev.Shift) {
	case ModeFocus:
		r.send.SendCommand(tmuxcmd.SelectPane(s.pane.ID))
	case ModeCopyLocal:
		col, row, ok := s.pane.CellAt(s.layout, ev.X, ev.Y)
		if !ok {
			return
		}
		m := s.machine
		m.Defer(func() {
			if s.grid != nil {
				m.StartWordSelection(s.grid, m.Offset()+row, col)
			} else {
				m.StartSelection(copymode.SelectionChar, m.Offset()+row, col)
			}
		})
		if !m.Active() {
			m.Enter(m.MaxOffset())
		}
		r.changed(s)
	}
}

// Wheel handles a wheel tick, routing it per the pane's protocol mode.
func (r *Router) Wheel(ev WheelEvent) {
	s := r.session(ev.PaneID)
	if s == nil {
		return
	}

	switch Classify(&s.pane, EventWheel, ev.Shift) {
	case ModeMouseProtocol:
		col, row, ok := s.pane.CellAt(s.layout, ev.X, ev.Y)
		if !ok {
			return
		}
		r.send.SendCommand(tmuxcmd.MouseWheel(s.pane.ID, ev.DeltaY < 0, col, row))

	case ModeAlternateKeys:
		lines := s.wheel.Convert(ev.DeltaY*r.tuning.WheelMultiplier, s.layout.CharHeight)
		for _, cmd := range tmuxcmd.ArrowKeys(s.pane.ID, lines) {
			r.send.SendCommand(cmd)
		}

	case ModeCopyLocal:
		if !s.layout.Valid() {
			return
		}
		lines := s.wheel.Convert(ev.DeltaY*r.tuning.WheelMultiplier, s.layout.CharHeight)
		if lines == 0 {
			return
		}
		if s.pane.InMode {
			// The remote side owns scrollback while its copy mode is
			// active: forward a line-quantized scroll instead of
			// simulating locally.
			r.send.SendCommand(tmuxcmd.ScrollLines(s.pane.ID, lines))
			return
		}
		r.applyLocalScroll(s, lines, ev.Time)
	}
}

// applyLocalScroll moves the local copy-mode offset by whole lines,
// entering on the first upward motion and exiting when the view returns to
// the live bottom. No remote command is involved.
func (r *Router) applyLocalScroll(s *session, lines int, now time.Time) {
	m := s.machine
	if !m.Active() {
		if lines >= 0 || s.pane.HistorySize == 0 {
			return
		}
		// Seed from the gesture's implied position so entry is seamless.
		m.Enter(m.MaxOffset() + lines)
	} else {
		m.ScrollBy(lines)
		if m.AtBottom() {
			m.Exit()
			if s.recon != nil {
				s.recon.PinBottom()
			}
			r.changed(s)
			return
		}
	}
	if s.recon != nil {
		s.recon.SyncFromState(m.Offset(), now)
	}
	r.changed(s)
}

// ViewportScrolled handles a native scroll event from the pane's scroll
// container. Echoes of our own writes are discarded by the reconciler;
// genuine user scrolls become state updates (entering copy mode when they
// leave the bottom).
func (r *Router) ViewportScrolled(paneID string, now time.Time) {
	s := r.session(paneID)
	if s == nil || s.recon == nil {
		return
	}
	off, ok := s.recon.ViewportScrolled()
	if !ok {
		return
	}

	m := s.machine
	if !m.Active() {
		if s.pane.HistorySize == 0 || off >= m.MaxOffset() {
			return
		}
		m.Enter(off)
	} else {
		m.SetOffset(off)
		if m.AtBottom() {
			m.Exit()
			r.changed(s)
			return
		}
	}
	s.recon.SyncFromState(m.Offset(), now)
	r.changed(s)
}

// ContentUpdated is called when new remote output arrives. Outside copy
// mode the viewport stays pinned to the bottom.
func (r *Router) ContentUpdated(paneID string) {
	s := r.session(paneID)
	if s == nil || s.recon == nil {
		return
	}
	if !s.machine.Active() {
		s.recon.PinBottom()
	}
}
