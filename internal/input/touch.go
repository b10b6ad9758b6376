package input

import (
	"time"

	"github.com/flplima/tmuxy/internal/momentum"
	"github.com/flplima/tmuxy/internal/tmuxcmd"
)

// TouchStart begins a touch gesture. Starting a new touch cancels any
// coast still running for the pane.
func (r *Router) TouchStart(ev TouchEvent) {
	s := r.session(ev.PaneID)
	if s == nil {
		return
	}
	s.engine.TouchStart(ev.Y, ev.Time)
	s.touch.Reset()
	s.touchX, s.touchY = ev.X, ev.Y
}

// TouchMove feeds a finger move through the same pipeline as a wheel
// gesture: the engine produces a natural-scrolling pixel delta and the
// accumulator quantizes it to whole lines.
func (r *Router) TouchMove(ev TouchEvent) {
	s := r.session(ev.PaneID)
	if s == nil {
		return
	}
	delta := s.engine.TouchMove(ev.Y, ev.Time)
	s.touchX, s.touchY = ev.X, ev.Y
	if delta != 0 {
		r.routeScrollDelta(s, delta, ev.Time)
	}
}

// TouchEnd lifts the finger. If the release velocity clears the threshold
// the engine starts coasting and Frame keeps producing deltas.
func (r *Router) TouchEnd(ev TouchEvent) {
	s := r.session(ev.PaneID)
	if s == nil {
		return
	}
	s.engine.TouchEnd(ev.Time)
}

// Frame advances all coasting panes by one animation frame. It reports
// whether any coast is still live, so the caller knows to schedule another
// frame.
func (r *Router) Frame(now time.Time) bool {
	live := false
	for _, s := range r.sessions {
		if s.engine.Phase() != momentum.Coasting {
			continue
		}
		delta, more := s.engine.Step(s.engine.Generation(), now)
		if delta != 0 {
			r.routeScrollDelta(s, delta, now)
		}
		if more {
			live = true
		}
	}
	return live
}

// routeScrollDelta applies a pixel scroll delta (touch or synthetic coast)
// using the same classification wheel ticks get. Touch scrolling carries
// no modifier keys.
func (r *Router) routeScrollDelta(s *session, deltaPixels float64, now time.Time) {
	switch Classify(&s.pane, EventWheel, false) {
	case ModeMouseProtocol:
		col, row, ok := s.pane.CellAt(s.layout, s.touchX, s.touchY)
		if !ok {
			return
		}
		lines := s.touch.Convert(deltaPixels, s.layout.CharHeight)
		up := lines < 0
		for n := abs(lines); n > 0; n-- {
			r.send.SendCommand(tmuxcmd.MouseWheel(s.pane.ID, up, col, row))
		}

	case ModeAlternateKeys:
		lines := s.touch.Convert(deltaPixels, s.layout.CharHeight)
		for _, cmd := range tmuxcmd.ArrowKeys(s.pane.ID, lines) {
			r.send.SendCommand(cmd)
		}

	case ModeCopyLocal:
		if !s.layout.Valid() {
			return
		}
		lines := s.touch.Convert(deltaPixels, s.layout.CharHeight)
		if lines == 0 {
			return
		}
		if s.pane.InMode {
			r.send.SendCommand(tmuxcmd.ScrollLines(s.pane.ID, lines))
			return
		}
		r.applyLocalScroll(s, lines, now)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
