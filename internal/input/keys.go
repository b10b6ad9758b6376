package input

import (
	"time"

	"github.com/flplima/tmuxy/internal/tmuxcmd"
)

// Keyboard-driven copy-mode actions. These reuse the same local scroll
// path as wheel gestures, so entry seeding, bottom auto-exit, and viewport
// reconciliation behave identically regardless of input device.

// KeyScroll moves the local copy-mode offset by whole lines. Negative
// lines scroll up; an upward scroll outside copy mode enters it.
func (r *Router) KeyScroll(paneID string, lines int, now time.Time) {
	s := r.session(paneID)
	if s == nil || lines == 0 {
		return
	}
	if s.pane.InMode {
		r.send.SendCommand(tmuxcmd.ScrollLines(s.pane.ID, lines))
		return
	}
	r.applyLocalScroll(s, lines, now)
}

// PageScroll scrolls by half the pane height.
func (r *Router) PageScroll(paneID string, up bool, now time.Time) {
	s := r.session(paneID)
	if s == nil {
		return
	}
	lines := s.pane.Height / 2
	if lines < 1 {
		lines = 1
	}
	if up {
		lines = -lines
	}
	r.KeyScroll(paneID, lines, now)
}

// GoToTop jumps to the oldest history line.
func (r *Router) GoToTop(paneID string, now time.Time) {
	s := r.session(paneID)
	if s == nil || s.pane.HistorySize == 0 {
		return
	}
	m := s.machine
	if !m.Active() {
		m.Enter(0)
	} else {
		m.SetOffset(0)
	}
	if s.recon != nil {
		s.recon.SyncFromState(m.Offset(), now)
	}
	r.changed(s)
}

// GoToBottom returns to the live view, leaving copy mode.
func (r *Router) GoToBottom(paneID string) {
	r.ExitCopyMode(paneID)
}

// ExitCopyMode leaves the local copy mode and pins the viewport back to
// the live bottom.
func (r *Router) ExitCopyMode(paneID string) {
	s := r.session(paneID)
	if s == nil || !s.machine.Active() {
		return
	}
	s.machine.Exit()
	if s.recon != nil {
		s.recon.PinBottom()
	}
	r.changed(s)
}

// ClearSelection drops the selection without leaving copy mode.
func (r *Router) ClearSelection(paneID string) {
	s := r.session(paneID)
	if s == nil {
		return
	}
	s.machine.ClearSelection()
	r.changed(s)
}

// CopySelection extracts the selected text for the clipboard and exits
// copy mode, matching the multiplexer's own copy behavior. ok=false means
// there was nothing to copy.
func (r *Router) CopySelection(paneID string) (text string, ok bool) {
	s := r.session(paneID)
	if s == nil || s.grid == nil {
		return "", false
	}
	sel := s.machine.Selection()
	if sel == nil {
		return "", false
	}
	text = sel.Text(s.grid)
	r.ExitCopyMode(paneID)
	return text, true
}
