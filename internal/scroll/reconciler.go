package scroll

import (
	"math"
	"time"
)

// Viewport is the native scroll container a reconciler drives. In the
// browser client this is a DOM element proxied over the wire; in tests it
// is a fake with a write counter.
type Viewport interface {
	// ScrollTop returns the container's current scroll position in pixels.
	ScrollTop() float64
	// SetScrollTop moves the container's scroll position.
	SetScrollTop(px float64)
	// MaxScrollTop returns the largest valid scroll position.
	MaxScrollTop() float64
}

// Reconciler keeps a viewport's scrollTop and the copy-mode scroll offset
// consistent while remembering which side initiated each change, so a write
// never re-triggers itself as a read and an echoed offset is never written
// back.
//
// Exactly one synchronous code path touches a reconciler at a time (the
// engine is event-driven, single-threaded per pane), so the re-entrancy
// guard is a plain bool.
type Reconciler struct {
	vp         Viewport
	lineHeight float64
	fade       time.Duration

	// writing is set for the duration of our own SetScrollTop calls;
	// viewport scroll events observed while it is set are our own echo.
	writing bool

	// Single-slot marker for the most recent viewport-originated offset,
	// consumed exactly once by SyncFromState.
	viewportOffset int
	viewportOrigin bool

	lastOffset     int
	haveLastOffset bool

	indicatorUntil time.Time
}

// NewReconciler creates a reconciler for one pane's scroll container.
// lineHeight is the pixel height of one terminal row; fade is how long the
// transient scroll indicator stays visible after a reconciled change.
func NewReconciler(vp Viewport, lineHeight float64, fade time.Duration) *Reconciler {
	return &Reconciler{vp: vp, lineHeight: lineHeight, fade: fade}
}

// ViewportScrolled handles a native scroll event. It returns the line offset
// the viewport now sits at, to be forwarded as a state update. ok=false
// means the event was our own write echoing back and must be ignored.
func (r *Reconciler) ViewportScrolled() (offset int, ok bool) {
	if r.writing {
		return 0, false
	}
	if r.lineHeight <= 0 {
		return 0, false
	}
	offset = int(math.Round(r.vp.ScrollTop() / r.lineHeight))
	if offset < 0 {
		offset = 0
	}
	r.viewportOffset = offset
	r.viewportOrigin = true
	return offset, true
}

// SyncFromState propagates a copy-mode scroll offset change to the viewport.
// If the change merely reflects the viewport's own position the marker is
// consumed and no write happens; rewriting would be redundant and risks
// visible jitter. Repeats of the previous offset (content re-renders that do
// not move the view) are also skipped so native fling feel is preserved.
func (r *Reconciler) SyncFromState(offset int, now time.Time) {
	if r.viewportOrigin && offset == r.viewportOffset {
		r.viewportOrigin = false
		r.noteOffset(offset)
		r.indicatorUntil = now.Add(r.fade)
		return
	}

	if r.haveLastOffset && offset == r.lastOffset {
		return
	}
	r.noteOffset(offset)

	r.writing = true
	r.vp.SetScrollTop(float64(offset) * r.lineHeight)
	r.writing = false

	r.indicatorUntil = now.Add(r.fade)
}

// PinBottom forces the viewport to its maximum scroll position. Used on
// every content update while copy mode is inactive, so live output stays
// glued to the bottom.
func (r *Reconciler) PinBottom() {
	r.writing = true
	r.vp.SetScrollTop(r.vp.MaxScrollTop())
	r.writing = false
}

// IndicatorVisible reports whether the transient scroll-position indicator
// should still be rendered.
func (r *Reconciler) IndicatorVisible(now time.Time) bool {
	return now.Before(r.indicatorUntil)
}

func (r *Reconciler) noteOffset(offset int) {
	r.lastOffset = offset
	r.haveLastOffset = true
}
