package input_test

import (
	"testing"
	"time"

	"github.com/flplima/tmuxy/internal/copymode"
	"github.com/flplima/tmuxy/internal/input"
	"github.com/flplima/tmuxy/internal/pane"
)

// ============================================================================
// Test Fixtures
// ============================================================================

type captureSender struct {
	cmds []string
}

func (c *captureSender) SendCommand(text string) {
	c.cmds = append(c.cmds, text)
}

type fakeViewport struct {
	top    float64
	max    float64
	writes int
}

func (v *fakeViewport) ScrollTop() float64 { return v.top }

func (v *fakeViewport) SetScrollTop(px float64) {
	v.top = px
	v.writes++
}

func (v *fakeViewport) MaxScrollTop() float64 { return v.max }

type fakeGrid map[int]string

func (g fakeGrid) Line(absRow int) string { return g[absRow] }

// standardLayout is an 80x24 pane measured at 10x20 pixel cells.
func standardLayout() pane.Layout {
	return pane.Layout{
		Width:      800,
		Height:     480,
		CharWidth:  10,
		CharHeight: 20,
	}
}

func newTestRouter() (*input.Router, *captureSender) {
	cs := &captureSender{}
	return input.NewRouter(cs, input.DefaultTuning()), cs
}

func addPane(r *input.Router, p pane.Pane) {
	r.UpdatePane(p)
	r.SetLayout(p.ID, standardLayout())
}

// ============================================================================
// Local Copy-Mode Scrolling
// ============================================================================

func TestWheelInCopyModeScrollsLocally(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})

	m := r.CopyMode("%1")
	m.Enter(10)

	// 60px at a 20px line height is exactly 3 lines toward the bottom.
	r.Wheel(input.WheelEvent{PaneID: "%1", DeltaY: 60, Time: time.Now()})

	if !m.Active() {
		t.Fatal("copy mode exited, want still active")
	}
	if got := m.Offset(); got != 13 {
		t.Errorf("offset = %d, want 13", got)
	}
	if len(cs.cmds) != 0 {
		t.Errorf("sent %d commands, want none: %q", len(cs.cmds), cs.cmds)
	}
}

func TestWheelUpEntersCopyModeSeeded(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})

	r.Wheel(input.WheelEvent{PaneID: "%1", DeltaY: -60, Time: time.Now()})

	m := r.CopyMode("%1")
	if !m.Active() {
		t.Fatal("copy mode not entered")
	}
	// Seeded at the gesture's implied position: bottom (50) minus 3 lines.
	if got := m.Offset(); got != 47 {
		t.Errorf("offset = %d, want 47", got)
	}
	if len(cs.cmds) != 0 {
		t.Errorf("sent %d commands, want none: %q", len(cs.cmds), cs.cmds)
	}
}

func TestWheelUpWithoutHistoryDoesNothing(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 0})

	r.Wheel(input.WheelEvent{PaneID: "%1", DeltaY: -60, Time: time.Now()})

	if r.CopyMode("%1").Active() {
		t.Error("copy mode entered with no history")
	}
	if len(cs.cmds) != 0 {
		t.Errorf("sent %d commands, want none", len(cs.cmds))
	}
}

func TestScrollToBottomExitsCopyMode(t *testing.T) {
	r, _ := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})

	m := r.CopyMode("%1")
	m.Enter(48)

	// 3 lines down clamps at 50, the live view.
	r.Wheel(input.WheelEvent{PaneID: "%1", DeltaY: 60, Time: time.Now()})

	if m.Active() {
		t.Error("copy mode still active at bottom, want auto-exit")
	}
}

func TestSubLineWheelAccumulates(t *testing.T) {
	r, _ := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})

	m := r.CopyMode("%1")
	m.Enter(10)

	// One 15px tick is under a line and moves nothing.
	now := time.Now()
	r.Wheel(input.WheelEvent{PaneID: "%1", DeltaY: 15, Time: now})
	if got := m.Offset(); got != 10 {
		t.Errorf("offset after sub-line tick = %d, want 10", got)
	}

	// Three more ticks bring the running total to 60px: exactly 3 lines,
	// nothing lost to rounding.
	for i := 0; i < 3; i++ {
		r.Wheel(input.WheelEvent{PaneID: "%1", DeltaY: 15, Time: now})
	}
	if got := m.Offset(); got != 13 {
		t.Errorf("offset after 60px total = %d, want 13", got)
	}
}

// ============================================================================
// Mouse Protocol Forwarding
// ============================================================================

func TestMouseProtocolClickForwardsSGR(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%3", Width: 80, Height: 24, MouseAnyFlag: true})

	// Pixel (19,41) at 10x20 cells is cell (1,2), reported 1-indexed.
	r.PointerDown(input.PointerEvent{PaneID: "%3", X: 19, Y: 41, Time: time.Now()})

	want := "send-keys -t %3 -l \x1b[<0;2;3M"
	if len(cs.cmds) != 1 {
		t.Fatalf("sent %d commands, want 1: %q", len(cs.cmds), cs.cmds)
	}
	if cs.cmds[0] != want {
		t.Errorf("command = %q, want %q", cs.cmds[0], want)
	}
	if r.CopyMode("%3").Active() {
		t.Error("copy mode entered for mouse-protocol pane")
	}
}

func TestMouseProtocolDragStreamsMotion(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%3", Width: 80, Height: 24, MouseAnyFlag: true})

	base := time.Now()
	r.PointerDown(input.PointerEvent{PaneID: "%3", X: 5, Y: 5, Time: base})
	r.PointerMove(input.PointerEvent{PaneID: "%3", X: 15, Y: 5, Time: base.Add(50 * time.Millisecond)})
	r.PointerUp(input.PointerEvent{PaneID: "%3", X: 15, Y: 5, Time: base.Add(100 * time.Millisecond)})

	want := []string{
		"send-keys -t %3 -l \x1b[<0;1;1M",
		"send-keys -t %3 -l \x1b[<32;2;1M",
		"send-keys -t %3 -l \x1b[<0;2;1m",
	}
	if len(cs.cmds) != len(want) {
		t.Fatalf("sent %d commands, want %d: %q", len(cs.cmds), len(want), cs.cmds)
	}
	for i := range want {
		if cs.cmds[i] != want[i] {
			t.Errorf("command[%d] = %q, want %q", i, cs.cmds[i], want[i])
		}
	}
}

func TestMouseProtocolDragThrottled(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%3", Width: 80, Height: 24, MouseAnyFlag: true})

	base := time.Now()
	r.PointerDown(input.PointerEvent{PaneID: "%3", X: 5, Y: 5, Time: base})
	r.PointerMove(input.PointerEvent{PaneID: "%3", X: 15, Y: 5, Time: base.Add(40 * time.Millisecond)})
	// Inside the throttle window: suppressed.
	r.PointerMove(input.PointerEvent{PaneID: "%3", X: 25, Y: 5, Time: base.Add(45 * time.Millisecond)})
	// Past the window: emitted.
	r.PointerMove(input.PointerEvent{PaneID: "%3", X: 35, Y: 5, Time: base.Add(90 * time.Millisecond)})

	if got := len(cs.cmds); got != 3 {
		t.Errorf("sent %d commands, want 3 (press + 2 drags): %q", got, cs.cmds)
	}
}

func TestNoLayoutMeansNoCommand(t *testing.T) {
	r, cs := newTestRouter()
	r.UpdatePane(pane.Pane{ID: "%3", Width: 80, Height: 24, MouseAnyFlag: true})

	r.PointerDown(input.PointerEvent{PaneID: "%3", X: 19, Y: 41, Time: time.Now()})

	if len(cs.cmds) != 0 {
		t.Errorf("sent %d commands without a layout, want none: %q", len(cs.cmds), cs.cmds)
	}
}

func TestPointerLeaveReleasesHeldButton(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%3", Width: 80, Height: 24, MouseAnyFlag: true})

	base := time.Now()
	r.PointerDown(input.PointerEvent{PaneID: "%3", X: 5, Y: 5, Time: base})
	r.PointerLeave("%3")

	want := "send-keys -t %3 -l \x1b[<0;1;1m"
	if len(cs.cmds) != 2 || cs.cmds[1] != want {
		t.Errorf("commands = %q, want release %q last", cs.cmds, want)
	}

	// The gesture is gone; a further release must not emit again.
	r.PointerUp(input.PointerEvent{PaneID: "%3", X: 5, Y: 5, Time: base})
	if len(cs.cmds) != 2 {
		t.Errorf("sent %d commands after cancelled gesture, want 2", len(cs.cmds))
	}
}

// ============================================================================
// Alternate Screen Wheel Conversion
// ============================================================================

func TestAlternateScreenWheelBecomesArrowKeys(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%2", Width: 80, Height: 24, AlternateOn: true})

	r.Wheel(input.WheelEvent{PaneID: "%2", DeltaY: -60, Time: time.Now()})

	want := []string{
		"send-keys -t %2 Up",
		"send-keys -t %2 Up",
		"send-keys -t %2 Up",
	}
	if len(cs.cmds) != len(want) {
		t.Fatalf("sent %d commands, want %d: %q", len(cs.cmds), len(want), cs.cmds)
	}
	for i := range want {
		if cs.cmds[i] != want[i] {
			t.Errorf("command[%d] = %q, want %q", i, cs.cmds[i], want[i])
		}
	}
	if r.CopyMode("%2").Active() {
		t.Error("copy mode entered for alternate-screen pane")
	}
}

func TestAlternateScreenSubLineWheelSendsNothing(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%2", Width: 80, Height: 24, AlternateOn: true})

	r.Wheel(input.WheelEvent{PaneID: "%2", DeltaY: -15, Time: time.Now()})

	if len(cs.cmds) != 0 {
		t.Errorf("sent %d commands for sub-line delta, want none: %q", len(cs.cmds), cs.cmds)
	}
}

// ============================================================================
// Remote Copy Mode Forwarding
// ============================================================================

func TestWheelForwardsToRemoteCopyMode(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%4", Width: 80, Height: 24, HistorySize: 100, InMode: true})

	r.Wheel(input.WheelEvent{PaneID: "%4", DeltaY: -60, Time: time.Now()})

	want := "copy-mode -t %4 \\; send-keys -t %4 -X -N 3 scroll-up"
	if len(cs.cmds) != 1 || cs.cmds[0] != want {
		t.Errorf("commands = %q, want [%q]", cs.cmds, want)
	}
	if r.CopyMode("%4").Active() {
		t.Error("local copy mode entered while remote mode owns scrollback")
	}
}

// ============================================================================
// Focus
// ============================================================================

func TestShiftClickFocusesPane(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%3", Width: 80, Height: 24, MouseAnyFlag: true})

	r.PointerDown(input.PointerEvent{PaneID: "%3", X: 19, Y: 41, Shift: true, Time: time.Now()})

	want := "select-pane -t %3"
	if len(cs.cmds) != 1 || cs.cmds[0] != want {
		t.Errorf("commands = %q, want [%q]", cs.cmds, want)
	}
}

// ============================================================================
// Drag Selection Sequencing
// ============================================================================

func TestDragStartsSelectionAfterModeEntry(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})

	base := time.Now()
	r.PointerDown(input.PointerEvent{PaneID: "%1", X: 5, Y: 5, Time: base})
	r.PointerMove(input.PointerEvent{PaneID: "%1", X: 5, Y: 45, Time: base.Add(50 * time.Millisecond)})

	m := r.CopyMode("%1")
	if !m.Active() {
		t.Fatal("drag did not enter copy mode")
	}
	sel := m.Selection()
	if sel == nil {
		t.Fatal("drag did not start a selection")
	}
	// The anchor is the press cell in absolute rows: offset 50 + row 0.
	if want := (copymode.Position{Row: 50, Col: 0}); sel.Anchor != want {
		t.Errorf("anchor = %+v, want %+v", sel.Anchor, want)
	}
	if want := (copymode.Position{Row: 52, Col: 0}); sel.Cursor != want {
		t.Errorf("cursor = %+v, want %+v", sel.Cursor, want)
	}
	if len(cs.cmds) != 0 {
		t.Errorf("local selection sent %d commands, want none: %q", len(cs.cmds), cs.cmds)
	}
}

func TestPlainClickWithoutMotionStaysLocal(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})

	base := time.Now()
	r.PointerDown(input.PointerEvent{PaneID: "%1", X: 5, Y: 5, Time: base})
	r.PointerUp(input.PointerEvent{PaneID: "%1", X: 5, Y: 5, Time: base.Add(80 * time.Millisecond)})

	if r.CopyMode("%1").Active() {
		t.Error("plain click entered copy mode")
	}
	if len(cs.cmds) != 0 {
		t.Errorf("plain click sent %d commands, want none: %q", len(cs.cmds), cs.cmds)
	}
}

func TestDoubleClickSelectsWord(t *testing.T) {
	r, _ := newTestRouter()
	addPane(r, pane.Pane{ID: "%5", Width: 80, Height: 24})
	r.SetGrid("%5", fakeGrid{0: "hello world"})

	// Cell (1,0) sits inside "hello".
	r.DoubleClick(input.PointerEvent{PaneID: "%5", X: 12, Y: 5, Time: time.Now()})

	m := r.CopyMode("%5")
	if !m.Active() {
		t.Fatal("double click did not enter copy mode")
	}
	if got := r.SelectedText("%5"); got != "hello" {
		t.Errorf("selected text = %q, want %q", got, "hello")
	}
}

// ============================================================================
// Remote State Pushes
// ============================================================================

func TestRemoteModeClaimExitsLocalCopyMode(t *testing.T) {
	r, _ := newTestRouter()
	p := pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50}
	addPane(r, p)

	m := r.CopyMode("%1")
	m.Enter(10)

	p.InMode = true
	r.UpdatePane(p)

	if m.Active() {
		t.Error("local copy mode survived a remote mode claim")
	}
}

func TestResizeReclampsOffset(t *testing.T) {
	r, _ := newTestRouter()
	p := pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50}
	addPane(r, p)

	m := r.CopyMode("%1")
	m.Enter(45)

	// History shrinks under the current offset.
	p.HistorySize = 20
	r.UpdatePane(p)

	if got := m.Offset(); got != 20 {
		t.Errorf("offset after shrink = %d, want 20", got)
	}
}

func TestRemovePaneDropsEventsSilently(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})

	base := time.Now()
	r.PointerDown(input.PointerEvent{PaneID: "%1", X: 5, Y: 5, Time: base})
	r.RemovePane("%1")

	r.PointerMove(input.PointerEvent{PaneID: "%1", X: 5, Y: 45, Time: base.Add(time.Millisecond)})
	r.Wheel(input.WheelEvent{PaneID: "%1", DeltaY: -60, Time: base})
	r.Frame(base.Add(time.Second))

	if len(cs.cmds) != 0 {
		t.Errorf("removed pane still produced commands: %q", cs.cmds)
	}
	if r.CopyMode("%1") != nil {
		t.Error("removed pane still has a session")
	}
}

// ============================================================================
// Viewport Reconciliation
// ============================================================================

func TestNativeScrollEntersCopyModeWithoutEcho(t *testing.T) {
	r, _ := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})
	vp := &fakeViewport{top: 1000, max: 1000}
	r.AttachViewport("%1", vp)

	now := time.Now()
	vp.top = 600 // user scrolls to line 30
	r.ViewportScrolled("%1", now)

	m := r.CopyMode("%1")
	if !m.Active() {
		t.Fatal("native scroll did not enter copy mode")
	}
	if got := m.Offset(); got != 30 {
		t.Errorf("offset = %d, want 30", got)
	}
	// The offset originated in the viewport; writing it back would jitter.
	if vp.writes != 0 {
		t.Errorf("viewport written %d times for its own scroll, want 0", vp.writes)
	}
}

func TestWheelWritesViewportOnce(t *testing.T) {
	r, _ := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})
	vp := &fakeViewport{top: 1000, max: 1000}
	r.AttachViewport("%1", vp)

	m := r.CopyMode("%1")
	m.Enter(10)
	r.Wheel(input.WheelEvent{PaneID: "%1", DeltaY: 60, Time: time.Now()})

	if vp.writes != 1 {
		t.Errorf("viewport written %d times, want 1", vp.writes)
	}
	if got := vp.top; got != 260 {
		t.Errorf("scrollTop = %v, want 260", got)
	}
}

func TestContentUpdatePinsBottomOutsideCopyMode(t *testing.T) {
	r, _ := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})
	vp := &fakeViewport{top: 400, max: 1000}
	r.AttachViewport("%1", vp)

	r.ContentUpdated("%1")
	if got := vp.top; got != 1000 {
		t.Errorf("scrollTop = %v, want pinned to 1000", got)
	}

	r.CopyMode("%1").Enter(10)
	vp.writes = 0
	r.ContentUpdated("%1")
	if vp.writes != 0 {
		t.Errorf("viewport written while browsing history, want untouched")
	}
}

// ============================================================================
// Touch and Momentum
// ============================================================================

func TestTouchScrollEntersAndCoasts(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})

	base := time.Now()
	r.TouchStart(input.TouchEvent{PaneID: "%1", X: 100, Y: 500, Time: base})
	// Finger moves down 60px per frame: content scrolls up 3 lines each.
	r.TouchMove(input.TouchEvent{PaneID: "%1", X: 100, Y: 560, Time: base.Add(16 * time.Millisecond)})
	r.TouchMove(input.TouchEvent{PaneID: "%1", X: 100, Y: 620, Time: base.Add(32 * time.Millisecond)})

	m := r.CopyMode("%1")
	if !m.Active() {
		t.Fatal("touch scroll did not enter copy mode")
	}
	if got := m.Offset(); got != 44 {
		t.Errorf("offset after moves = %d, want 44", got)
	}

	r.TouchEnd(input.TouchEvent{PaneID: "%1", X: 100, Y: 620, Time: base.Add(32 * time.Millisecond)})
	more := r.Frame(base.Add(52 * time.Millisecond))
	if !more {
		t.Fatal("coast ended immediately, want continued frames")
	}
	if got := m.Offset(); got >= 44 {
		t.Errorf("offset after coast frame = %d, want further into history", got)
	}
	if len(cs.cmds) != 0 {
		t.Errorf("touch scroll sent %d commands, want none: %q", len(cs.cmds), cs.cmds)
	}
}

func TestNewTouchCancelsCoast(t *testing.T) {
	r, _ := newTestRouter()
	addPane(r, pane.Pane{ID: "%1", Width: 80, Height: 24, HistorySize: 50})

	base := time.Now()
	r.TouchStart(input.TouchEvent{PaneID: "%1", X: 100, Y: 500, Time: base})
	r.TouchMove(input.TouchEvent{PaneID: "%1", X: 100, Y: 560, Time: base.Add(16 * time.Millisecond)})
	r.TouchMove(input.TouchEvent{PaneID: "%1", X: 100, Y: 620, Time: base.Add(32 * time.Millisecond)})
	r.TouchEnd(input.TouchEvent{PaneID: "%1", X: 100, Y: 620, Time: base.Add(32 * time.Millisecond)})

	// A new finger lands before the next frame fires.
	r.TouchStart(input.TouchEvent{PaneID: "%1", X: 100, Y: 300, Time: base.Add(40 * time.Millisecond)})

	offset := r.CopyMode("%1").Offset()
	if more := r.Frame(base.Add(60 * time.Millisecond)); more {
		t.Error("stale coast frame still live after new touch")
	}
	if got := r.CopyMode("%1").Offset(); got != offset {
		t.Errorf("stale frame moved offset from %d to %d", offset, got)
	}
}

func TestTouchOnAlternateScreenSendsKeys(t *testing.T) {
	r, cs := newTestRouter()
	addPane(r, pane.Pane{ID: "%2", Width: 80, Height: 24, AlternateOn: true})

	base := time.Now()
	r.TouchStart(input.TouchEvent{PaneID: "%2", X: 100, Y: 500, Time: base})
	r.TouchMove(input.TouchEvent{PaneID: "%2", X: 100, Y: 560, Time: base.Add(16 * time.Millisecond)})

	want := []string{
		"send-keys -t %2 Up",
		"send-keys -t %2 Up",
		"send-keys -t %2 Up",
	}
	if len(cs.cmds) != len(want) {
		t.Fatalf("sent %d commands, want %d: %q", len(cs.cmds), len(want), cs.cmds)
	}
	for i := range want {
		if cs.cmds[i] != want[i] {
			t.Errorf("command[%d] = %q, want %q", i, cs.cmds[i], want[i])
		}
	}
}
