// Package input implements the interaction routing engine: it classifies
// pointer, wheel, and touch events against a pane's protocol mode and turns
// them into multiplexer commands or local copy-mode transitions.
package input

import "github.com/flplima/tmuxy/internal/pane"

// EventClass is the kind of gesture being classified.
type EventClass int

const (
	// EventWheel is a scroll wheel or trackpad tick.
	EventWheel EventClass = iota
	// EventDrag is pointer motion with a button held past the drag
	// threshold.
	EventDrag
	// EventClick is a plain button press.
	EventClick
	// EventDoubleClick is a double press (word selection).
	EventDoubleClick
)

// RoutingMode decides who interprets a gesture.
type RoutingMode int

const (
	// ModePassThrough leaves the event with the surrounding application
	// (plain clicks focus, nothing is forwarded).
	ModePassThrough RoutingMode = iota
	// ModeFocus is the pseudo-mode for modifier-qualified clicks: select
	// the pane, nothing else.
	ModeFocus
	// ModeMouseProtocol forwards raw SGR mouse events; the remote
	// application owns pointer semantics.
	ModeMouseProtocol
	// ModeAlternateKeys translates wheel motion into arrow key presses
	// for full-screen applications without scrollback.
	ModeAlternateKeys
	// ModeCopyLocal drives the locally-simulated copy mode.
	ModeCopyLocal
)

// Classify returns the single routing mode governing an event. Precedence
// is strict and ordered: modifier click, then the remote app's mouse
// protocol, then alternate screen (wheel only), then local interpretation.
// Mouse protocol and alternate screen are mutually exclusive remote-app
// declarations and always win over local handling.
func Classify(p *pane.Pane, class EventClass, shift bool) RoutingMode {
	if shift && (class == EventClick || class == EventDoubleClick) {
		return ModeFocus
	}
	if p.MouseAnyFlag {
		return ModeMouseProtocol
	}
	if p.AlternateOn && class == EventWheel {
		return ModeAlternateKeys
	}
	switch class {
	case EventWheel, EventDrag, EventDoubleClick:
		return ModeCopyLocal
	default:
		return ModePassThrough
	}
}
