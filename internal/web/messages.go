package web

import "github.com/flplima/tmuxy/internal/pane"

// Client -> server message types.
const (
	MsgPointerDown = "pointerdown"
	MsgPointerMove = "pointermove"
	MsgPointerUp   = "pointerup"
	MsgPointerOut  = "pointerout"
	MsgDoubleClick = "dblclick"
	MsgWheel       = "wheel"
	MsgTouchStart  = "touchstart"
	MsgTouchMove   = "touchmove"
	MsgTouchEnd    = "touchend"
	MsgLayout      = "layout"
	MsgScroll      = "scroll"
	MsgKey         = "key"
)

// Server -> client message types.
const (
	MsgPanes     = "panes"
	MsgScrollSet = "scrollset"
	MsgCopyMode  = "copymode"
	MsgCopied    = "copied"
)

// ClientMessage is the envelope for everything the browser sends. Fields
// beyond Type and Pane are populated per message type.
type ClientMessage struct {
	Type string `json:"type"`
	Pane string `json:"pane,omitempty"`

	// Pointer, wheel and touch events
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Button int     `json:"button,omitempty"`
	Shift  bool    `json:"shift,omitempty"`
	Alt    bool    `json:"alt,omitempty"`
	Ctrl   bool    `json:"ctrl,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`

	// Layout reports the measured content rectangle of a rendered pane.
	Layout *LayoutPayload `json:"layout,omitempty"`

	// Scroll reports the native scroll container position.
	ScrollTop    float64 `json:"scrollTop,omitempty"`
	MaxScrollTop float64 `json:"maxScrollTop,omitempty"`

	// Key is a normalized key name for copy-mode keyboard actions.
	Key string `json:"key,omitempty"`
}

// LayoutPayload mirrors pane.Layout on the wire.
type LayoutPayload struct {
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	CharWidth  float64 `json:"charWidth"`
	CharHeight float64 `json:"charHeight"`
}

// ServerMessage is the envelope for everything sent to the browser.
type ServerMessage struct {
	Type string `json:"type"`
	Pane string `json:"pane,omitempty"`

	// Panes carries the full pane list on every remote state push.
	Panes []PanePayload `json:"panes,omitempty"`

	// ScrollTop drives the client's scroll container.
	ScrollTop float64 `json:"scrollTop,omitempty"`

	// Copy-mode state for rendering the overlay.
	Active    bool              `json:"active,omitempty"`
	Offset    int               `json:"offset,omitempty"`
	Indicator bool              `json:"indicator,omitempty"`
	Selection *SelectionPayload `json:"selection,omitempty"`

	// Text carries extracted selection text for the clipboard.
	Text string `json:"text,omitempty"`
}

// PanePayload is one pane snapshot on the wire.
type PanePayload struct {
	ID          string `json:"id"`
	Index       int    `json:"index"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Active      bool   `json:"active"`
	Command     string `json:"command"`
	InMode      bool   `json:"inMode"`
	AlternateOn bool   `json:"alternateOn"`
	MouseAny    bool   `json:"mouseAny"`
	HistorySize int    `json:"historySize"`
	Content     string `json:"content,omitempty"`
}

// SelectionPayload describes the active selection for highlight rendering.
type SelectionPayload struct {
	AnchorRow int `json:"anchorRow"`
	AnchorCol int `json:"anchorCol"`
	CursorRow int `json:"cursorRow"`
	CursorCol int `json:"cursorCol"`
	Mode      int `json:"mode"`
}

func panePayload(p pane.Pane, content string) PanePayload {
	return PanePayload{
		ID:          p.ID,
		Index:       p.Index,
		X:           p.X,
		Y:           p.Y,
		Width:       p.Width,
		Height:      p.Height,
		Active:      p.Active,
		Command:     p.Command,
		InMode:      p.InMode,
		AlternateOn: p.AlternateOn,
		MouseAny:    p.MouseAnyFlag,
		HistorySize: p.HistorySize,
		Content:     content,
	}
}

func (l *LayoutPayload) toLayout() pane.Layout {
	return pane.Layout{
		Left:       l.Left,
		Top:        l.Top,
		Width:      l.Width,
		Height:     l.Height,
		CharWidth:  l.CharWidth,
		CharHeight: l.CharHeight,
	}
}
