// Package tmuxcmd builds tmux command strings and executes them against a
// running tmux server. Encoding functions are pure: they produce the exact
// wire text and nothing else, so the interaction engine can hand them to
// any transport.
package tmuxcmd

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
)

// mouseButton maps a client button index (0 left, 1 middle, 2 right) to the
// protocol button.
func mouseButton(button int) ansi.MouseButton {
	switch button {
	case 1:
		return ansi.MouseMiddle
	case 2:
		return ansi.MouseRight
	default:
		return ansi.MouseLeft
	}
}

// literalKeys wraps an escape sequence in a send-keys command. The -l flag
// makes tmux pass the sequence through to the application verbatim.
func literalKeys(paneID, seq string) string {
	return fmt.Sprintf("send-keys -t %s -l %s", paneID, seq)
}

// MousePress encodes an SGR mouse press at a 0-indexed cell. tmux uses SGR
// encoding (mode 1006): ESC [<Cb;Cx;CyM with 1-indexed coordinates.
func MousePress(paneID string, button, col, row int, shift, alt, ctrl bool) string {
	b := ansi.EncodeMouseButton(mouseButton(button), false, shift, alt, ctrl)
	return literalKeys(paneID, ansi.MouseSgr(b, col, row, false))
}

// MouseDrag encodes an SGR mouse motion with the button held. Motion adds
// 32 to the button code.
func MouseDrag(paneID string, button, col, row int, shift, alt, ctrl bool) string {
	b := ansi.EncodeMouseButton(mouseButton(button), true, shift, alt, ctrl)
	return literalKeys(paneID, ansi.MouseSgr(b, col, row, false))
}

// MouseRelease encodes an SGR mouse release (lowercase terminator).
func MouseRelease(paneID string, button, col, row int, shift, alt, ctrl bool) string {
	b := ansi.EncodeMouseButton(mouseButton(button), false, shift, alt, ctrl)
	return literalKeys(paneID, ansi.MouseSgr(b, col, row, true))
}

// MouseWheel encodes an SGR wheel tick. Wheel buttons use their own fixed
// codes (64 up, 65 down), distinct from click buttons.
func MouseWheel(paneID string, up bool, col, row int) string {
	btn := ansi.MouseWheelDown
	if up {
		btn = ansi.MouseWheelUp
	}
	b := ansi.EncodeMouseButton(btn, false, false, false, false)
	return literalKeys(paneID, ansi.MouseSgr(b, col, row, false))
}

// KeyPress encodes a named key press (e.g. "Up", "Down", "Enter").
func KeyPress(paneID, key string) string {
	return fmt.Sprintf("send-keys -t %s %s", paneID, key)
}

// ArrowKeys returns one key-press command per line for alternate-screen
// scrolling: full-screen applications have no scrollback, so wheel motion
// becomes arrow keys. Negative lines scroll up.
func ArrowKeys(paneID string, lines int) []string {
	key := "Down"
	n := lines
	if lines < 0 {
		key = "Up"
		n = -lines
	}
	cmds := make([]string, 0, n)
	for i := 0; i < n; i++ {
		cmds = append(cmds, KeyPress(paneID, key))
	}
	return cmds
}

// ScrollLines returns a compound command that enters the pane's remote copy
// mode if needed and scrolls it by |lines| rows. Negative lines scroll up
// (into history).
func ScrollLines(paneID string, lines int) string {
	dir := "scroll-down"
	n := lines
	if lines < 0 {
		dir = "scroll-up"
		n = -lines
	}
	return fmt.Sprintf("copy-mode -t %s \\; send-keys -t %s -X -N %d %s",
		paneID, paneID, n, dir)
}

// SelectPane focuses a pane by ID.
func SelectPane(paneID string) string {
	return fmt.Sprintf("select-pane -t %s", paneID)
}
