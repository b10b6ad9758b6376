package tmuxcmd

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/flplima/tmuxy/internal/pane"
)

// paneFormat is the list-panes format string. Field order must match
// parsePaneLine.
const paneFormat = "#{pane_id},#{pane_index},#{pane_left},#{pane_top}," +
	"#{pane_width},#{pane_height},#{cursor_x},#{cursor_y},#{pane_active}," +
	"#{pane_current_command},#{pane_in_mode},#{alternate_on}," +
	"#{mouse_any_flag},#{history_size}"

// ListPanes returns a snapshot of every pane in the session's current
// window.
func (r *Runner) ListPanes() ([]pane.Pane, error) {
	args := []string{"list-panes", "-F", paneFormat}
	if r.Session != "" {
		args = append(args, "-t", r.Session)
	}
	out, err := r.Exec(args...)
	if err != nil {
		return nil, err
	}
	return ParsePanes(out), nil
}

// ParsePanes parses list-panes output in paneFormat. Malformed lines are
// skipped.
func ParsePanes(out string) []pane.Pane {
	var panes []pane.Pane
	for _, line := range strings.Split(out, "\n") {
		if p, ok := parsePaneLine(line); ok {
			panes = append(panes, p)
		}
	}
	return panes
}

func parsePaneLine(line string) (pane.Pane, bool) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 14 {
		return pane.Pane{}, false
	}
	return pane.Pane{
		ID:           parts[0],
		Index:        atoi(parts[1]),
		X:            atoi(parts[2]),
		Y:            atoi(parts[3]),
		Width:        atoi(parts[4]),
		Height:       atoi(parts[5]),
		CursorX:      atoi(parts[6]),
		CursorY:      atoi(parts[7]),
		Active:       parts[8] == "1",
		Command:      parts[9],
		InMode:       parts[10] == "1",
		AlternateOn:  parts[11] == "1",
		MouseAnyFlag: parts[12] == "1",
		HistorySize:  atoi(parts[13]),
	}, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// CapturePane returns the text content of a pane including its full
// scrollback history, used to back the engine's grid reads.
func (r *Runner) CapturePane(paneID string) ([]string, error) {
	out, err := r.Exec("capture-pane", "-t", paneID, "-p", "-S", "-")
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(out, "\n"), "\n"), nil
}

// Watcher polls pane state and notifies a subscriber whenever it changes.
// This is the remote state push feeding the interaction engine's pane
// snapshots.
type Watcher struct {
	Runner   *Runner
	Interval time.Duration
	OnUpdate func([]pane.Pane)

	last string
}

// Run polls until the context is cancelled. The first successful poll
// always notifies.
func (w *Watcher) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	args := []string{"list-panes", "-F", paneFormat}
	if w.Runner.Session != "" {
		args = append(args, "-t", w.Runner.Session)
	}
	out, err := w.Runner.Exec(args...)
	if err != nil {
		logger.Debug("poll failed", "err", err)
		return
	}
	if out == w.last {
		return
	}
	w.last = out

	if w.OnUpdate != nil {
		w.OnUpdate(ParsePanes(out))
	}
}
