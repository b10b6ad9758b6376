package tmuxcmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tmux",
	})
}

// SetLogLevel sets the logging level for the tmuxcmd package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// sessionTargetedCommands need a -t target so a command can never affect
// the wrong session.
var sessionTargetedCommands = map[string]bool{
	"select-window":   true,
	"select-pane":     true,
	"split-window":    true,
	"new-window":      true,
	"kill-window":     true,
	"kill-pane":       true,
	"resize-window":   true,
	"resize-pane":     true,
	"next-window":     true,
	"previous-window": true,
	"copy-mode":       true,
	"send-keys":       true,
	"capture-pane":    true,
	"display-message": true,
	"list-panes":      true,
}

// Runner executes tmux commands for one session. It implements the
// engine's command sender: SendCommand is fire-and-forget, failures are
// logged and swallowed.
type Runner struct {
	Session string
}

// NewRunner creates a runner targeting the named tmux session.
func NewRunner(session string) *Runner {
	return &Runner{Session: session}
}

// Exec runs tmux with the given arguments and returns its stdout.
func (r *Runner) Exec(args ...string) (string, error) {
	out, err := exec.Command("tmux", args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("tmux %s: %s", args[0], strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("tmux %s: %w", args[0], err)
	}
	return string(out), nil
}

// SendCommand dispatches one command string produced by the encoder. A
// compound command separated by `\;` becomes multiple tmux commands in a
// single invocation. No acknowledgement is awaited.
func (r *Runner) SendCommand(text string) {
	args := splitCommand(text)
	if len(args) == 0 {
		return
	}
	args = r.addSessionTarget(args)

	logger.Debug("send", "cmd", strings.Join(args, " "))
	if _, err := r.Exec(args...); err != nil {
		logger.Warn("command failed", "cmd", args[0], "err", err)
	}
}

// splitCommand tokenizes an encoded command string. Encoded commands never
// contain spaces inside an argument (escape sequences are space-free), so
// whitespace splitting is exact. The literal `\;` token becomes tmux's
// command separator argument.
func splitCommand(text string) []string {
	fields := strings.Fields(text)
	args := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == `\;` {
			f = ";"
		}
		args = append(args, f)
	}
	return args
}

// addSessionTarget appends `-t <session>` to commands that operate on a
// session when no target was encoded. Commands already carrying -t (pane
// IDs are global) pass through unchanged.
func (r *Runner) addSessionTarget(args []string) []string {
	if r.Session == "" || !sessionTargetedCommands[args[0]] {
		return args
	}
	for _, a := range args {
		if a == "-t" {
			return args
		}
	}
	return append(args, "-t", r.Session)
}
