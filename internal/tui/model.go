// Package tui is the terminal attach client: a bubbletea program that
// mirrors the tmux window and drives the interaction router with terminal
// mouse and key events. Cells are the pixel unit here, so the router runs
// with a 1x1 cell layout and the same semantics as the browser client.
package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/flplima/tmuxy/internal/config"
	"github.com/flplima/tmuxy/internal/input"
	"github.com/flplima/tmuxy/internal/pane"
	"github.com/flplima/tmuxy/internal/tmuxcmd"
)

const (
	frameInterval = 16 * time.Millisecond
	// doubleClickWindow is the maximum gap between two clicks on the same
	// cell to count as a double click.
	doubleClickWindow = 300 * time.Millisecond
)

type snapshotMsg struct {
	panes   []pane.Pane
	content map[string]string
}

type frameMsg time.Time

// Model is the attach client state.
type Model struct {
	runner *tmuxcmd.Runner
	router *input.Router
	keys   *config.KeybindRegistry
	poll   time.Duration

	width  int
	height int

	panes   []pane.Pane
	content map[string]string
	grids   map[string]*tmuxcmd.Grid
	known   map[string]bool

	lastClickAt   time.Time
	lastClickCell [2]int
	lastClickPane string

	copiedNotice string
	noticeUntil  time.Time
}

// New creates the attach client model.
func New(runner *tmuxcmd.Runner, tuning input.Tuning, keys *config.KeybindRegistry, poll time.Duration) *Model {
	if poll <= 0 {
		poll = 250 * time.Millisecond
	}
	if keys == nil {
		keys = config.NewKeybindRegistry(nil)
	}
	return &Model{
		runner:  runner,
		router:  input.NewRouter(runner, tuning),
		keys:    keys,
		poll:    poll,
		content: make(map[string]string),
		grids:   make(map[string]*tmuxcmd.Grid),
		known:   make(map[string]bool),
	}
}

// Init schedules the first snapshot poll and frame tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.snapshotCmd(), frameTick())
}

func (m *Model) snapshotCmd() tea.Cmd {
	runner := m.runner
	return tea.Tick(m.poll, func(time.Time) tea.Msg {
		panes, err := runner.ListPanes()
		if err != nil {
			return snapshotMsg{}
		}
		content := make(map[string]string, len(panes))
		for _, p := range panes {
			if out, err := runner.Exec("capture-pane", "-t", p.ID, "-p"); err == nil {
				content[p.ID] = out
			}
		}
		return snapshotMsg{panes: panes, content: content}
	})
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update drives the router from terminal events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.applySnapshot(msg)
		return m, m.snapshotCmd()

	case frameMsg:
		m.router.Frame(time.Time(msg))
		return m, frameTick()

	case tea.MouseClickMsg:
		m.handleClick(msg)
		return m, nil

	case tea.MouseMotionMsg:
		mouse := msg.Mouse()
		if id, ok := m.paneAt(mouse.X, mouse.Y); ok {
			m.router.PointerMove(input.PointerEvent{
				PaneID: id,
				X:      float64(mouse.X),
				Y:      float64(mouse.Y),
				Button: buttonIndex(mouse.Button),
				Time:   time.Now(),
			})
		}
		return m, nil

	case tea.MouseReleaseMsg:
		mouse := msg.Mouse()
		if id, ok := m.paneAt(mouse.X, mouse.Y); ok {
			m.router.PointerUp(input.PointerEvent{
				PaneID: id,
				X:      float64(mouse.X),
				Y:      float64(mouse.Y),
				Button: buttonIndex(mouse.Button),
				Time:   time.Now(),
			})
		}
		return m, nil

	case tea.MouseWheelMsg:
		mouse := msg.Mouse()
		id, ok := m.paneAt(mouse.X, mouse.Y)
		if !ok {
			return m, nil
		}
		delta := 1.0
		if msg.Button == tea.MouseWheelUp {
			delta = -1.0
		}
		m.router.Wheel(input.WheelEvent{
			PaneID: id,
			X:      float64(mouse.X),
			Y:      float64(mouse.Y),
			DeltaY: delta,
			Shift:  mouse.Mod&tea.ModShift != 0,
			Time:   time.Now(),
		})
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleClick(msg tea.MouseClickMsg) {
	mouse := msg.Mouse()
	id, ok := m.paneAt(mouse.X, mouse.Y)
	if !ok {
		return
	}
	now := time.Now()
	ev := input.PointerEvent{
		PaneID: id,
		X:      float64(mouse.X),
		Y:      float64(mouse.Y),
		Button: buttonIndex(mouse.Button),
		Shift:  mouse.Mod&tea.ModShift != 0,
		Alt:    mouse.Mod&tea.ModAlt != 0,
		Ctrl:   mouse.Mod&tea.ModCtrl != 0,
		Time:   now,
	}

	cell := [2]int{mouse.X, mouse.Y}
	if mouse.Button == tea.MouseLeft &&
		id == m.lastClickPane && cell == m.lastClickCell &&
		now.Sub(m.lastClickAt) <= doubleClickWindow {
		m.lastClickAt = time.Time{}
		m.router.DoubleClick(ev)
		return
	}
	m.lastClickPane = id
	m.lastClickCell = cell
	m.lastClickAt = now

	m.router.PointerDown(ev)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if id, ok := m.activeCopyModePane(); ok {
		now := time.Now()
		switch m.keys.ActionFor(key) {
		case "exit_copy_mode":
			m.router.ExitCopyMode(id)
		case "copy_selection":
			if text, ok := m.router.CopySelection(id); ok {
				m.copiedNotice = text
				m.noticeUntil = now.Add(2 * time.Second)
				return m, tea.SetClipboard(text)
			}
		case "clear_selection":
			m.router.ClearSelection(id)
		case "scroll_up":
			m.router.KeyScroll(id, -1, now)
		case "scroll_down":
			m.router.KeyScroll(id, 1, now)
		case "page_up":
			m.router.PageScroll(id, true, now)
		case "page_down":
			m.router.PageScroll(id, false, now)
		case "go_to_top":
			m.router.GoToTop(id, now)
		case "go_to_bottom":
			m.router.GoToBottom(id)
		}
		return m, nil
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	return m, nil
}

// applySnapshot mirrors a remote state push into the router, creating and
// tearing down per-pane state as panes come and go.
func (m *Model) applySnapshot(msg snapshotMsg) {
	if msg.panes == nil {
		return
	}
	seen := make(map[string]bool, len(msg.panes))
	for _, p := range msg.panes {
		seen[p.ID] = true
		m.router.UpdatePane(p)
		if !m.known[p.ID] {
			m.known[p.ID] = true
			g := tmuxcmd.NewGrid(m.runner, p.ID)
			m.grids[p.ID] = g
			m.router.SetGrid(p.ID, g)
		}
		m.grids[p.ID].Invalidate()
		m.router.SetLayout(p.ID, pane.Layout{
			Left:       float64(p.X),
			Top:        float64(p.Y),
			Width:      float64(p.Width),
			Height:     float64(p.Height),
			CharWidth:  1,
			CharHeight: 1,
		})
	}
	for id := range m.known {
		if !seen[id] {
			m.router.RemovePane(id)
			delete(m.known, id)
			delete(m.grids, id)
			delete(m.content, id)
		}
	}
	m.panes = msg.panes
	for id, c := range msg.content {
		m.content[id] = c
	}
}

func (m *Model) paneAt(x, y int) (string, bool) {
	for _, p := range m.panes {
		if x >= p.X && x < p.X+p.Width && y >= p.Y && y < p.Y+p.Height {
			return p.ID, true
		}
	}
	return "", false
}

func (m *Model) activeCopyModePane() (string, bool) {
	for _, p := range m.panes {
		if cm := m.router.CopyMode(p.ID); cm != nil && cm.Active() {
			return p.ID, true
		}
	}
	return "", false
}

func buttonIndex(b tea.MouseButton) int {
	switch b {
	case tea.MouseMiddle:
		return 1
	case tea.MouseRight:
		return 2
	default:
		return 0
	}
}
