package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/flplima/tmuxy/internal/copymode"
	"github.com/flplima/tmuxy/internal/pane"
)

var (
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle   = lipgloss.NewStyle().
			Background(lipgloss.Color("#24283b")).
			Foreground(lipgloss.Color("#a9b1d6"))
	activePaneStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#7aa2f7")).
			Foreground(lipgloss.Color("#1a1b26")).
			Bold(true)
	copyModeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#e0af68")).
			Foreground(lipgloss.Color("#1a1b26")).
			Bold(true)
)

// View renders the mirrored tmux window plus a status bar.
func (m *Model) View() tea.View {
	var view tea.View
	view.SetContent(m.render())
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	return view
}

func (m *Model) render() string {
	if m.width <= 0 || m.height <= 1 {
		return ""
	}

	rows := m.height - 1
	canvas := make([][]string, rows)
	for y := range canvas {
		canvas[y] = make([]string, m.width)
		for x := range canvas[y] {
			canvas[y][x] = " "
		}
	}

	for _, p := range m.panes {
		m.renderPane(canvas, p)
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.Join(row, ""))
		sb.WriteByte('\n')
	}
	sb.WriteString(m.statusBar())
	return sb.String()
}

func (m *Model) renderPane(canvas [][]string, p pane.Pane) {
	lines := m.visibleLines(p)

	var sel *copymode.Selection
	offset := 0
	if cm := m.router.CopyMode(p.ID); cm != nil && cm.Active() {
		offset = cm.Offset()
		sel = cm.Selection()
	}

	for row := 0; row < p.Height; row++ {
		y := p.Y + row
		if y < 0 || y >= len(canvas) {
			continue
		}
		var line []rune
		if row < len(lines) {
			line = []rune(lines[row])
		}
		for col := 0; col < p.Width; col++ {
			x := p.X + col
			if x < 0 || x >= len(canvas[y]) {
				break
			}
			ch := " "
			if col < len(line) {
				ch = string(line[col])
			}
			if sel != nil && sel.Contains(offset+row, col) {
				ch = selectedStyle.Render(ch)
			}
			canvas[y][x] = ch
		}
	}
}

// visibleLines returns the pane rows to draw: the live capture normally,
// or a window into history at the copy-mode offset.
func (m *Model) visibleLines(p pane.Pane) []string {
	if cm := m.router.CopyMode(p.ID); cm != nil && cm.Active() {
		if g := m.grids[p.ID]; g != nil {
			lines := make([]string, 0, p.Height)
			for i := 0; i < p.Height; i++ {
				lines = append(lines, g.Line(cm.Offset()+i))
			}
			return lines
		}
	}
	return strings.Split(strings.TrimRight(m.content[p.ID], "\n"), "\n")
}

func (m *Model) statusBar() string {
	var parts []string
	for _, p := range m.panes {
		label := fmt.Sprintf(" %d:%s ", p.Index, p.Command)
		if p.Active {
			parts = append(parts, activePaneStyle.Render(label))
		} else {
			parts = append(parts, statusStyle.Render(label))
		}
	}

	if id, ok := m.activeCopyModePane(); ok {
		cm := m.router.CopyMode(id)
		parts = append(parts, copyModeStyle.Render(
			fmt.Sprintf(" COPY %d/%d ", cm.Offset(), cm.MaxOffset())))
	}

	if m.copiedNotice != "" && time.Now().Before(m.noticeUntil) {
		notice := m.copiedNotice
		if len(notice) > 24 {
			notice = notice[:24] + "…"
		}
		parts = append(parts, statusStyle.Render(" copied: "+notice+" "))
	}

	bar := strings.Join(parts, "")
	if w := lipgloss.Width(bar); w < m.width {
		bar += statusStyle.Render(strings.Repeat(" ", m.width-w))
	}
	return bar
}
