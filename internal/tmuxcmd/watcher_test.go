package tmuxcmd_test

import (
	"testing"

	"github.com/flplima/tmuxy/internal/tmuxcmd"
)

const samplePanes = `%0,0,0,0,80,24,5,10,1,bash,0,0,0,312
%1,1,81,0,79,24,0,0,0,vim,0,1,1,0
%2,2,0,25,160,23,12,3,0,less,1,0,0,40
`

func TestParsePanes(t *testing.T) {
	panes := tmuxcmd.ParsePanes(samplePanes)
	if len(panes) != 3 {
		t.Fatalf("len = %d, want 3", len(panes))
	}

	p := panes[0]
	if p.ID != "%0" || p.Width != 80 || p.Height != 24 || !p.Active {
		t.Errorf("pane 0 = %+v", p)
	}
	if p.HistorySize != 312 {
		t.Errorf("history = %d, want 312", p.HistorySize)
	}

	vim := panes[1]
	if !vim.AlternateOn || !vim.MouseAnyFlag || vim.InMode {
		t.Errorf("vim flags = %+v, want alternate+mouse, not in mode", vim)
	}
	if vim.X != 81 || vim.Command != "vim" {
		t.Errorf("vim geometry = %+v", vim)
	}

	less := panes[2]
	if !less.InMode || less.AlternateOn {
		t.Errorf("less flags = %+v, want remote copy mode only", less)
	}
}

func TestParsePanesSkipsMalformedLines(t *testing.T) {
	panes := tmuxcmd.ParsePanes("garbage\n%0,0,0,0,80,24,0,0,1,zsh,0,0,0,0\n,,\n")
	if len(panes) != 1 {
		t.Fatalf("len = %d, want 1", len(panes))
	}
	if panes[0].Command != "zsh" {
		t.Errorf("command = %q, want zsh", panes[0].Command)
	}
}
