package copymode

import "strings"

// Grid supplies the text content of absolute rows for word expansion and
// selection extraction. The cell-grid renderer owns the actual styled
// cells; this engine only ever needs plain text.
type Grid interface {
	// Line returns the text of the given absolute row, or "" when the row
	// is out of range.
	Line(absRow int) string
}

// StartSelection begins a selection with anchor and cursor at the same
// absolute position.
func (m *Machine) StartSelection(mode SelectionMode, row, col int) {
	if !m.active {
		return
	}
	p := Position{Row: row, Col: col}
	m.sel = &Selection{Anchor: p, Cursor: p, Mode: mode}
}

// StartWordSelection expands outward from the clicked cell to the
// contiguous non-whitespace run containing it, then behaves as a character
// selection for further drags. Triggered by double-click.
func (m *Machine) StartWordSelection(g Grid, row, col int) {
	if !m.active {
		return
	}
	start, end, ok := expandWord(g.Line(row), col)
	if !ok {
		m.StartSelection(SelectionChar, row, col)
		return
	}
	m.sel = &Selection{
		Anchor: Position{Row: row, Col: start},
		Cursor: Position{Row: row, Col: end},
		Mode:   SelectionChar,
	}
}

// ExtendSelection moves the selection cursor. The anchor stays put.
func (m *Machine) ExtendSelection(row, col int) {
	if !m.active || m.sel == nil {
		return
	}
	m.sel.Cursor = Position{Row: row, Col: col}
}

// ClearSelection drops the selection without leaving copy mode.
func (m *Machine) ClearSelection() {
	m.sel = nil
}

// Selection returns a copy of the active selection, or nil.
func (m *Machine) Selection() *Selection {
	if m.sel == nil {
		return nil
	}
	s := *m.sel
	return &s
}

// ordered returns the selection endpoints with the earlier position first,
// by row then column.
func (s *Selection) ordered() (Position, Position) {
	a, b := s.Anchor, s.Cursor
	if b.Row < a.Row || (b.Row == a.Row && b.Col < a.Col) {
		a, b = b, a
	}
	return a, b
}

// Contains reports whether the absolute cell is inside the selection,
// for rendering the highlight.
func (s *Selection) Contains(row, col int) bool {
	a, b := s.ordered()
	switch s.Mode {
	case SelectionLine:
		return row >= a.Row && row <= b.Row
	case SelectionBlock:
		lo, hi := a.Col, b.Col
		if hi < lo {
			lo, hi = hi, lo
		}
		return row >= a.Row && row <= b.Row && col >= lo && col <= hi
	default: // SelectionChar
		if row < a.Row || row > b.Row {
			return false
		}
		if row == a.Row && col < a.Col {
			return false
		}
		if row == b.Row && col > b.Col {
			return false
		}
		return true
	}
}

// Text extracts the selected text from the grid, one line per selected
// row, for clipboard hand-off.
func (s *Selection) Text(g Grid) string {
	a, b := s.ordered()
	var lines []string
	for row := a.Row; row <= b.Row; row++ {
		line := g.Line(row)
		switch s.Mode {
		case SelectionLine:
			lines = append(lines, strings.TrimRight(line, " "))
		case SelectionBlock:
			lo, hi := a.Col, b.Col
			if hi < lo {
				lo, hi = hi, lo
			}
			lines = append(lines, sliceCols(line, lo, hi))
		default: // SelectionChar
			from, to := 0, len(line)-1
			if row == a.Row {
				from = a.Col
			}
			if row == b.Row {
				to = b.Col
			}
			lines = append(lines, sliceCols(line, from, to))
		}
	}
	return strings.Join(lines, "\n")
}

// sliceCols returns line[from..to] inclusive, tolerating out-of-range
// columns.
func sliceCols(line string, from, to int) string {
	runes := []rune(line)
	if from < 0 {
		from = 0
	}
	if to >= len(runes) {
		to = len(runes) - 1
	}
	if from > to {
		return ""
	}
	return strings.TrimRight(string(runes[from:to+1]), " ")
}
