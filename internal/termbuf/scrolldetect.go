package termbuf

import "github.com/hinshun/vt10x"

// captureRowsBeforeWrite snapshots every grid row before feeding the VTE
// new bytes, so captureScrolledLines can later tell which rows were
// pushed off the top of the screen (adapted from the teacher's
// panel.go captureScreenBefore).
func (t *TerminalBuffer) captureRowsBeforeWrite() {
	cols, rows := t.vt.Size()
	snapshot := make([][]vt10x.Glyph, rows)
	for y := 0; y < rows; y++ {
		row := make([]vt10x.Glyph, cols)
		for x := 0; x < cols; x++ {
			row[x] = t.vt.Cell(x, y)
		}
		snapshot[y] = row
	}
	t.prevRows = snapshot
}

// captureScrolledLines compares the pre-write snapshot against the
// post-write grid. Any prefix of prevRows that no longer appears
// anywhere in the new grid is assumed scrolled off the top and is
// pushed into the scrollback buffer (adapted from the teacher's
// panel.go captureScrolledLines/rowsMatch).
func (t *TerminalBuffer) captureScrolledLines() {
	if t.prevRows == nil {
		return
	}
	cols, rows := t.vt.Size()

	if rows != len(t.prevRows) {
		// Grid was resized mid-write; scroll detection needs a stable
		// row count to compare against, so skip this cycle.
		t.prevRows = nil
		return
	}

	current := make([][]vt10x.Glyph, rows)
	for y := 0; y < rows; y++ {
		row := make([]vt10x.Glyph, cols)
		for x := 0; x < cols; x++ {
			row[x] = t.vt.Cell(x, y)
		}
		current[y] = row
	}

	scrolledOff := 0
	for _, prevRow := range t.prevRows {
		stillOnScreen := false
		for _, curRow := range current {
			if rowsMatch(prevRow, curRow) {
				stillOnScreen = true
				break
			}
		}
		if stillOnScreen {
			break
		}
		scrolledOff++
	}

	for i := 0; i < scrolledOff; i++ {
		t.Scrollback.Push(ScrollbackLine{Cells: t.prevRows[i]})
	}
	t.prevRows = nil
}

func rowsMatch(a, b []vt10x.Glyph) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Char != b[i].Char {
			return false
		}
	}
	return true
}
