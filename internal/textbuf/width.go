package textbuf

import "github.com/mattn/go-runewidth"

// DisplayWidth computes a line's width in terminal/gutter display
// columns (wide CJK runes count as 2, zero-width combining marks count
// as 0), as opposed to the plain Unicode-scalar line length used for
// cursor column arithmetic.
func (b *TextBuffer) DisplayWidth(l uint32) (int, error) {
	line, err := b.Line(l)
	if err != nil {
		return 0, err
	}
	width := 0
	for _, r := range line {
		width += runewidth.RuneWidth(r)
	}
	return width, nil
}

// DisplayWidther implements viewport.LineWidther: it converts a line's
// display-column width to pixels at a fixed per-column cell size,
// giving soft-wrap math correct behavior for wide Unicode runes.
type DisplayWidther struct {
	Buffer     *TextBuffer
	CellWidthPx float32
}

// LineWidthPx returns the pixel width of buffer line l.
func (d DisplayWidther) LineWidthPx(line uint32) float32 {
	cols, err := d.Buffer.DisplayWidth(line)
	if err != nil {
		return 0
	}
	return float32(cols) * d.CellWidthPx
}
