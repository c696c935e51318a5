// Package viewport implements the per-pane mapping from buffer
// coordinates to screen coordinates (spec.md §3-§4.2): scroll offset,
// visible rows, fractional scroll, soft wrap, and the screen-space
// DirtyRegion produced from a buffer-space DirtyLines.
package viewport

import (
	"math"

	"github.com/lite-edit/lite-edit/internal/textbuf"
)

// WrapMode carries the wrap width in pixels, when wrapping is enabled.
type WrapMode struct {
	Enabled  bool
	WidthPx  float32
}

// Viewport is per-pane scroll state.
type Viewport struct {
	ScrollOffsetPx float32
	VisibleRows    uint32
	RowHeightPx    float32
	Wrap           WrapMode
}

// LineWidther returns the screen width, in pixels, of the given buffer
// line — the hook wrap math needs without depending on textbuf directly
// for glyph metrics (those live in the renderer).
type LineWidther interface {
	LineWidthPx(line uint32) float32
}

// ScreenRows returns how many screen rows a buffer line occupies when
// wrapped (1 when unwrapped, or ceil(lineWidthPx / wrapWidthPx) with a
// floor of 1 for an empty line).
func ScreenRows(v Viewport, lw LineWidther, line uint32) uint32 {
	if !v.Wrap.Enabled || v.Wrap.WidthPx <= 0 {
		return 1
	}
	w := lw.LineWidthPx(line)
	if w <= 0 {
		return 1
	}
	rows := uint32(math.Ceil(float64(w / v.Wrap.WidthPx)))
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ComputeTotalScreenRows sums ScreenRows across every buffer line. O(n)
// in line count, as required by spec.md §4.2.
func ComputeTotalScreenRows(v Viewport, lw LineWidther, lineCount uint32) uint32 {
	if !v.Wrap.Enabled {
		return lineCount
	}
	var total uint32
	for l := uint32(0); l < lineCount; l++ {
		total += ScreenRows(v, lw, l)
	}
	return total
}

// maxOffsetPx computes the maximum legal scroll offset. totalRows must
// be the same row count used everywhere else (visible_range, hit
// testing) — see spec.md §4.2's max-scroll invariant.
func maxOffsetPx(v Viewport, totalRows uint32) float32 {
	if totalRows <= v.VisibleRows {
		return 0
	}
	return float32(totalRows-v.VisibleRows) * v.RowHeightPx
}

// SetScrollOffsetPx clamps v's scroll offset into [0, maxOffsetPx] and
// returns the updated viewport.
func SetScrollOffsetPx(v Viewport, offset float32, totalRows uint32) Viewport {
	max := maxOffsetPx(v, totalRows)
	if offset < 0 {
		offset = 0
	}
	if offset > max {
		offset = max
	}
	v.ScrollOffsetPx = offset
	return v
}

// firstVisibleRow is the screen-row index (for unwrapped mode, the
// buffer line index) currently at the top of the pane.
func firstVisibleRow(v Viewport) uint32 {
	if v.RowHeightPx <= 0 {
		return 0
	}
	return uint32(v.ScrollOffsetPx / v.RowHeightPx)
}

// VisibleRange returns [firstVisible, firstVisible+visibleRows+1) in
// (unwrapped) buffer-line space — the trailing +1 permits partial
// bottom-row rendering, per spec.md §4.2.
func VisibleRange(v Viewport, lineCount uint32) (uint32, uint32) {
	first := firstVisibleRow(v)
	if first > lineCount {
		first = lineCount
	}
	last := first + v.VisibleRows + 1
	if last > lineCount {
		last = lineCount
	}
	return first, last
}

// EnsureVisible scrolls v minimally so that line appears within
// [first, first+visibleRows-1]. Returns the updated viewport and
// whether the offset changed.
func EnsureVisible(v Viewport, line, lineCount uint32) (Viewport, bool) {
	first := firstVisibleRow(v)
	var lastFullyVisible uint32
	if v.VisibleRows > 0 {
		lastFullyVisible = first + v.VisibleRows - 1
	} else {
		lastFullyVisible = first
	}

	switch {
	case line < first:
		nv := SetScrollOffsetPx(v, float32(line)*v.RowHeightPx, lineCount)
		return nv, nv.ScrollOffsetPx != v.ScrollOffsetPx
	case line > lastFullyVisible:
		var target uint32
		if line+1 > v.VisibleRows {
			target = line + 1 - v.VisibleRows
		}
		nv := SetScrollOffsetPx(v, float32(target)*v.RowHeightPx, lineCount)
		return nv, nv.ScrollOffsetPx != v.ScrollOffsetPx
	default:
		return v, false
	}
}

// PixelToBufferPosition maps a pane-local (x, y) pixel to a buffer
// Position, using exactly the same firstVisibleRow/RowHeightPx the
// renderer used to draw row 0 (the max-scroll invariant in spec.md §4.2
// and §8's scroll-bound-coherence property).
func PixelToBufferPosition(x, y float32, v Viewport, lineCount uint32) textbuf.Position {
	if v.RowHeightPx <= 0 {
		return textbuf.Position{}
	}
	row := firstVisibleRow(v) + uint32(y/v.RowHeightPx)
	if row >= lineCount {
		if lineCount == 0 {
			return textbuf.Position{}
		}
		row = lineCount - 1
	}
	// Column resolution (character width) is the renderer's concern;
	// here we report the row only and col 0, which callers refine using
	// their own glyph metrics.
	_ = x
	return textbuf.Position{Line: row, Col: 0}
}

// DirtyLinesToRegion maps a buffer-space DirtyLines to a screen-space
// DirtyRegion. Any FromLineToEnd that touches the visible range becomes
// FullViewport.
func DirtyLinesToRegion(dirty textbuf.DirtyLines, v Viewport, lineCount uint32) DirtyRegion {
	if dirty.Kind == textbuf.DirtyNone {
		return RegionNone()
	}

	first, last := VisibleRange(v, lineCount)

	if dirty.Kind == textbuf.DirtyFromLineToEnd {
		if dirty.From < last {
			return FullViewport()
		}
		return RegionNone()
	}

	from, to := dirty.From, dirty.To
	if to < first || from >= last {
		return RegionNone()
	}
	if from < first {
		from = first
	}
	if to >= last {
		to = last - 1
	}
	screenFrom := from - first
	screenTo := to - first
	return Lines(screenFrom, screenTo)
}
