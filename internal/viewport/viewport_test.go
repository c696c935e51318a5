package viewport

import (
	"testing"

	"github.com/lite-edit/lite-edit/internal/textbuf"
	"github.com/stretchr/testify/assert"
)

func TestScrollBoundCoherence(t *testing.T) {
	v := Viewport{VisibleRows: 10, RowHeightPx: 16}
	lineCount := uint32(100)

	v = SetScrollOffsetPx(v, 15*16, lineCount)

	first, _ := VisibleRange(v, lineCount)
	pos := PixelToBufferPosition(0, 0, v, lineCount)

	assert.Equal(t, first, pos.Line)
}

func TestSetScrollOffsetClampsToMax(t *testing.T) {
	v := Viewport{VisibleRows: 10, RowHeightPx: 16}
	lineCount := uint32(20)

	v = SetScrollOffsetPx(v, 100000, lineCount)

	// max = (20-10)*16 = 160
	assert.Equal(t, float32(160), v.ScrollOffsetPx)
}

func TestVisibleRangeTrailingRow(t *testing.T) {
	v := Viewport{VisibleRows: 5, RowHeightPx: 10}
	first, last := VisibleRange(v, 100)
	assert.Equal(t, uint32(0), first)
	assert.Equal(t, uint32(6), last) // visibleRows + 1, clamped by lineCount
}

func TestEnsureVisibleScrollsMinimally(t *testing.T) {
	v := Viewport{VisibleRows: 10, RowHeightPx: 16}
	nv, changed := EnsureVisible(v, 50, 100)
	assert.True(t, changed)
	first, _ := VisibleRange(nv, 100)
	assert.LessOrEqual(t, first, uint32(50))
	assert.GreaterOrEqual(t, first+nv.VisibleRows-1, uint32(50))

	_, changed2 := EnsureVisible(nv, 45, 100)
	assert.False(t, changed2)
}

func TestDirtyRegionMerge(t *testing.T) {
	assert.Equal(t, FullViewport(), MergeRegion(FullViewport(), Lines(1, 2)))
	assert.Equal(t, FullViewport(), MergeRegion(Lines(1, 2), FullViewport()))
	assert.Equal(t, Lines(0, 0), MergeRegion(RegionNone(), Lines(0, 0)))
	assert.Equal(t, Lines(1, 5), MergeRegion(Lines(1, 3), Lines(2, 5)))
}

func TestDirtyLinesToRegionPromotesFromLineToEnd(t *testing.T) {
	v := Viewport{VisibleRows: 10, RowHeightPx: 16}
	region := DirtyLinesToRegion(textbuf.FromLineToEnd(5), v, 100)
	assert.True(t, region.IsFull())

	farRegion := DirtyLinesToRegion(textbuf.FromLineToEnd(50), v, 100)
	assert.True(t, farRegion.IsNone())
}
