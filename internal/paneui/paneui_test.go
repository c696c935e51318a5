package paneui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAndRectCoverage(t *testing.T) {
	tree := NewTree()
	root := tree.AllPanes()[0]
	root.AddTab(100)

	fresh := tree.Split(root.Id, Vertical, 0.5, true)
	require.NotNil(t, fresh)

	bounds := Bounds{X: 0, Y: 0, Width: 200, Height: 100}
	rects := tree.CalculateRects(bounds)
	require.Len(t, rects, 2)

	// Pairwise disjoint in interior: no rect's interior overlaps another's.
	for i := range rects {
		for j := range rects {
			if i == j {
				continue
			}
			overlapX := rects[i].X < rects[j].X+rects[j].Width && rects[j].X < rects[i].X+rects[i].Width
			overlapY := rects[i].Y < rects[j].Y+rects[j].Height && rects[j].Y < rects[i].Y+rects[i].Height
			assert.False(t, overlapX && overlapY, "rects overlap")
		}
	}

	// Union area plus the one-pixel divider strip should equal bounds area.
	var sum float32
	for _, r := range rects {
		sum += r.Width * r.Height
	}
	dividerArea := dividerPx * bounds.Height
	assert.InDelta(t, bounds.Width*bounds.Height, sum+dividerArea, 1.0)
}

func TestMoveTabBetweenPanes(t *testing.T) {
	tree := NewTree()
	left := tree.AllPanes()[0]
	left.AddTab(1)
	left.AddTab(2)

	right := tree.Split(left.Id, Vertical, 0.5, true)
	require.NotNil(t, right)

	ok := tree.MoveTab(left.Id, 0, right.Id, 0)
	require.True(t, ok)

	assert.Equal(t, []uint64{2}, left.TabIds)
	assert.Equal(t, []uint64{1}, right.TabIds)
}

func TestCleanupEmptyPanesCollapsesSplit(t *testing.T) {
	tree := NewTree()
	left := tree.AllPanes()[0]
	left.AddTab(1)

	right := tree.Split(left.Id, Horizontal, 0.5, true)
	require.NotNil(t, right)
	require.False(t, tree.Root.IsLeaf())

	ok := tree.CloseTab(left.Id, 0)
	require.True(t, ok)

	assert.True(t, tree.Root.IsLeaf())
	assert.Equal(t, right.Id, tree.Root.Leaf.Id)
}

func TestSoleRemainingPaneSurvivesEmpty(t *testing.T) {
	tree := NewTree()
	solo := tree.AllPanes()[0]
	solo.AddTab(1)

	ok := tree.CloseTab(solo.Id, 0)
	require.True(t, ok)
	assert.True(t, tree.Root.IsLeaf())
	assert.True(t, tree.Root.Leaf.IsEmpty())
}

func TestHitTestSplitScenario(t *testing.T) {
	tree := NewTree()
	left := tree.AllPanes()[0]
	right := tree.Split(left.Id, Vertical, 0.5, true)
	require.NotNil(t, right)

	bounds := Bounds{X: 0, Y: 0, Width: 200, Height: 100}
	rects := tree.CalculateRects(bounds)

	leftHit, ok := HitTest(rects, 10, 10)
	require.True(t, ok)
	assert.Equal(t, left.Id, leftHit)

	rightHit, ok := HitTest(rects, 190, 10)
	require.True(t, ok)
	assert.Equal(t, right.Id, rightHit)

	_, onDivider := HitTest(rects, 100, 10)
	assert.False(t, onDivider)
}
