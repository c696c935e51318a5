package paneui

// Bounds is a screen-space rectangle, y=0 at top.
type Bounds struct {
	X, Y, Width, Height float32
}

// PaneRect is the screen-space rectangle assigned to one pane.
type PaneRect struct {
	PaneId PaneId
	X, Y   float32
	Width  float32
	Height float32
}

// dividerPx is the one-pixel seam left between adjacent panes, per
// spec.md §8's pane-rect-coverage property ("bounds minus one-pixel
// dividers").
const dividerPx = 1

// CalculateRects walks the tree and assigns each leaf a PaneRect within
// bounds, inserting a one-pixel divider at each split.
func CalculateRects(root *Node, bounds Bounds) []PaneRect {
	var out []PaneRect
	calculateRectsInto(root, bounds, &out)
	return out
}

func calculateRectsInto(n *Node, bounds Bounds, out *[]PaneRect) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		*out = append(*out, PaneRect{
			PaneId: n.Leaf.Id,
			X:      bounds.X,
			Y:      bounds.Y,
			Width:  bounds.Width,
			Height: bounds.Height,
		})
		return
	}

	s := n.Split
	if s.Orientation == Vertical {
		leftW := s.Ratio*bounds.Width - dividerPx/2
		rightW := bounds.Width - leftW - dividerPx
		if leftW < 0 {
			leftW = 0
		}
		if rightW < 0 {
			rightW = 0
		}
		leftBounds := Bounds{X: bounds.X, Y: bounds.Y, Width: leftW, Height: bounds.Height}
		rightBounds := Bounds{X: bounds.X + leftW + dividerPx, Y: bounds.Y, Width: rightW, Height: bounds.Height}
		calculateRectsInto(s.Left, leftBounds, out)
		calculateRectsInto(s.Right, rightBounds, out)
	} else {
		topH := s.Ratio*bounds.Height - dividerPx/2
		bottomH := bounds.Height - topH - dividerPx
		if topH < 0 {
			topH = 0
		}
		if bottomH < 0 {
			bottomH = 0
		}
		topBounds := Bounds{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: topH}
		bottomBounds := Bounds{X: bounds.X, Y: bounds.Y + topH + dividerPx, Width: bounds.Width, Height: bottomH}
		calculateRectsInto(s.Left, topBounds, out)
		calculateRectsInto(s.Right, bottomBounds, out)
	}
}

// HitTest returns the PaneId whose rect contains (x, y), or false if
// none does (e.g. the point falls on a divider).
func HitTest(rects []PaneRect, x, y float32) (PaneId, bool) {
	for _, r := range rects {
		if x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height {
			return r.PaneId, true
		}
	}
	return 0, false
}
