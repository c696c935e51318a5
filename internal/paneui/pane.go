// Package paneui implements the binary split-pane tree described in
// spec.md §4.7: stable pane IDs, tab ownership per pane, and the rect
// calculation the renderer consumes.
package paneui

import "github.com/lite-edit/lite-edit/internal/obs"

// PaneId uniquely identifies a pane within a workspace.
type PaneId uint64

// Pane holds a tab list and the index of its active tab. Tab contents
// themselves live in internal/workspace; paneui only tracks ordering
// and identity.
type Pane struct {
	Id             PaneId
	TabIds         []uint64
	ActiveTabIndex int
	TabBarOffsetPx float32
}

// ActiveTabId returns the id of the active tab, or 0 if the pane holds
// no tabs.
func (p *Pane) ActiveTabId() (uint64, bool) {
	if len(p.TabIds) == 0 {
		return 0, false
	}
	if p.ActiveTabIndex < 0 || p.ActiveTabIndex >= len(p.TabIds) {
		return 0, false
	}
	return p.TabIds[p.ActiveTabIndex], true
}

// AddTab appends tabId and makes it active.
func (p *Pane) AddTab(tabId uint64) {
	p.TabIds = append(p.TabIds, tabId)
	p.ActiveTabIndex = len(p.TabIds) - 1
}

// RemoveTabAt removes the tab at idx, clamping ActiveTabIndex into
// bounds. Returns false if idx is out of range.
func (p *Pane) RemoveTabAt(idx int) bool {
	if idx < 0 || idx >= len(p.TabIds) {
		return false
	}
	p.TabIds = append(p.TabIds[:idx], p.TabIds[idx+1:]...)
	if p.ActiveTabIndex >= len(p.TabIds) {
		p.ActiveTabIndex = len(p.TabIds) - 1
	}
	if p.ActiveTabIndex < 0 {
		p.ActiveTabIndex = 0
	}
	return true
}

// InsertTabAt inserts tabId at idx, clamping idx into [0, len].
func (p *Pane) InsertTabAt(idx int, tabId uint64) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(p.TabIds) {
		idx = len(p.TabIds)
	}
	p.TabIds = append(p.TabIds, 0)
	copy(p.TabIds[idx+1:], p.TabIds[idx:])
	p.TabIds[idx] = tabId
	p.ActiveTabIndex = idx
}

// IsEmpty reports whether the pane has no tabs.
func (p *Pane) IsEmpty() bool { return len(p.TabIds) == 0 }

// Orientation is the split direction of a Split node.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Node is a binary split tree node: either a Leaf holding a Pane, or a
// Split dividing its bounds between two child Nodes at Ratio.
type Node struct {
	Leaf  *Pane
	Split *SplitNode
}

// SplitNode divides its bounds between Left and Right along
// Orientation, with Left taking Ratio of the space (0 < Ratio < 1).
type SplitNode struct {
	Orientation Orientation
	Ratio       float32
	Left        *Node
	Right       *Node
}

// LeafNode wraps p in a *Node.
func LeafNode(p *Pane) *Node { return &Node{Leaf: p} }

// IsLeaf reports whether n is a Leaf node.
func (n *Node) IsLeaf() bool { return n != nil && n.Leaf != nil }

// Get returns the pane with the given id, or nil.
func (n *Node) Get(id PaneId) *Pane {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		if n.Leaf.Id == id {
			return n.Leaf
		}
		return nil
	}
	if p := n.Split.Left.Get(id); p != nil {
		return p
	}
	return n.Split.Right.Get(id)
}

// AllPanes returns every pane in the tree in left-to-right order.
func (n *Node) AllPanes() []*Pane {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return []*Pane{n.Leaf}
	}
	return append(n.Split.Left.AllPanes(), n.Split.Right.AllPanes()...)
}

// SplitLeaf replaces the leaf holding id with a Split holding its
// current Pane and a new empty pane with freshId, the new pane on the
// Right if newOnRight and on the Left otherwise. Returns the new pane,
// or nil if id was not found.
func (n *Node) SplitLeaf(id PaneId, orientation Orientation, ratio float32, freshId PaneId, newOnRight bool) *Pane {
	target := n.findLeafNode(id)
	if target == nil {
		return nil
	}
	original := target.Leaf
	fresh := &Pane{Id: freshId}

	left, right := LeafNode(original), LeafNode(fresh)
	if !newOnRight {
		left, right = LeafNode(fresh), LeafNode(original)
	}

	target.Leaf = nil
	target.Split = &SplitNode{Orientation: orientation, Ratio: ratio, Left: left, Right: right}
	return fresh
}

func (n *Node) findLeafNode(id PaneId) *Node {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		if n.Leaf.Id == id {
			return n
		}
		return nil
	}
	if found := n.Split.Left.findLeafNode(id); found != nil {
		return found
	}
	return n.Split.Right.findLeafNode(id)
}

// MoveTab relocates the tab at srcIdx in the pane identified by srcPane
// to targetIdx in the pane identified by targetPane. Returns false if
// either pane or index is invalid.
func (n *Node) MoveTab(srcPane PaneId, srcIdx int, targetPane PaneId, targetIdx int) bool {
	src := n.Get(srcPane)
	dst := n.Get(targetPane)
	if src == nil || dst == nil {
		return false
	}
	if srcIdx < 0 || srcIdx >= len(src.TabIds) {
		return false
	}
	tabId := src.TabIds[srcIdx]
	src.RemoveTabAt(srcIdx)

	if src == dst && srcIdx < targetIdx {
		targetIdx--
	}
	dst.InsertTabAt(targetIdx, tabId)
	return true
}

// CleanupEmptyPanes collapses any Split whose child became tab-less,
// promoting the surviving sibling in its place. Returns the
// (possibly replaced) root node.
func CleanupEmptyPanes(root *Node) *Node {
	if root == nil || root.IsLeaf() {
		return root
	}
	root.Split.Left = CleanupEmptyPanes(root.Split.Left)
	root.Split.Right = CleanupEmptyPanes(root.Split.Right)

	if root.Split.Left.IsLeaf() && root.Split.Left.Leaf.IsEmpty() {
		return root.Split.Right
	}
	if root.Split.Right.IsLeaf() && root.Split.Right.Leaf.IsEmpty() {
		return root.Split.Left
	}
	return root
}

// CloseTab removes the tab at idx from the pane identified by id.
func CloseTab(root *Node, id PaneId, idx int) bool {
	p := root.Get(id)
	if p == nil {
		return false
	}
	if !p.RemoveTabAt(idx) {
		obs.Invariant("paneui: CloseTab idx %d out of range for pane %d with %d tabs", idx, id, len(p.TabIds))
		return false
	}
	return true
}
