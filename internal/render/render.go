// Package render defines the "humble view" contract spec.md §4.8
// describes: the renderer is an external collaborator that consumes an
// immutable per-frame plan and never touches buffers directly. This
// package holds only the interfaces and plain data the real GPU
// backend (out of scope here) would implement against.
package render

import (
	"github.com/lite-edit/lite-edit/internal/paneui"
	"github.com/lite-edit/lite-edit/internal/textbuf"
	"github.com/lite-edit/lite-edit/internal/viewport"
)

// ScissorRect is rounded outward (floor origin, ceil extent) by the
// caller before reaching the renderer, per spec.md §4.8, to avoid
// clipping the last partially visible row.
type ScissorRect struct {
	X, Y, Width, Height int
}

// CursorInfo positions and shapes the caret the renderer draws.
type CursorInfo struct {
	X, Y    float32
	Height  float32
	Visible bool
	Block   bool // true for terminal-grid block cursor, false for text I-beam
}

// LineSource yields styled spans for a contiguous visible range of
// lines — the renderer's only way to read buffer/terminal content.
type LineSource interface {
	StyledLine(line uint32) ([]textbuf.StyledSpan, error)
}

// PaneFrame is everything the renderer needs to draw one pane: its
// screen rect, its viewport, a line source restricted to the visible
// range, and the cursor to draw.
type PaneFrame struct {
	Rect       paneui.PaneRect
	Viewport   viewport.Viewport
	Lines      LineSource
	FirstLine  uint32
	LastLine   uint32
	Cursor     CursorInfo
	Dirty      viewport.DirtyRegion
	IsFocused  bool
	ShowDivider bool
}

// OverlayKind discriminates which modal overlay, if any, draws atop
// the pane grid.
type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlaySelector
	OverlayFindInFile
	OverlayConfirmDialog
)

// Overlay carries the minimal state the renderer needs for whichever
// modal is active.
type Overlay struct {
	Kind    OverlayKind
	Title   string
	Text    string
	Options []string
}

// RailEntry is one workspace entry drawn in the left rail.
type RailEntry struct {
	Label    string
	Active   bool
	Status   int // mirrors workspace.WorkspaceStatus without importing it, keeping render leaf-level
}

// TabBarEntry is one tab's rendering state within a pane's tab strip.
type TabBarEntry struct {
	Label  string
	Dirty  bool
	Unread bool
	Active bool
}

// Frame is the complete immutable snapshot the renderer presents in
// one call. Long-lived vertex/index buffers are cleared, not
// reallocated, at the start of each frame — a Renderer implementation
// detail, not something this package enforces.
type Frame struct {
	Panes        []PaneFrame
	Rail         []RailEntry
	TabBars      map[paneui.PaneId][]TabBarEntry
	ActiveOverlay Overlay
}

// Renderer is the external collaborator's contract.
type Renderer interface {
	Present(frame Frame)
}
