// Package editorstate wires focus, key/mouse routing, and command
// dispatch on top of workspace/paneui/textbuf/termbuf (spec.md §4.6).
package editorstate

import (
	"fmt"

	"github.com/lite-edit/lite-edit/internal/clipboard"
	"github.com/lite-edit/lite-edit/internal/obs"
	"github.com/lite-edit/lite-edit/internal/paneui"
	"github.com/lite-edit/lite-edit/internal/textbuf"
	"github.com/lite-edit/lite-edit/internal/viewport"
	"github.com/lite-edit/lite-edit/internal/workspace"
)

// Focus gates which handler routes a Key/Mouse event (spec.md §4.6).
type Focus int

const (
	FocusBuffer Focus = iota
	FocusSelector
	FocusFindInFile
	FocusConfirmDialog
)

// Config carries the layout constants the mouse pipeline needs.
type Config struct {
	RailWidthPx   float32
	TabBarHeightPx float32
}

// PendingConfirm stashes the dirty-tab/running-agent confirmation a
// close-tab or close-workspace command raised (spec.md §3 lifecycle
// notes). Accept performs the deferred close; DialogCancelled (§7) is
// simply dropping this field without calling Accept.
type PendingConfirm struct {
	Message string
	Accept  func() viewport.DirtyRegion
}

// State is the editor's top-level mutable state: the workspace/tab/pane
// data plus focus and layout config. It owns no rendering or I/O.
type State struct {
	Editor *workspace.Editor
	Focus  Focus
	Config Config
	Clip   clipboard.Clipboard

	PendingConfirm *PendingConfirm
}

// NewState constructs editor state wired to the given clipboard
// (normally a real pasteboard binding; tests use an in-memory one per
// spec.md §6).
func NewState(ed *workspace.Editor, cfg Config, clip clipboard.Clipboard) *State {
	return &State{Editor: ed, Focus: FocusBuffer, Config: cfg, Clip: clip}
}

// ActiveTabIsText reports whether the active tab is a text buffer —
// every text-editing command must check this and no-op otherwise
// (spec.md §4.10).
func (s *State) ActiveTabIsText() bool {
	ws := s.Editor.ActiveWorkspacePtr()
	if ws == nil {
		return false
	}
	tab := ws.ActiveTab()
	return tab != nil && tab.IsText()
}

// Dispatch executes cmd against the current focus/active tab,
// returning the DirtyRegion the command caused (None if it was a
// no-op, e.g. a text command on a terminal tab).
func (s *State) Dispatch(cmd Command) viewport.DirtyRegion {
	switch s.Focus {
	case FocusBuffer:
		return s.dispatchBuffer(cmd)
	case FocusConfirmDialog, FocusSelector, FocusFindInFile:
		return s.dispatchOverlay(cmd)
	default:
		return viewport.RegionNone()
	}
}

func (s *State) dispatchOverlay(cmd Command) viewport.DirtyRegion {
	switch cmd {
	case CommandCloseOverlay:
		s.Focus = FocusBuffer
		s.PendingConfirm = nil // DialogCancelled (spec.md §7): command is a no-op
		return viewport.FullViewport()
	case CommandConfirmAccept:
		if s.Focus != FocusConfirmDialog || s.PendingConfirm == nil {
			return viewport.RegionNone()
		}
		accept := s.PendingConfirm.Accept
		s.PendingConfirm = nil
		s.Focus = FocusBuffer
		return viewport.MergeRegion(viewport.FullViewport(), accept())
	}
	return viewport.RegionNone()
}

func (s *State) dispatchBuffer(cmd Command) viewport.DirtyRegion {
	ws := s.Editor.ActiveWorkspacePtr()
	if ws == nil {
		return viewport.RegionNone()
	}
	tab := ws.ActiveTab()

	switch cmd {
	case CommandTogglePicker:
		s.Focus = FocusSelector
		return viewport.FullViewport()
	case CommandFindInFile:
		if !s.ActiveTabIsText() {
			return viewport.RegionNone()
		}
		s.Focus = FocusFindInFile
		return viewport.FullViewport()
	case CommandNewTab:
		return s.newTab(ws)
	case CommandNewWorkspace:
		return s.newWorkspace()
	case CommandCloseTab:
		return s.closeTab(ws)
	case CommandCloseWorkspace:
		return s.closeWorkspace()
	case CommandQuit, CommandNewTerminalTab:
		// Quit belongs to the process run loop (cmd/lite-edit); spawning
		// a terminal needs PTY/event-channel wiring this package
		// deliberately does not own.
		return viewport.RegionNone()
	case CommandCycleTabForward, CommandCycleTabBackward:
		return s.cycleTab(ws, cmd == CommandCycleTabForward)
	case CommandSwitchWorkspace:
		return viewport.RegionNone() // workspace index supplied out of band
	}

	if tab == nil {
		return viewport.RegionNone()
	}

	switch cmd {
	case CommandSelectAll:
		return s.textCommand(tab, func(b *textbuf.TextBuffer) textbuf.DirtyLines { return b.SelectAll() })
	case CommandCopy:
		return s.copyCommand(tab)
	case CommandCut:
		return s.cutCommand(tab)
	case CommandPaste:
		return s.pasteCommand(tab)
	case CommandSave:
		return viewport.RegionNone() // persistence is handled by the caller (file I/O is a cmd/lite-edit concern)
	}
	return viewport.RegionNone()
}

func (s *State) cycleTab(ws *workspace.Workspace, forward bool) viewport.DirtyRegion {
	pane := ws.ActivePane()
	if pane == nil || len(pane.TabIds) == 0 {
		return viewport.RegionNone()
	}
	n := len(pane.TabIds)
	if forward {
		pane.ActiveTabIndex = (pane.ActiveTabIndex + 1) % n
	} else {
		pane.ActiveTabIndex = (pane.ActiveTabIndex - 1 + n) % n
	}
	return viewport.FullViewport()
}

// newTab creates an empty text tab in ws's active pane (spec.md §6 "T:
// new empty tab").
func (s *State) newTab(ws *workspace.Workspace) viewport.DirtyRegion {
	pane := ws.ActivePane()
	if pane == nil {
		return viewport.RegionNone()
	}
	tab := &workspace.Tab{
		Id:      s.Editor.NewTabId(),
		Kind:    workspace.TabFile,
		Label:   "untitled",
		Content: workspace.TabContent{Kind: workspace.ContentText, Text: textbuf.FromStr("")},
	}
	ws.AddTab(pane.Id, tab)
	return viewport.FullViewport()
}

// closeTab closes the active tab in ws's active pane, deferring to a
// PendingConfirm if it is dirty (spec.md §6 "W: close tab (confirm if
// dirty)"). A terminal tab's process is stopped before the pane
// forgets it.
func (s *State) closeTab(ws *workspace.Workspace) viewport.DirtyRegion {
	pane := ws.ActivePane()
	if pane == nil {
		return viewport.RegionNone()
	}
	idx := pane.ActiveTabIndex
	tabId, ok := pane.ActiveTabId()
	if !ok {
		return viewport.RegionNone()
	}
	tab := ws.Tabs[tabId]

	doClose := func() viewport.DirtyRegion {
		stopTabTerminal(tab)
		ws.CloseTab(pane.Id, idx)
		return viewport.FullViewport()
	}

	if tab != nil && tab.Dirty {
		s.Focus = FocusConfirmDialog
		s.PendingConfirm = &PendingConfirm{
			Message: fmt.Sprintf("Close %q without saving?", tab.Label),
			Accept:  doClose,
		}
		return viewport.FullViewport()
	}
	return doClose()
}

// newWorkspace creates a workspace rooted at the active workspace's
// path (or "." if none exists yet) and makes it active (spec.md §6
// "N: new workspace").
func (s *State) newWorkspace() viewport.DirtyRegion {
	root := "."
	if active := s.Editor.ActiveWorkspacePtr(); active != nil {
		root = active.RootPath
	}
	label := fmt.Sprintf("workspace %d", len(s.Editor.Workspaces)+1)
	ws := workspace.NewWorkspace(s.Editor.NewWorkspaceId(), label, root)
	s.Editor.AddWorkspace(ws)
	return viewport.FullViewport()
}

// closeWorkspace closes the active workspace, deferring to a
// PendingConfirm if it has a dirty tab or a running agent (spec.md §6
// "Shift+W: close workspace (confirm)").
func (s *State) closeWorkspace() viewport.DirtyRegion {
	idx := s.Editor.ActiveWorkspace
	ws := s.Editor.ActiveWorkspacePtr()
	if ws == nil {
		return viewport.RegionNone()
	}

	doClose := func() viewport.DirtyRegion {
		for _, tab := range ws.Tabs {
			stopTabTerminal(tab)
		}
		if ws.Agent != nil && ws.Agent.Terminal != nil {
			ws.Agent.Terminal.Stop()
		}
		s.Editor.CloseWorkspace(idx)
		return viewport.FullViewport()
	}

	if ws.HasDirtyTabOrRunningAgent() {
		s.Focus = FocusConfirmDialog
		s.PendingConfirm = &PendingConfirm{
			Message: fmt.Sprintf("Close workspace %q? Unsaved work will be lost.", ws.Label),
			Accept:  doClose,
		}
		return viewport.FullViewport()
	}
	return doClose()
}

// stopTabTerminal stops tab's PTY process, if it holds one.
func stopTabTerminal(tab *workspace.Tab) {
	if tab == nil {
		return
	}
	if tb, ok := tab.Terminal(); ok && tb != nil {
		tb.Stop()
	}
}

// textCommand applies fn to tab's buffer if it is a text tab, no-ops
// otherwise, and maps the resulting DirtyLines into a DirtyRegion.
func (s *State) textCommand(tab *workspace.Tab, fn func(*textbuf.TextBuffer) textbuf.DirtyLines) viewport.DirtyRegion {
	buf, ok := tab.TextBuffer()
	if !ok {
		return viewport.RegionNone()
	}
	dirty := fn(buf)
	lineCount := buf.LineCount()
	return viewport.DirtyLinesToRegion(dirty, tab.Viewport, lineCount)
}

func (s *State) copyCommand(tab *workspace.Tab) viewport.DirtyRegion {
	buf, ok := tab.TextBuffer()
	if !ok {
		return viewport.RegionNone()
	}
	if text, has := buf.SelectedText(); has {
		s.Clip.Copy(text)
	}
	return viewport.RegionNone()
}

func (s *State) cutCommand(tab *workspace.Tab) viewport.DirtyRegion {
	buf, ok := tab.TextBuffer()
	if !ok {
		return viewport.RegionNone()
	}
	text, has := buf.SelectedText()
	if !has {
		return viewport.RegionNone()
	}
	s.Clip.Copy(text)
	dirty := buf.InsertStr("") // deletes selection, inserts nothing
	tab.Dirty = true
	return viewport.DirtyLinesToRegion(dirty, tab.Viewport, buf.LineCount())
}

func (s *State) pasteCommand(tab *workspace.Tab) viewport.DirtyRegion {
	text, ok := s.Clip.Paste()
	if !ok || text == "" {
		return viewport.RegionNone()
	}
	if termTab, isTerm := tab.Terminal(); isTerm {
		_, _ = termTab.WritePaste([]byte(text))
		return viewport.RegionNone()
	}
	buf, ok := tab.TextBuffer()
	if !ok {
		return viewport.RegionNone()
	}
	dirty := buf.InsertStr(text)
	tab.Dirty = true
	return viewport.DirtyLinesToRegion(dirty, tab.Viewport, buf.LineCount())
}

// HandleFileDrop resolves the drop target pane by position (not
// active_pane_id), then inserts the shell-escaped, space-joined paths
// as text (file tab) or bracketed-paste PTY input (terminal tab).
func (s *State) HandleFileDrop(paths []string, x, y float32, contentBounds paneui.Bounds) viewport.DirtyRegion {
	ws := s.Editor.ActiveWorkspacePtr()
	if ws == nil {
		return viewport.RegionNone()
	}
	rects := ws.Panes.CalculateRects(contentBounds)
	paneId, ok := paneui.HitTest(rects, x, y)
	if !ok {
		return viewport.RegionNone()
	}
	pane := ws.Panes.Get(paneId)
	if pane == nil {
		return viewport.RegionNone()
	}
	tabId, ok := pane.ActiveTabId()
	if !ok {
		return viewport.RegionNone()
	}
	tab := ws.Tabs[tabId]
	if tab == nil {
		return viewport.RegionNone()
	}

	escaped := ShellEscapePaths(paths)
	if termTab, isTerm := tab.Terminal(); isTerm {
		_, _ = termTab.WritePaste([]byte(escaped))
		return viewport.RegionNone()
	}
	buf, ok := tab.TextBuffer()
	if !ok {
		return viewport.RegionNone()
	}
	dirty := buf.InsertStr(escaped)
	tab.Dirty = true
	return viewport.DirtyLinesToRegion(dirty, tab.Viewport, buf.LineCount())
}

// MouseHitResult is the resolved target of a mouse event after the
// single y-flip and pane-local translation (spec.md §4.6).
type MouseHitResult struct {
	HitRail    bool
	PaneId     paneui.PaneId
	HitTabBar  bool
	LocalX     float32
	LocalY     float32 // pane-local; tab-bar height already subtracted for content hits
}

// RouteMouse performs the full pipeline: flip y once, test the rail,
// compute pane rects, test each pane's tab-bar strip vs content, and
// translate to pane-local coordinates. platformY is in the platform's
// bottom-left-origin space; windowHeight converts it to screen space.
func (s *State) RouteMouse(platformX, platformY, windowHeight float32, contentBounds paneui.Bounds) MouseHitResult {
	y := windowHeight - platformY // the one y-flip, performed exactly once

	if platformX < s.Config.RailWidthPx {
		return MouseHitResult{HitRail: true}
	}

	ws := s.Editor.ActiveWorkspacePtr()
	if ws == nil {
		return MouseHitResult{}
	}
	rects := ws.Panes.CalculateRects(contentBounds)
	paneId, ok := paneui.HitTest(rects, platformX, y)
	if !ok {
		return MouseHitResult{}
	}
	var rect paneui.PaneRect
	for _, r := range rects {
		if r.PaneId == paneId {
			rect = r
			break
		}
	}

	localX := platformX - rect.X
	localY := y - rect.Y

	if localY < s.Config.TabBarHeightPx {
		return MouseHitResult{PaneId: paneId, HitTabBar: true, LocalX: localX, LocalY: localY}
	}
	return MouseHitResult{PaneId: paneId, LocalX: localX, LocalY: localY - s.Config.TabBarHeightPx}
}

// CursorBlinkDirty computes the DirtyRegion a CursorBlink tick
// produces for the active tab: FullViewport for a terminal tab (the
// cursor is part of the grid), otherwise a single-line region.
func (s *State) CursorBlinkDirty() viewport.DirtyRegion {
	ws := s.Editor.ActiveWorkspacePtr()
	if ws == nil {
		return viewport.RegionNone()
	}
	tab := ws.ActiveTab()
	if tab == nil {
		return viewport.RegionNone()
	}
	if _, isTerm := tab.Terminal(); isTerm {
		return viewport.FullViewport()
	}
	buf, ok := tab.TextBuffer()
	if !ok {
		return viewport.RegionNone()
	}
	return viewport.DirtyLinesToRegion(textbuf.Single(buf.CursorPosition().Line), tab.Viewport, buf.LineCount())
}

// ResizeTerminalTabViewport checks that tab is a terminal tab and
// panics via obs.Invariant otherwise. It does not modify the tab:
// Viewport stores no line count, so there is nothing to reset.
func ResizeTerminalTabViewport(tab *workspace.Tab) {
	if _, isTerm := tab.Terminal(); !isTerm {
		obs.Invariant("ResizeTerminalTabViewport called on non-terminal tab %d", tab.Id)
	}
}
