// Package workspace implements Tab/Workspace/Editor ownership (spec.md
// §3): tabs hold either a text buffer or a terminal, workspaces own a
// pane tree, and the editor owns the workspace list.
package workspace

import (
	"github.com/google/uuid"
	"github.com/lite-edit/lite-edit/internal/paneui"
	"github.com/lite-edit/lite-edit/internal/termbuf"
	"github.com/lite-edit/lite-edit/internal/textbuf"
	"github.com/lite-edit/lite-edit/internal/viewport"
)

// TabKind discriminates what a Tab displays.
type TabKind int

const (
	TabFile TabKind = iota
	TabTerminal
	TabAgentOutput
	TabDiff
	TabAgentTerminalPlaceholder
)

// ContentKind discriminates TabContent's active variant.
type ContentKind int

const (
	ContentText ContentKind = iota
	ContentTerminal
	ContentAgentTerminal // terminal instance lives on the Workspace, not the Tab
)

// TabContent is a tagged union: exactly one of Text/Terminal is set
// according to Kind. AgentTerminal carries no payload here since its
// TerminalBuffer is owned by the Workspace's AgentHandle.
type TabContent struct {
	Kind     ContentKind
	Text     *textbuf.TextBuffer
	Terminal *termbuf.TerminalBuffer
}

// Tab is one pane entry: a buffer or terminal plus its own viewport.
type Tab struct {
	Id             uint64
	Kind           TabKind
	Label          string
	AssociatedFile string // empty means no backing file
	Dirty          bool
	Unread         bool
	Viewport       viewport.Viewport
	Content        TabContent

	// ConflictLines marks the merged-text lines a three-way merge
	// flagged as a conflict block, for the renderer's gutter marker
	// (SPEC_FULL.md's supplemented merge-surfacing feature). Nil when
	// the tab has no unresolved conflict.
	ConflictLines map[uint32]bool
}

// IsText reports whether the tab's content is a text buffer — the
// Option-returning counterpart spec.md §4.10 requires before any
// accessor assumes Buffer content.
func (t *Tab) IsText() bool { return t.Content.Kind == ContentText }

// TextBuffer returns the tab's buffer and true, or nil/false if the
// tab is not a text tab.
func (t *Tab) TextBuffer() (*textbuf.TextBuffer, bool) {
	if !t.IsText() {
		return nil, false
	}
	return t.Content.Text, true
}

// Terminal returns the tab's terminal and true, or nil/false otherwise.
func (t *Tab) Terminal() (*termbuf.TerminalBuffer, bool) {
	if t.Content.Kind != ContentTerminal {
		return nil, false
	}
	return t.Content.Terminal, true
}

// WorkspaceStatus reflects the aggregate state of a workspace's agent
// or running terminals, surfaced in the UI (tab label, left rail).
type WorkspaceStatus int

const (
	StatusIdle WorkspaceStatus = iota
	StatusRunning
	StatusNeedsInput
	StatusStale
	StatusCompleted
	StatusErrored
)

// AgentHandle is a placeholder for an AgentTerminal's backing process;
// the core spec treats its internals as opaque.
type AgentHandle struct {
	Terminal *termbuf.TerminalBuffer
}

// Workspace owns one pane tree plus the tabs within it.
type Workspace struct {
	Id           uint64
	SessionId    string // stable across process restarts; keys persisted-state lookups
	Label        string
	RootPath     string
	Panes        *paneui.Tree
	ActivePaneId paneui.PaneId
	Status       WorkspaceStatus
	Agent        *AgentHandle

	Tabs map[uint64]*Tab // owned by id; panes reference tabs by id
}

// NewWorkspace creates a workspace with a single empty pane.
func NewWorkspace(id uint64, label, rootPath string) *Workspace {
	tree := paneui.NewTree()
	root := tree.AllPanes()[0]
	return &Workspace{
		Id:           id,
		SessionId:    uuid.NewString(),
		Label:        label,
		RootPath:     rootPath,
		Panes:        tree,
		ActivePaneId: root.Id,
		Status:       StatusIdle,
		Tabs:         make(map[uint64]*Tab),
	}
}

// ActivePane returns the currently focused pane.
func (w *Workspace) ActivePane() *paneui.Pane {
	return w.Panes.Get(w.ActivePaneId)
}

// ActiveTab returns the active pane's active tab, or nil if the pane
// holds no tabs.
func (w *Workspace) ActiveTab() *Tab {
	pane := w.ActivePane()
	if pane == nil {
		return nil
	}
	id, ok := pane.ActiveTabId()
	if !ok {
		return nil
	}
	return w.Tabs[id]
}

// AddTab inserts tab into the given pane and registers it on the
// workspace.
func (w *Workspace) AddTab(paneId paneui.PaneId, tab *Tab) {
	w.Tabs[tab.Id] = tab
	if pane := w.Panes.Get(paneId); pane != nil {
		pane.AddTab(tab.Id)
	}
}

// CloseTab removes the tab at idx in the given pane, collapsing empty
// panes, and forgets the Tab. Returns false if idx/pane is invalid.
func (w *Workspace) CloseTab(paneId paneui.PaneId, idx int) bool {
	pane := w.Panes.Get(paneId)
	if pane == nil || idx < 0 || idx >= len(pane.TabIds) {
		return false
	}
	tabId := pane.TabIds[idx]
	if !w.Panes.CloseTab(paneId, idx) {
		return false
	}
	delete(w.Tabs, tabId)
	return true
}

// Editor owns every workspace.
type Editor struct {
	Workspaces     []*Workspace
	ActiveWorkspace int
	nextTabId      uint64
	nextWorkspaceId uint64
}

// NewEditor creates an empty Editor.
func NewEditor() *Editor {
	return &Editor{nextTabId: 1, nextWorkspaceId: 1}
}

// NewTabId mints the next Tab id.
func (e *Editor) NewTabId() uint64 {
	id := e.nextTabId
	e.nextTabId++
	return id
}

// NewWorkspaceId mints the next Workspace id.
func (e *Editor) NewWorkspaceId() uint64 {
	id := e.nextWorkspaceId
	e.nextWorkspaceId++
	return id
}

// ActiveWorkspacePtr returns the currently focused workspace, or nil if
// none exist.
func (e *Editor) ActiveWorkspacePtr() *Workspace {
	if e.ActiveWorkspace < 0 || e.ActiveWorkspace >= len(e.Workspaces) {
		return nil
	}
	return e.Workspaces[e.ActiveWorkspace]
}

// AddWorkspace appends w and makes it active.
func (e *Editor) AddWorkspace(w *Workspace) {
	e.Workspaces = append(e.Workspaces, w)
	e.ActiveWorkspace = len(e.Workspaces) - 1
}

// SwitchWorkspace changes the active workspace index, if in range.
func (e *Editor) SwitchWorkspace(idx int) bool {
	if idx < 0 || idx >= len(e.Workspaces) {
		return false
	}
	e.ActiveWorkspace = idx
	return true
}

// CloseWorkspace removes the workspace at idx. Callers are responsible
// for confirming dirty tabs/running agents per spec.md's lifecycle note
// before calling this.
func (e *Editor) CloseWorkspace(idx int) bool {
	if idx < 0 || idx >= len(e.Workspaces) {
		return false
	}
	e.Workspaces = append(e.Workspaces[:idx], e.Workspaces[idx+1:]...)
	if e.ActiveWorkspace >= len(e.Workspaces) {
		e.ActiveWorkspace = len(e.Workspaces) - 1
	}
	if e.ActiveWorkspace < 0 {
		e.ActiveWorkspace = 0
	}
	return true
}

// HasDirtyTabOrRunningAgent reports whether closing w would lose work,
// per the Workspace lifecycle note in spec.md §3.
func (w *Workspace) HasDirtyTabOrRunningAgent() bool {
	for _, t := range w.Tabs {
		if t.Dirty {
			return true
		}
	}
	return w.Agent != nil && (w.Status == StatusRunning || w.Status == StatusNeedsInput)
}
