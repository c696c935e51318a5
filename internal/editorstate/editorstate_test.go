package editorstate

import (
	"testing"

	"github.com/lite-edit/lite-edit/internal/clipboard"
	"github.com/lite-edit/lite-edit/internal/paneui"
	"github.com/lite-edit/lite-edit/internal/textbuf"
	"github.com/lite-edit/lite-edit/internal/viewport"
	"github.com/lite-edit/lite-edit/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() (*State, *workspace.Workspace, *workspace.Tab) {
	ed := workspace.NewEditor()
	ws := workspace.NewWorkspace(ed.NewWorkspaceId(), "w1", "/tmp")
	ed.AddWorkspace(ws)

	buf := textbuf.FromStr("hello\nworld\n")
	tab := &workspace.Tab{
		Id:       ed.NewTabId(),
		Kind:     workspace.TabFile,
		Viewport: viewport.Viewport{VisibleRows: 10, RowHeightPx: 16},
		Content:  workspace.TabContent{Kind: workspace.ContentText, Text: buf},
	}
	ws.AddTab(ws.ActivePaneId, tab)

	cfg := Config{RailWidthPx: 48, TabBarHeightPx: 28}
	s := NewState(ed, cfg, clipboard.NewMemoryClipboard())
	return s, ws, tab
}

func TestResolveCommandPrimaryBeforeControl(t *testing.T) {
	cmd, ok := ResolveCommand("a", ModPrimary)
	require.True(t, ok)
	assert.Equal(t, CommandSelectAll, cmd)
}

func TestDispatchSelectAllAndCopy(t *testing.T) {
	s, _, tab := newTestState()

	region := s.Dispatch(CommandSelectAll)
	assert.True(t, region.IsFull())

	region = s.Dispatch(CommandCopy)
	assert.True(t, region.IsNone())

	text, ok := s.Clip.Paste()
	require.True(t, ok)
	assert.Equal(t, "hello\nworld\n", text)
	_ = tab
}

func TestPasteIntoTextTab(t *testing.T) {
	s, _, tab := newTestState()
	s.Clip.Copy("XYZ")

	region := s.Dispatch(CommandPaste)
	assert.False(t, region.IsNone())
	assert.True(t, tab.Dirty)
}

func TestTerminalTabSafetyNoOpsTextCommands(t *testing.T) {
	ed := workspace.NewEditor()
	ws := workspace.NewWorkspace(ed.NewWorkspaceId(), "w1", "/tmp")
	ed.AddWorkspace(ws)
	tab := &workspace.Tab{
		Id:      ed.NewTabId(),
		Kind:    workspace.TabTerminal,
		Content: workspace.TabContent{Kind: workspace.ContentTerminal, Terminal: nil},
	}
	ws.AddTab(ws.ActivePaneId, tab)

	cfg := Config{RailWidthPx: 48, TabBarHeightPx: 28}
	s := NewState(ed, cfg, clipboard.NewMemoryClipboard())

	assert.False(t, s.ActiveTabIsText())
	region := s.Dispatch(CommandSelectAll)
	assert.True(t, region.IsNone())
}

func TestCycleTabWraps(t *testing.T) {
	s, ws, _ := newTestState()
	buf2 := textbuf.FromStr("second")
	tab2 := &workspace.Tab{Id: s.Editor.NewTabId(), Content: workspace.TabContent{Kind: workspace.ContentText, Text: buf2}}
	ws.AddTab(ws.ActivePaneId, tab2)

	pane := ws.ActivePane()
	assert.Equal(t, 1, pane.ActiveTabIndex)

	s.Dispatch(CommandCycleTabForward)
	assert.Equal(t, 0, pane.ActiveTabIndex)
}

func TestMouseRoutingFlipsYOnceAndTranslatesLocal(t *testing.T) {
	s, _, _ := newTestState()
	bounds := paneui.Bounds{X: 48, Y: 0, Width: 752, Height: 600}

	result := s.RouteMouse(100, 590, 600, bounds) // platform bottom-left y=590 -> screen y=10
	assert.False(t, result.HitRail)
	assert.True(t, result.HitTabBar) // y=10 < TabBarHeightPx(28)
	assert.Equal(t, float32(52), result.LocalX) // 100 - pane origin x 48
	assert.Equal(t, float32(10), result.LocalY)
}

func TestMouseRoutingHitsRail(t *testing.T) {
	s, _, _ := newTestState()
	bounds := paneui.Bounds{X: 48, Y: 0, Width: 752, Height: 600}
	result := s.RouteMouse(10, 590, 600, bounds)
	assert.True(t, result.HitRail)
}

func TestShellEscapePathsJoinsAndQuotes(t *testing.T) {
	out := ShellEscapePaths([]string{"a b.txt", "it's.go"})
	assert.Contains(t, out, "a b.txt")
}

func TestNewTabAddsEmptyTextTab(t *testing.T) {
	s, ws, _ := newTestState()
	pane := ws.ActivePane()
	before := len(pane.TabIds)

	region := s.Dispatch(CommandNewTab)
	assert.True(t, region.IsFull())
	assert.Equal(t, before+1, len(pane.TabIds))

	tab := ws.ActiveTab()
	require.NotNil(t, tab)
	text, ok := tab.TextBuffer()
	require.True(t, ok)
	assert.Equal(t, "", text.String())
}

func TestCloseTabWithoutDirtyClosesImmediately(t *testing.T) {
	s, ws, _ := newTestState()
	pane := ws.ActivePane()
	before := len(pane.TabIds)

	region := s.Dispatch(CommandCloseTab)
	assert.True(t, region.IsFull())
	assert.Equal(t, before-1, len(pane.TabIds))
	assert.Equal(t, FocusBuffer, s.Focus)
	assert.Nil(t, s.PendingConfirm)
}

func TestCloseDirtyTabDefersToConfirmDialog(t *testing.T) {
	s, ws, tab := newTestState()
	tab.Dirty = true
	pane := ws.ActivePane()
	before := len(pane.TabIds)

	region := s.Dispatch(CommandCloseTab)
	assert.True(t, region.IsFull())
	assert.Equal(t, before, len(pane.TabIds)) // not yet closed
	assert.Equal(t, FocusConfirmDialog, s.Focus)
	require.NotNil(t, s.PendingConfirm)

	s.Dispatch(CommandConfirmAccept)
	assert.Equal(t, before-1, len(pane.TabIds))
	assert.Equal(t, FocusBuffer, s.Focus)
	assert.Nil(t, s.PendingConfirm)
}

func TestCloseOverlayDropsPendingConfirmWithoutClosing(t *testing.T) {
	s, ws, tab := newTestState()
	tab.Dirty = true
	pane := ws.ActivePane()
	before := len(pane.TabIds)

	s.Dispatch(CommandCloseTab)
	require.NotNil(t, s.PendingConfirm)

	s.Dispatch(CommandCloseOverlay)
	assert.Nil(t, s.PendingConfirm)
	assert.Equal(t, FocusBuffer, s.Focus)
	assert.Equal(t, before, len(pane.TabIds)) // dialog cancelled: tab survives
}

func TestNewWorkspaceAddsAndActivates(t *testing.T) {
	s, _, _ := newTestState()
	before := len(s.Editor.Workspaces)

	region := s.Dispatch(CommandNewWorkspace)
	assert.True(t, region.IsFull())
	assert.Equal(t, before+1, len(s.Editor.Workspaces))
	assert.Equal(t, before, s.Editor.ActiveWorkspace)
}

func TestCloseWorkspaceWithDirtyTabDefersToConfirmDialog(t *testing.T) {
	s, _, tab := newTestState()
	tab.Dirty = true
	before := len(s.Editor.Workspaces)

	region := s.Dispatch(CommandCloseWorkspace)
	assert.True(t, region.IsFull())
	assert.Equal(t, before, len(s.Editor.Workspaces))
	require.NotNil(t, s.PendingConfirm)

	s.Dispatch(CommandConfirmAccept)
	assert.Equal(t, before-1, len(s.Editor.Workspaces))
}
