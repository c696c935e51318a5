package session

import (
	"testing"

	"github.com/lite-edit/lite-edit/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ed := workspace.NewEditor()
	ws := workspace.NewWorkspace(ed.NewWorkspaceId(), "my-ws", "/tmp/proj")
	ed.AddWorkspace(ws)
	tab := &workspace.Tab{Id: ed.NewTabId(), AssociatedFile: "/tmp/proj/main.go"}
	ws.AddTab(ws.ActivePaneId, tab)

	require.NoError(t, Save(dir, ed))

	f, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, f.Workspaces, 1)
	assert.Equal(t, ws.SessionId, f.Workspaces[0].SessionId)
	assert.Equal(t, []string{"/tmp/proj/main.go"}, f.Workspaces[0].OpenFiles)
}

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	f, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, f.Workspaces)
}
