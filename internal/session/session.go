// Package session persists the workspace list to a JSON file so the
// editor can restore open workspaces/paths on the next launch — the
// optional persisted-state feature spec.md §6 names but leaves out of
// scope in detail.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	goerrors "github.com/go-errors/errors"
	"github.com/lite-edit/lite-edit/internal/workspace"
)

// WorkspaceEntry is one persisted workspace: its stable session id,
// label, root path, and the files open in its tabs.
type WorkspaceEntry struct {
	SessionId  string   `json:"session_id"`
	Label      string   `json:"label"`
	RootPath   string   `json:"root_path"`
	OpenFiles  []string `json:"open_files"`
}

// File is the on-disk session document.
type File struct {
	Workspaces []WorkspaceEntry `json:"workspaces"`
}

const fileName = "session.json"

// Save writes the current open-workspace list to dir/session.json.
func Save(dir string, ed *workspace.Editor) error {
	var f File
	for _, ws := range ed.Workspaces {
		entry := WorkspaceEntry{SessionId: ws.SessionId, Label: ws.Label, RootPath: ws.RootPath}
		for _, tab := range ws.Tabs {
			if tab.AssociatedFile != "" {
				entry.OpenFiles = append(entry.OpenFiles, tab.AssociatedFile)
			}
		}
		f.Workspaces = append(f.Workspaces, entry)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return goerrors.Wrap(err, 0)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerrors.Wrap(err, 0)
	}
	return os.WriteFile(filepath.Join(dir, fileName), data, 0o644)
}

// Load reads a previously saved session document, returning an empty
// File if none exists yet.
func Load(dir string) (File, error) {
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, nil
		}
		return File{}, goerrors.Wrap(err, 0)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, goerrors.Wrap(err, 0)
	}
	return f, nil
}
