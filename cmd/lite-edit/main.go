// Command lite-edit wires the core packages into a runnable process:
// config/log init, the event channel, the drain loop, and the
// workspace-root filesystem watcher. The GPU rendering surface and
// platform input source are external collaborators (spec.md §1) and
// are represented here only by the minimal seams the core needs.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lite-edit/lite-edit/internal/clipboard"
	"github.com/lite-edit/lite-edit/internal/config"
	"github.com/lite-edit/lite-edit/internal/drain"
	"github.com/lite-edit/lite-edit/internal/editorstate"
	"github.com/lite-edit/lite-edit/internal/events"
	"github.com/lite-edit/lite-edit/internal/merge"
	"github.com/lite-edit/lite-edit/internal/obs"
	"github.com/lite-edit/lite-edit/internal/paneui"
	"github.com/lite-edit/lite-edit/internal/session"
	"github.com/lite-edit/lite-edit/internal/termbuf"
	"github.com/lite-edit/lite-edit/internal/textbuf"
	"github.com/lite-edit/lite-edit/internal/viewport"
	"github.com/lite-edit/lite-edit/internal/watch"
	"github.com/lite-edit/lite-edit/internal/workspace"
)

var (
	flagConfigDir = flag.String("config-dir", "", "override the lite-edit config directory")
	flagWorkspace = flag.String("workspace", ".", "initial workspace root path")
	flagOpenFile  = flag.String("open", "", "file to open in the initial tab")
)

func main() {
	flag.Parse()

	if err := config.InitConfigDir(*flagConfigDir); err != nil {
		fmt.Fprintln(os.Stderr, "lite-edit: config dir:", err)
		os.Exit(1)
	}
	if err := obs.Init(config.Dir); err != nil {
		fmt.Fprintln(os.Stderr, "lite-edit: log init:", err)
	}
	defer obs.RecoverCrash()

	settings, err := config.Load(config.Dir)
	if err != nil {
		obs.Logf("lite-edit: settings load failed, using defaults: %v", err)
		settings = config.Default()
	}

	root := *flagWorkspace
	ed := workspace.NewEditor()
	ws := workspace.NewWorkspace(ed.NewWorkspaceId(), root, root)
	ed.AddWorkspace(ws)

	suppressor := merge.NewSelfWriteSuppressor()

	if *flagOpenFile != "" {
		if err := openFileTab(ed, ws, *flagOpenFile); err != nil {
			obs.Logf("lite-edit: open %s failed: %v", *flagOpenFile, err)
		}
	}

	cfg := editorstate.Config{
		RailWidthPx:    float32(settings.RailWidthPx),
		TabBarHeightPx: float32(settings.TabBarHeightPx),
	}
	state := editorstate.NewState(ed, cfg, clipboard.NewMemoryClipboard())

	ch := events.NewChannel()
	wake := make(chan struct{}, 1)
	ch.Waker = func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}

	fsWatcher, err := watch.NewWatcher(root, time.Duration(settings.WatcherDebounceMs)*time.Millisecond, ch)
	if err != nil {
		obs.Logf("lite-edit: workspace watcher start failure: %v", err)
	}

	loop := &drain.Loop{
		Channel: ch,
		State:   state,
		Present: func(viewport.DirtyRegion) {
			// The real renderer (internal/render.Renderer) presents a
			// frame built from state here; absent a GPU backend in this
			// core, presenting is a no-op.
		},
		HandleEvent: func(e events.Event) viewport.DirtyRegion {
			return handlePlatformEvent(state, e, ch, settings, suppressor)
		},
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	blinkTicker := time.NewTicker(500 * time.Millisecond)
	defer blinkTicker.Stop()

	obs.Logf("lite-edit: started, workspace root %s", root)

	for {
		select {
		case <-sig:
			obs.Logf("lite-edit: shutting down")
			if fsWatcher != nil {
				fsWatcher.Stop()
			}
			if err := session.Save(config.Dir, ed); err != nil {
				obs.Logf("lite-edit: session save failed: %v", err)
			}
			shutdownTerminals(ed)
			return
		case <-blinkTicker.C:
			ch.Send(events.Event{Kind: events.CursorBlink})
			loop.RunCycle()
		case <-wake:
			loop.RunCycle()
		}
	}
}

// handlePlatformEvent routes non-PtyWakeup/CursorBlink events (which
// drain.Loop handles internally): Key events go to the command
// resolver, FileDrop to the drop handler, and FileChanged to the
// file-change merge pipeline. FileDeleted/FileRenamed are only logged;
// Mouse, Scroll, Resize and text-input events are not routed here and
// produce no dirty region. The platform layer that
// produces raw Key/Mouse events is an external collaborator; this
// function is the seam it calls into.
func handlePlatformEvent(state *editorstate.State, e events.Event, ch *events.Channel, settings config.Settings, suppressor *merge.SelfWriteSuppressor) viewport.DirtyRegion {
	switch e.Kind {
	case events.Key:
		mods := editorstate.Modifiers(e.Modifiers)
		cmd, ok := editorstate.ResolveCommand(e.KeyCode, mods)
		if !ok {
			return viewport.RegionNone()
		}
		if region, handled := handleIOCommand(state, cmd, ch, settings, suppressor); handled {
			return region
		}
		return state.Dispatch(cmd)
	case events.FileDrop:
		bounds := paneui.Bounds{} // supplied by the window layer in a real build
		return state.HandleFileDrop(e.Paths, e.DropPosition.X, e.DropPosition.Y, bounds)
	case events.FileChanged:
		return handleFileChanged(state, suppressor, e.Path)
	case events.FileDeleted, events.FileRenamed:
		obs.Logf("lite-edit: %v for %s", e.Kind, e.Path)
		return viewport.RegionNone()
	default:
		return viewport.RegionNone()
	}
}

// handleIOCommand intercepts the commands editorstate.State defers to
// its caller (spec.md §6's save and new-terminal-tab bindings): the
// ones that touch the filesystem or spawn a PTY rather than mutate
// in-memory editor state. Only active while the buffer has focus, so an
// open confirm dialog or picker still gets the chance to handle Enter
// or Escape through the normal Dispatch path.
func handleIOCommand(state *editorstate.State, cmd editorstate.Command, ch *events.Channel, settings config.Settings, suppressor *merge.SelfWriteSuppressor) (viewport.DirtyRegion, bool) {
	if state.Focus != editorstate.FocusBuffer {
		return viewport.RegionNone(), false
	}
	switch cmd {
	case editorstate.CommandSave:
		return saveActiveTab(state, suppressor), true
	case editorstate.CommandNewTerminalTab:
		ws := state.Editor.ActiveWorkspacePtr()
		if ws == nil {
			return viewport.RegionNone(), true
		}
		return spawnTerminalTab(state.Editor, ws, ch, settings), true
	}
	return viewport.RegionNone(), false
}

// saveActiveTab writes the active text tab's buffer to its associated
// file (spec.md §6 "Cmd+S: save"). Marks the self-write suppressor
// first so the watcher's own FileChanged for this write is not treated
// as an external edit (spec.md §4.9).
func saveActiveTab(state *editorstate.State, suppressor *merge.SelfWriteSuppressor) viewport.DirtyRegion {
	ws := state.Editor.ActiveWorkspacePtr()
	if ws == nil {
		return viewport.RegionNone()
	}
	tab := ws.ActiveTab()
	if tab == nil || tab.AssociatedFile == "" {
		return viewport.RegionNone()
	}
	buf, ok := tab.TextBuffer()
	if !ok {
		return viewport.RegionNone()
	}

	content := buf.String()
	suppressor.MarkSelfWrite(tab.AssociatedFile)
	if err := os.WriteFile(tab.AssociatedFile, []byte(content), 0o644); err != nil {
		obs.Logf("lite-edit: save %s failed: %v", tab.AssociatedFile, err)
		return viewport.RegionNone()
	}
	buf.SetBaseContent(content)
	tab.Dirty = false
	tab.ConflictLines = nil
	return viewport.FullViewport()
}

// spawnTerminalTab starts a shell PTY and adds it as a new tab in ws's
// active pane (spec.md §6 "Cmd+Shift+T: new terminal tab"). OnWakeup is
// wired to the event channel's coalescing PTY wakeup so PTY output
// drains promptly instead of waiting on the cursor-blink ticker
// (spec.md §8's PTY-lossless-under-load property, §9's deferred first
// render note).
func spawnTerminalTab(ed *workspace.Editor, ws *workspace.Workspace, ch *events.Channel, settings config.Settings) viewport.DirtyRegion {
	pane := ws.ActivePane()
	if pane == nil {
		return viewport.RegionNone()
	}

	opts := termbuf.Options{
		BytesPerPoll:      settings.BytesPerPoll,
		ScrollbackLines:   settings.ScrollbackLines,
		NeedsInputTimeout: time.Duration(settings.NeedsInputTimeoutMs) * time.Millisecond,
		StaleTimeout:      time.Duration(settings.StaleTimeoutMs) * time.Millisecond,
		PtyKillGrace:      time.Duration(settings.PtyKillGraceMs) * time.Millisecond,
	}
	tb, err := termbuf.Spawn(nil, 80, 24, opts)
	if err != nil {
		obs.Logf("lite-edit: terminal spawn failed: %v", err)
		return viewport.RegionNone()
	}
	tb.OnWakeup = func() { ch.SendPtyWakeup() }

	tab := &workspace.Tab{
		Id:      ed.NewTabId(),
		Kind:    workspace.TabTerminal,
		Label:   "terminal",
		Content: workspace.TabContent{Kind: workspace.ContentTerminal, Terminal: tb},
	}
	ws.AddTab(pane.Id, tab)
	return viewport.FullViewport()
}

// openFileTab reads path and adds it as a text tab in ws's active pane,
// used for the initial -open file and available for a future "open
// file" command. SetBaseContent records the on-disk content as of load
// so a later FileChanged compares against what the buffer actually
// started from (spec.md §4.9).
func openFileTab(ed *workspace.Editor, ws *workspace.Workspace, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := string(data)

	pane := ws.ActivePane()
	if pane == nil {
		return fmt.Errorf("lite-edit: workspace %s has no active pane", ws.Label)
	}

	buf := textbuf.FromStr(content)
	buf.SetBaseContent(content)
	tab := &workspace.Tab{
		Id:             ed.NewTabId(),
		Kind:           workspace.TabFile,
		Label:          filepath.Base(path),
		AssociatedFile: path,
		Content:        workspace.TabContent{Kind: workspace.ContentText, Text: buf},
	}
	ws.AddTab(pane.Id, tab)
	return nil
}

// handleFileChanged implements spec.md §4.9: when path changes on disk,
// find the tab it backs (if any is open) and either fast-forward the
// buffer to the new content or three-way merge it against the buffer's
// pending edits. A write the editor itself just performed is
// suppressed so saving doesn't immediately re-trigger a merge against
// its own output.
func handleFileChanged(state *editorstate.State, suppressor *merge.SelfWriteSuppressor, path string) viewport.DirtyRegion {
	if suppressor.ShouldSuppress(path) {
		return viewport.RegionNone()
	}
	for _, ws := range state.Editor.Workspaces {
		for _, tab := range ws.Tabs {
			if tab.AssociatedFile == path {
				return applyFileChanged(tab, path)
			}
		}
	}
	return viewport.RegionNone()
}

func applyFileChanged(tab *workspace.Tab, path string) viewport.DirtyRegion {
	buf, ok := tab.TextBuffer()
	if !ok {
		return viewport.RegionNone()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		obs.Logf("lite-edit: reload %s failed: %v", path, err)
		return viewport.RegionNone()
	}
	disk := string(data)

	if !tab.Dirty {
		buf.ReplaceAll(disk)
		buf.SetBaseContent(disk)
		tab.ConflictLines = nil
		return viewport.FullViewport()
	}

	base, _ := buf.BaseContent()
	result := merge.ThreeWayMerge(base, buf.String(), disk)
	buf.ReplaceAll(result.Text)
	buf.SetBaseContent(disk)

	if result.Outcome == merge.Conflict {
		lines := make(map[uint32]bool, len(result.ConflictLine))
		for l := range result.ConflictLine {
			lines[uint32(l)] = true
		}
		tab.ConflictLines = lines
		tab.Dirty = true
	} else {
		tab.ConflictLines = nil
	}
	return viewport.FullViewport()
}

func shutdownTerminals(ed *workspace.Editor) {
	for _, ws := range ed.Workspaces {
		for _, tab := range ws.Tabs {
			if tb, ok := tab.Terminal(); ok {
				tb.Stop()
			}
		}
		if ws.Agent != nil && ws.Agent.Terminal != nil {
			ws.Agent.Terminal.Stop()
		}
	}
}
