// Package drain implements the per-cycle drain loop spec.md §4.5
// describes: drain the event channel, dispatch priority events ahead
// of PtyWakeup/CursorBlink, poll terminals under a byte budget, and
// decide whether to present a frame.
package drain

import (
	"github.com/lite-edit/lite-edit/internal/editorstate"
	"github.com/lite-edit/lite-edit/internal/events"
	"github.com/lite-edit/lite-edit/internal/termbuf"
	"github.com/lite-edit/lite-edit/internal/viewport"
	"github.com/lite-edit/lite-edit/internal/workspace"
)

// Loop owns the channel and editor state it cycles over.
type Loop struct {
	Channel *events.Channel
	State   *editorstate.State

	// Present is invoked once per cycle when the accumulated dirty
	// region is non-empty. cmd/lite-edit supplies it as a no-op, since
	// no render backend is wired into this core.
	Present func(viewport.DirtyRegion)

	// HandleEvent dispatches one event other than PtyWakeup/CursorBlink
	// against State and returns the DirtyRegion it produced.
	// cmd/lite-edit supplies it (handlePlatformEvent).
	HandleEvent func(events.Event) viewport.DirtyRegion
}

// RunCycle executes exactly one drain cycle.
func (l *Loop) RunCycle() {
	pending := l.Channel.DrainAll()
	if len(pending) == 0 {
		return
	}

	priority, deferred := partition(pending)

	dirty := viewport.RegionNone()
	for _, e := range priority {
		dirty = viewport.MergeRegion(dirty, l.dispatch(e))
	}
	for _, e := range deferred {
		dirty = viewport.MergeRegion(dirty, l.dispatch(e))
	}

	if l.Present != nil && !dirty.IsNone() {
		l.Present(dirty)
	}
}

// partition splits events into priority-first and deferred
// (PtyWakeup/CursorBlink), preserving arrival order within each group
// (spec.md §4.5 step 2).
func partition(pending []events.Event) (priority, deferred []events.Event) {
	for _, e := range pending {
		if e.IsPriorityEvent() {
			priority = append(priority, e)
		} else {
			deferred = append(deferred, e)
		}
	}
	return
}

func (l *Loop) dispatch(e events.Event) viewport.DirtyRegion {
	switch e.Kind {
	case events.PtyWakeup:
		return l.pollAgents()
	case events.CursorBlink:
		return l.State.CursorBlinkDirty()
	default:
		if l.HandleEvent != nil {
			return l.HandleEvent(e)
		}
		return viewport.RegionNone()
	}
}

// pollAgents polls every standalone terminal tab and every workspace
// agent's terminal across all workspaces, honoring each terminal's own
// byte budget. Any terminal reporting MorePending schedules a
// follow-up wakeup that bypasses the coalescing flag (spec.md §4.5
// step 4).
func (l *Loop) pollAgents() viewport.DirtyRegion {
	dirty := viewport.RegionNone()
	morePending := false

	for _, ws := range l.State.Editor.Workspaces {
		for _, tab := range ws.Tabs {
			if tb, ok := tab.Terminal(); ok {
				result := tb.PollEvents()
				dirty = viewport.MergeRegion(dirty, regionForPollResult(result, tab))
				if result == termbuf.PollMorePending {
					morePending = true
				}
			}
		}
		if ws.Agent != nil && ws.Agent.Terminal != nil {
			result := ws.Agent.Terminal.PollEvents()
			if result != termbuf.PollIdle {
				dirty = viewport.FullViewport()
			}
			if result == termbuf.PollMorePending {
				morePending = true
			}
		}
	}

	if morePending {
		l.Channel.SendPtyWakeupFollowup()
	}
	return dirty
}

func regionForPollResult(result termbuf.PollResult, tab *workspace.Tab) viewport.DirtyRegion {
	if result == termbuf.PollIdle {
		return viewport.RegionNone()
	}
	return viewport.FullViewport()
}
