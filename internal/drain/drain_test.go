package drain

import (
	"testing"

	"github.com/lite-edit/lite-edit/internal/clipboard"
	"github.com/lite-edit/lite-edit/internal/editorstate"
	"github.com/lite-edit/lite-edit/internal/events"
	"github.com/lite-edit/lite-edit/internal/viewport"
	"github.com/lite-edit/lite-edit/internal/workspace"
	"github.com/stretchr/testify/assert"
)

func TestInputFirstLatencyBound(t *testing.T) {
	ed := workspace.NewEditor()
	ws := workspace.NewWorkspace(ed.NewWorkspaceId(), "w", "/tmp")
	ed.AddWorkspace(ws)
	state := editorstate.NewState(ed, editorstate.Config{RailWidthPx: 48, TabBarHeightPx: 28}, clipboard.NewMemoryClipboard())

	ch := events.NewChannel()
	var dispatchOrder []events.Kind

	loop := &Loop{
		Channel: ch,
		State:   state,
		HandleEvent: func(e events.Event) viewport.DirtyRegion {
			dispatchOrder = append(dispatchOrder, e.Kind)
			return viewport.RegionNone()
		},
	}

	ch.Send(Event(events.PtyWakeup))
	ch.Send(Event(events.Key))
	ch.Send(Event(events.PtyWakeup))

	loop.RunCycle()

	// PtyWakeup is routed to pollAgents, never to HandleEvent, so only
	// the Key event should appear here — and it must be present despite
	// two PtyWakeups surrounding it in arrival order.
	assert.Equal(t, []events.Kind{events.Key}, dispatchOrder)
}

// Event is a tiny constructor avoiding repeated struct literals above.
func Event(kind events.Kind) events.Event { return events.Event{Kind: kind} }

func TestPtyWakeupWithoutTerminalsPresentsNothing(t *testing.T) {
	ed := workspace.NewEditor()
	ws := workspace.NewWorkspace(ed.NewWorkspaceId(), "w", "/tmp")
	ed.AddWorkspace(ws)

	state := editorstate.NewState(ed, editorstate.Config{}, clipboard.NewMemoryClipboard())
	ch := events.NewChannel()

	presented := false
	loop := &Loop{
		Channel: ch,
		State:   state,
		Present: func(viewport.DirtyRegion) { presented = true },
		HandleEvent: func(e events.Event) viewport.DirtyRegion {
			return viewport.RegionNone()
		},
	}

	// No terminals registered: pollAgents should be a no-op producing
	// no dirty region and no follow-up, proving PtyWakeup alone never
	// forces a present when there is nothing to redraw.
	ch.Send(Event(events.PtyWakeup))
	loop.RunCycle()
	assert.False(t, presented)
	assert.Equal(t, 0, ch.Len())
}
