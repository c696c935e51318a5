package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUserInputPredicate(t *testing.T) {
	assert.True(t, Event{Kind: Key}.IsUserInput())
	assert.True(t, Event{Kind: Mouse}.IsUserInput())
	assert.True(t, Event{Kind: FileDrop}.IsUserInput())
	assert.False(t, Event{Kind: PtyWakeup}.IsUserInput())
	assert.False(t, Event{Kind: CursorBlink}.IsUserInput())
}

func TestIsPriorityEventIncludesResizeAndFsEvents(t *testing.T) {
	assert.True(t, Event{Kind: Resize}.IsPriorityEvent())
	assert.True(t, Event{Kind: FileChanged}.IsPriorityEvent())
	assert.True(t, Event{Kind: FileDeleted}.IsPriorityEvent())
	assert.True(t, Event{Kind: FileRenamed}.IsPriorityEvent())
	assert.False(t, Event{Kind: PtyWakeup}.IsPriorityEvent())
}

func TestChannelCoalescesPtyWakeups(t *testing.T) {
	c := NewChannel()
	wakeCount := 0
	c.Waker = func() { wakeCount++ }

	c.SendPtyWakeup()
	c.SendPtyWakeup()
	c.SendPtyWakeup()

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, wakeCount) // coalesced sends do not wake the loop again

	drained := c.DrainAll()
	assert.Len(t, drained, 1)
	assert.Equal(t, 0, c.Len())
}

func TestChannelPreservesOrder(t *testing.T) {
	c := NewChannel()
	c.Send(Event{Kind: Key, KeyCode: "a"})
	c.Send(Event{Kind: Mouse})
	c.SendPtyWakeup()
	c.Send(Event{Kind: Key, KeyCode: "b"})

	drained := c.DrainAll()
	assert.Equal(t, []Kind{Key, Mouse, PtyWakeup, Key}, []Kind{drained[0].Kind, drained[1].Kind, drained[2].Kind, drained[3].Kind})
}

func TestFollowupBypassesCoalescing(t *testing.T) {
	c := NewChannel()
	c.SendPtyWakeup()
	c.SendPtyWakeupFollowup()
	assert.Equal(t, 2, c.Len())
}
