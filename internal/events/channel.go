package events

import "sync"

// Channel is an MPSC queue feeding the drain loop. It coalesces rapid
// PTY wakeups into at most one pending PtyWakeup, and holds a waker the
// sender invokes so the main loop's select wakes promptly (spec.md
// §4.4).
type Channel struct {
	mu    sync.Mutex
	queue []Event

	wakeupPending bool

	Waker func()
}

// NewChannel constructs an empty Channel.
func NewChannel() *Channel {
	return &Channel{}
}

// Send enqueues e for the next drain cycle and invokes Waker, if set.
func (c *Channel) Send(e Event) {
	c.mu.Lock()
	c.queue = append(c.queue, e)
	c.mu.Unlock()
	if c.Waker != nil {
		c.Waker()
	}
}

// SendPtyWakeup enqueues a PtyWakeup unless one is already pending,
// collapsing bursts of PTY reads into a single wakeup per drain cycle.
func (c *Channel) SendPtyWakeup() {
	c.mu.Lock()
	if c.wakeupPending {
		c.mu.Unlock()
		return
	}
	c.wakeupPending = true
	c.queue = append(c.queue, Event{Kind: PtyWakeup})
	c.mu.Unlock()
	if c.Waker != nil {
		c.Waker()
	}
}

// SendPtyWakeupFollowup enqueues another PtyWakeup unconditionally,
// bypassing the coalescing flag — used when a terminal returned
// MorePending and must be revisited next cycle.
func (c *Channel) SendPtyWakeupFollowup() {
	c.mu.Lock()
	c.queue = append(c.queue, Event{Kind: PtyWakeup})
	c.mu.Unlock()
	if c.Waker != nil {
		c.Waker()
	}
}

// DrainAll removes and returns every queued event, resetting the
// wakeup-pending flag so a future PtyWakeup can coalesce again.
func (c *Channel) DrainAll() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.queue
	c.queue = nil
	c.wakeupPending = false
	return out
}

// Len reports the number of currently queued events.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}
