package termbuf

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		BytesPerPoll:      64,
		ScrollbackLines:   200,
		NeedsInputTimeout: 50 * time.Millisecond,
		StaleTimeout:      50 * time.Millisecond,
		PtyKillGrace:      50 * time.Millisecond,
	}
}

func TestSpawnAndEcho(t *testing.T) {
	tb, err := Spawn([]string{"/bin/sh", "-c", "printf hello"}, 80, 24, testOptions())
	require.NoError(t, err)
	defer tb.Stop()

	var result PollResult
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		result = tb.PollEvents()
		if result != PollIdle {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.NotEqual(t, PollIdle, result)
}

func TestPollEventsRespectsByteBudget(t *testing.T) {
	opts := testOptions()
	opts.BytesPerPoll = 4
	tb, err := Spawn([]string{"/bin/sh", "-c", "printf 0123456789abcdef"}, 80, 24, opts)
	require.NoError(t, err)
	defer tb.Stop()

	time.Sleep(100 * time.Millisecond)

	first := tb.PollEvents()
	assert.Equal(t, PollMorePending, first)
}

func TestWritePasteWrapsWhenBracketed(t *testing.T) {
	tb := &TerminalBuffer{opts: testOptions()}
	tb.pty = nil
	tb.bracketedPaste = true
	_, err := tb.WritePaste([]byte("x"))
	assert.Error(t, err) // nil pty: rejected before anything is written

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	tb.pty = w
	_, err = tb.WritePaste([]byte("x"))
	require.NoError(t, err)
	w.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "\x1b[200~x\x1b[201~", string(got))
}

func TestLifecycleTransitionsToNeedsInputThenStale(t *testing.T) {
	tb := &TerminalBuffer{opts: testOptions(), state: StateRunning, lastOutputAt: time.Now()}

	s := tb.UpdateLifecycle(time.Now())
	assert.Equal(t, StateRunning, s)

	s = tb.UpdateLifecycle(time.Now().Add(tb.opts.NeedsInputTimeout + time.Millisecond))
	assert.Equal(t, StateNeedsInput, s)

	s = tb.UpdateLifecycle(time.Now().Add(tb.opts.NeedsInputTimeout + tb.opts.StaleTimeout + time.Millisecond))
	assert.Equal(t, StateStale, s)
}

func TestScrollUpDownClamp(t *testing.T) {
	tb := &TerminalBuffer{Scrollback: NewScrollbackBuffer(10)}
	for i := 0; i < 5; i++ {
		tb.Scrollback.Push(ScrollbackLine{})
	}
	tb.ScrollUp(100)
	assert.Equal(t, 5, tb.scrollOffset)
	tb.ScrollDown(100)
	assert.Equal(t, 0, tb.scrollOffset)
	assert.True(t, tb.IsAtBottom())
}

func TestDetectBracketedPasteMode(t *testing.T) {
	tb := &TerminalBuffer{}
	tb.detectBracketedPasteMode([]byte("\x1b[?2004h"))
	assert.True(t, tb.bracketedPaste)
	tb.detectBracketedPasteMode([]byte("\x1b[?2004l"))
	assert.False(t, tb.bracketedPaste)
}
