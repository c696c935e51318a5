// Package termbuf is the VTE-driven PTY consumer described in spec.md
// §4.3: it owns a vt10x state machine, a scrollback buffer, and a
// byte-budgeted poll that the drain loop calls once per cycle so no
// single terminal can starve user input.
package termbuf

import (
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/hinshun/vt10x"
	"github.com/lite-edit/lite-edit/internal/textbuf"
)

// PollResult is the outcome of one poll_events call.
type PollResult int

const (
	PollIdle PollResult = iota
	PollProcessed
	PollMorePending
)

// State is a terminal's lifecycle stage (spec.md §4.3).
type State int

const (
	StateStarting State = iota
	StateRunning
	StateNeedsInput
	StateStale
	StateExited
)

// Options configures a TerminalBuffer's tunables; these come from
// internal/config.Settings at call sites rather than scattered literals.
type Options struct {
	BytesPerPoll        int
	ScrollbackLines     int
	NeedsInputTimeout   time.Duration
	StaleTimeout        time.Duration
	PtyKillGrace        time.Duration
}

// OnWakeup is invoked from the PTY reader goroutine whenever bytes
// arrive; the caller (the editor's EventChannel) is responsible for
// coalescing repeated wakeups into a single PtyWakeup event.
type TerminalBuffer struct {
	mu sync.Mutex

	vt  vt10x.Terminal
	pty *os.File
	cmd *exec.Cmd

	queue []byte // unread PTY output, appended by the reader goroutine

	Scrollback   *ScrollbackBuffer
	scrollOffset int

	prevRows [][]vt10x.Glyph // snapshot before the last vt.Write, for scroll detection

	state        State
	exitCode     int
	lastOutputAt time.Time
	startedAt    time.Time

	bracketedPaste bool

	selStart, selEnd textbufLoc
	opts             Options

	OnWakeup func()
}

type textbufLoc struct{ X, Y int }

// Spawn starts cmdArgs (or the user's shell if empty) in a PTY sized
// cols x rows and begins the background reader.
func Spawn(cmdArgs []string, cols, rows int, opts Options) (*TerminalBuffer, error) {
	if cmdArgs == nil || len(cmdArgs) == 0 {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		cmdArgs = []string{shell}
	}

	cmd := exec.Command(cmdArgs[0], cmdArgs[1:]...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	_ = pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})

	vt := vt10x.New(vt10x.WithSize(cols, rows), vt10x.WithWriter(ptmx))

	t := &TerminalBuffer{
		vt:           vt,
		pty:          ptmx,
		cmd:          cmd,
		Scrollback:   NewScrollbackBuffer(opts.ScrollbackLines),
		state:        StateStarting,
		startedAt:    time.Now(),
		lastOutputAt: time.Now(),
		opts:         opts,
	}

	go t.readLoop()
	return t, nil
}

func (t *TerminalBuffer) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := t.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			t.mu.Lock()
			t.queue = append(t.queue, chunk...)
			t.mu.Unlock()
			if t.OnWakeup != nil {
				t.OnWakeup()
			}
		}
		if err != nil {
			t.mu.Lock()
			t.state = StateExited
			t.exitCode = exitCodeOf(t.cmd)
			t.mu.Unlock()
			return
		}
	}
}

func exitCodeOf(cmd *exec.Cmd) int {
	if cmd == nil || cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}

// PollEvents consumes at most opts.BytesPerPoll bytes of pending PTY
// output, feeding the VTE and updating scrollback/selection/auto-follow
// state. Any bytes beyond the budget remain queued for the next call.
func (t *TerminalBuffer) PollEvents() PollResult {
	t.mu.Lock()
	if len(t.queue) == 0 {
		t.mu.Unlock()
		return PollIdle
	}

	budget := t.opts.BytesPerPoll
	if budget <= 0 {
		budget = 4096
	}
	n := budget
	if n > len(t.queue) {
		n = len(t.queue)
	}
	chunk := t.queue[:n]
	rest := make([]byte, len(t.queue)-n)
	copy(rest, t.queue[n:])
	t.queue = rest
	more := len(t.queue) > 0
	t.mu.Unlock()

	t.detectBracketedPasteMode(chunk)

	wasAtBottom := t.scrollOffset == 0

	t.captureRowsBeforeWrite()
	t.vt.Write(chunk)
	t.captureScrolledLines()

	t.clearSelection()

	t.mu.Lock()
	t.lastOutputAt = time.Now()
	if t.state == StateStarting || t.state == StateNeedsInput || t.state == StateStale {
		t.state = StateRunning
	}
	t.mu.Unlock()

	if wasAtBottom {
		t.scrollOffset = 0
	}

	if more {
		return PollMorePending
	}
	return PollProcessed
}

// detectBracketedPasteMode scans output for the xterm DECSET/DECRST 2004
// sequences that toggle bracketed-paste mode.
func (t *TerminalBuffer) detectBracketedPasteMode(chunk []byte) {
	s := string(chunk)
	if strings.Contains(s, "\x1b[?2004h") {
		t.bracketedPaste = true
	}
	if strings.Contains(s, "\x1b[?2004l") {
		t.bracketedPaste = false
	}
}

// UpdateLifecycle advances the Running -> NeedsInput -> Stale chain
// based on elapsed idle time. Purely observational: no action is taken.
func (t *TerminalBuffer) UpdateLifecycle(now time.Time) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateExited {
		return t.state
	}
	idle := now.Sub(t.lastOutputAt)
	switch {
	case idle > t.opts.NeedsInputTimeout+t.opts.StaleTimeout:
		t.state = StateStale
	case idle > t.opts.NeedsInputTimeout:
		if t.state == StateRunning {
			t.state = StateNeedsInput
		}
	}
	return t.state
}

// State returns the current lifecycle state.
func (t *TerminalBuffer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// ExitCode returns the process exit code, valid once State() ==
// StateExited.
func (t *TerminalBuffer) ExitCode() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exitCode
}

// WriteInput sends raw key bytes to the PTY unmodified.
func (t *TerminalBuffer) WriteInput(data []byte) (int, error) {
	if t.pty == nil {
		return 0, os.ErrClosed
	}
	return t.pty.Write(data)
}

// WritePaste sends pasted or dropped text to the PTY, wrapping it in
// bracketed-paste markers if the terminal's mode flags indicate the
// feature is enabled (spec.md §4.3, §6).
func (t *TerminalBuffer) WritePaste(data []byte) (int, error) {
	if t.pty == nil {
		return 0, os.ErrClosed
	}
	if !t.bracketedPaste {
		return t.pty.Write(data)
	}
	wrapped := append([]byte("\x1b[200~"), data...)
	wrapped = append(wrapped, []byte("\x1b[201~")...)
	return t.pty.Write(wrapped)
}

// Resize changes the PTY and VTE grid size.
func (t *TerminalBuffer) Resize(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pty != nil {
		_ = pty.Setsize(t.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	}
	t.vt.Resize(cols, rows)
}

// Stop sends SIGTERM, waits opts.PtyKillGrace, then SIGKILL if the
// process is still alive (spec.md §5 cancellation).
func (t *TerminalBuffer) Stop() {
	t.mu.Lock()
	cmd := t.cmd
	ptyFile := t.pty
	t.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		_, _ = cmd.Process.Wait()
		close(done)
	}()

	grace := t.opts.PtyKillGrace
	if grace <= 0 {
		grace = 100 * time.Millisecond
	}
	select {
	case <-done:
	case <-time.After(grace):
		_ = cmd.Process.Kill()
	}

	if ptyFile != nil {
		ptyFile.Close()
	}
}

// Size returns the terminal's grid dimensions.
func (t *TerminalBuffer) Size() (cols, rows int) { return t.vt.Size() }

// StyledLine renders grid row y (accounting for scrollback/scrollOffset)
// as the same StyledSpan surface TextBuffer exposes, so the renderer
// treats text and terminal tabs uniformly.
func (t *TerminalBuffer) StyledLine(y uint32) ([]textbuf.StyledSpan, error) {
	cols, rows := t.vt.Size()
	scrollbackCount := t.Scrollback.Count()
	lineIndex := int(y)

	var cells []vt10x.Glyph
	sourceIdx := scrollbackCount - t.scrollOffset + lineIndex
	if sourceIdx < 0 {
		return []textbuf.StyledSpan{{Text: ""}}, nil
	} else if sourceIdx < scrollbackCount {
		line := t.Scrollback.Get(sourceIdx)
		if line != nil {
			cells = line.Cells
		}
	} else {
		liveY := sourceIdx - scrollbackCount
		if liveY >= 0 && liveY < rows {
			cells = make([]vt10x.Glyph, cols)
			for x := 0; x < cols; x++ {
				cells[x] = t.vt.Cell(x, liveY)
			}
		}
	}

	var sb strings.Builder
	for _, c := range cells {
		if c.Char == 0 {
			sb.WriteRune(' ')
		} else {
			sb.WriteRune(c.Char)
		}
	}
	return []textbuf.StyledSpan{{Text: sb.String()}}, nil
}

// ScrollUp scrolls lines further into history, clamping scrollOffset to
// the number of lines the scrollback buffer holds.
func (t *TerminalBuffer) ScrollUp(lines int) {
	max := t.Scrollback.Count()
	t.scrollOffset += lines
	if t.scrollOffset > max {
		t.scrollOffset = max
	}
}

// ScrollDown scrolls toward the live view.
func (t *TerminalBuffer) ScrollDown(lines int) {
	t.scrollOffset -= lines
	if t.scrollOffset < 0 {
		t.scrollOffset = 0
	}
}

// IsAtBottom reports whether the view shows live output.
func (t *TerminalBuffer) IsAtBottom() bool { return t.scrollOffset == 0 }

func (t *TerminalBuffer) clearSelection() {
	t.selStart = textbufLoc{}
	t.selEnd = textbufLoc{}
}
