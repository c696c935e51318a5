package textbuf

// gapBuffer is a classic gap buffer over Unicode scalar values. The gap
// sits at buf[gapStart:gapEnd]; text before the gap and after it are the
// buffer's actual content. Moving the insertion point slides the gap;
// inserting grows into it; both are O(distance moved / inserted), never
// O(total length) except when the gap must be resized.
type gapBuffer struct {
	buf      []rune
	gapStart int
	gapEnd   int
}

const minGap = 64

func newGapBuffer(initial []rune) *gapBuffer {
	g := &gapBuffer{
		buf: make([]rune, len(initial)+minGap),
	}
	copy(g.buf, initial)
	g.gapStart = len(initial)
	g.gapEnd = len(g.buf)
	return g
}

// Len returns the number of runes of actual content (excludes the gap).
func (g *gapBuffer) Len() int {
	return len(g.buf) - (g.gapEnd - g.gapStart)
}

// logicalToPhysical converts a logical (content-space) offset to an
// index into buf, skipping over the gap.
func (g *gapBuffer) logicalToPhysical(pos int) int {
	if pos < g.gapStart {
		return pos
	}
	return pos + (g.gapEnd - g.gapStart)
}

// moveGapTo slides the gap so that its start is at logical position pos.
func (g *gapBuffer) moveGapTo(pos int) {
	if pos == g.gapStart {
		return
	}
	if pos < g.gapStart {
		n := g.gapStart - pos
		copy(g.buf[g.gapEnd-n:g.gapEnd], g.buf[pos:g.gapStart])
		g.gapStart = pos
		g.gapEnd -= n
	} else {
		n := pos - g.gapStart
		copy(g.buf[g.gapStart:g.gapStart+n], g.buf[g.gapEnd:g.gapEnd+n])
		g.gapStart += n
		g.gapEnd += n
	}
}

// ensureGap grows the backing array so the gap can hold at least n runes.
func (g *gapBuffer) ensureGap(n int) {
	have := g.gapEnd - g.gapStart
	if have >= n {
		return
	}
	need := n - have + minGap
	grown := make([]rune, len(g.buf)+need)
	copy(grown, g.buf[:g.gapStart])
	tailLen := len(g.buf) - g.gapEnd
	copy(grown[len(grown)-tailLen:], g.buf[g.gapEnd:])
	g.gapEnd = len(grown) - tailLen
	g.buf = grown
}

// InsertAt inserts runes at logical position pos in a single bulk copy.
// Cost is O(distance the gap must move + len(runes)), never per-rune
// beyond the copy itself.
func (g *gapBuffer) InsertAt(pos int, runes []rune) {
	g.ensureGap(len(runes))
	g.moveGapTo(pos)
	copy(g.buf[g.gapStart:], runes)
	g.gapStart += len(runes)
}

// DeleteRange removes the logical half-open range [from, to).
func (g *gapBuffer) DeleteRange(from, to int) {
	if to <= from {
		return
	}
	g.moveGapTo(from)
	g.gapEnd += to - from
}

// RuneAt returns the rune at logical position pos.
func (g *gapBuffer) RuneAt(pos int) rune {
	return g.buf[g.logicalToPhysical(pos)]
}

// Slice returns a copy of the logical range [from, to) as a rune slice.
func (g *gapBuffer) Slice(from, to int) []rune {
	out := make([]rune, 0, to-from)
	if from < g.gapStart {
		end := to
		if end > g.gapStart {
			end = g.gapStart
		}
		out = append(out, g.buf[from:end]...)
	}
	if to > g.gapStart {
		start := from
		if start < g.gapStart {
			start = g.gapStart
		}
		out = append(out, g.buf[g.logicalToPhysical(start):g.logicalToPhysical(to)]...)
	}
	return out
}

// String returns the full logical content.
func (g *gapBuffer) String() string {
	return string(g.Slice(0, g.Len()))
}
