// Package textbuf implements the gap-buffer-backed, line-indexed text
// store described in spec.md §3-§4.1: a single buffer of Unicode scalars
// plus a line index, owning cursor, selection, and IME composition
// state, producing DirtyLines from every mutation.
package textbuf

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Position is a buffer-space coordinate. Col counts Unicode scalar
// values from the start of the line, not bytes.
type Position struct {
	Line uint32
	Col  uint32
}

func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}

func min(a, b Position) Position {
	if a.Less(b) {
		return a
	}
	return b
}

func max(a, b Position) Position {
	if a.Less(b) {
		return b
	}
	return a
}

// Style describes the render attributes of a StyledSpan. Colors are
// left as opaque uint32 values (palette indices or packed RGB); the
// renderer owns their interpretation.
type Style struct {
	Fg        uint32
	Bg        uint32
	Inverse   bool
	Dim       bool
	Underline bool
}

// StyledSpan is one run of text sharing a Style within a rendered line.
type StyledSpan struct {
	Text  string
	Style Style
}

// markedText is the in-progress IME composition overlay (spec.md §4.6,
// GLOSSARY "Marked text"). It never enters the gap buffer.
type markedText struct {
	text     []rune
	selFrom  int
	selTo    int
	position Position
}

// DebugConsistencyChecks enables the whole-buffer line-index rebuild
// after every insert_str, matching spec.md §4.1's "debug-only
// consistency check". Off by default; tests turn it on.
var DebugConsistencyChecks = false

// TextBuffer is the gap-buffer-backed line store.
type TextBuffer struct {
	gap        *gapBuffer
	lineStarts []int // lineStarts[0] == 0, strictly increasing

	cursor    Position
	selAnchor *Position
	marked    *markedText

	baseContent *string // file content as last known on disk
}

// FromStr creates a new buffer from a UTF-8 string.
func FromStr(s string) *TextBuffer {
	runes := []rune(s)
	tb := &TextBuffer{
		gap: newGapBuffer(runes),
	}
	tb.rebuildLineIndex()
	return tb
}

func (b *TextBuffer) rebuildLineIndex() {
	content := b.gap.Slice(0, b.gap.Len())
	b.lineStarts = rebuildLineIndexFrom(content)
}

func rebuildLineIndexFrom(content []rune) []int {
	starts := make([]int, 1, 16)
	starts[0] = 0
	for i, r := range content {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// checkConsistency re-derives the line index from scratch and panics if
// it disagrees with the incrementally maintained one. Only runs when
// DebugConsistencyChecks is set, and at most once per insert_str call.
func (b *TextBuffer) checkConsistency() {
	if !DebugConsistencyChecks {
		return
	}
	want := rebuildLineIndexFrom(b.gap.Slice(0, b.gap.Len()))
	if len(want) != len(b.lineStarts) {
		panic(fmt.Sprintf("textbuf: line index length drift: got %d want %d", len(b.lineStarts), len(want)))
	}
	for i := range want {
		if want[i] != b.lineStarts[i] {
			panic(fmt.Sprintf("textbuf: line index value drift at %d: got %d want %d", i, b.lineStarts[i], want[i]))
		}
	}
}

// LineCount returns the number of lines in the buffer.
func (b *TextBuffer) LineCount() uint32 { return uint32(len(b.lineStarts)) }

// lineBounds returns the half-open rune range of line l, excluding any
// trailing newline.
func (b *TextBuffer) lineBounds(l uint32) (int, int) {
	start := b.lineStarts[l]
	var end int
	if int(l)+1 < len(b.lineStarts) {
		end = b.lineStarts[l+1] - 1
	} else {
		end = b.gap.Len()
	}
	return start, end
}

// Line returns the content of line l.
func (b *TextBuffer) Line(l uint32) (string, error) {
	if l >= b.LineCount() {
		return "", fmt.Errorf("textbuf: line %d out of bounds (have %d)", l, b.LineCount())
	}
	start, end := b.lineBounds(l)
	return string(b.gap.Slice(start, end)), nil
}

// lineLen returns the number of runes in line l (excluding newline).
func (b *TextBuffer) lineLen(l uint32) uint32 {
	start, end := b.lineBounds(l)
	return uint32(end - start)
}

// offsetOf converts a Position to an absolute rune offset, clamping to
// buffer bounds (InvalidCursorTarget, spec.md §7: clamp rather than error).
func (b *TextBuffer) offsetOf(p Position) int {
	if p.Line >= b.LineCount() {
		return b.gap.Len()
	}
	maxCol := b.lineLen(p.Line)
	col := p.Col
	if col > maxCol {
		col = maxCol
	}
	return b.lineStarts[p.Line] + int(col)
}

// positionOf converts an absolute rune offset back to a Position.
func (b *TextBuffer) positionOf(offset int) Position {
	// Binary search for the last lineStarts[i] <= offset.
	i := sort.Search(len(b.lineStarts), func(i int) bool { return b.lineStarts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return Position{Line: uint32(i), Col: uint32(offset - b.lineStarts[i])}
}

// ClampPosition clamps p to valid buffer bounds.
func (b *TextBuffer) ClampPosition(p Position) Position {
	return b.positionOf(b.offsetOf(p))
}

// CursorPosition returns the current cursor position.
func (b *TextBuffer) CursorPosition() Position { return b.cursor }

// HasSelection reports whether a selection is active.
func (b *TextBuffer) HasSelection() bool { return b.selAnchor != nil && *b.selAnchor != b.cursor }

// SetSelection sets the selection anchor and cursor.
func (b *TextBuffer) SetSelection(anchor, cursor Position) DirtyLines {
	a := b.ClampPosition(anchor)
	c := b.ClampPosition(cursor)
	b.selAnchor = &a
	b.cursor = c
	lo, hi := min(a, c), max(a, c)
	return Range(lo.Line, hi.Line)
}

// ClearSelection drops the selection without moving the cursor.
func (b *TextBuffer) ClearSelection() { b.selAnchor = nil }

// SelectAll selects the entire buffer.
func (b *TextBuffer) SelectAll() DirtyLines {
	anchor := Position{Line: 0, Col: 0}
	last := b.LineCount() - 1
	cursor := Position{Line: last, Col: b.lineLen(last)}
	b.selAnchor = &anchor
	b.cursor = cursor
	return FromLineToEnd(0)
}

// SelectedText returns the selected text, if any.
func (b *TextBuffer) SelectedText() (string, bool) {
	if !b.HasSelection() {
		return "", false
	}
	lo, hi := min(*b.selAnchor, b.cursor), max(*b.selAnchor, b.cursor)
	return string(b.gap.Slice(b.offsetOf(lo), b.offsetOf(hi))), true
}

// deleteSelection removes the current selection, if any, moving the
// cursor to its start. Returns whether a selection was deleted and the
// resulting DirtyLines.
func (b *TextBuffer) deleteSelection() (bool, DirtyLines) {
	if !b.HasSelection() {
		return false, None()
	}
	lo, hi := min(*b.selAnchor, b.cursor), max(*b.selAnchor, b.cursor)
	b.selAnchor = nil
	return true, b.DeleteRange(lo, hi)
}

// InsertStr inserts s at the cursor (replacing the selection first, if
// any). Runs in O(n+m): one bulk gap-buffer fill, one pass over s to
// find newline offsets, one pass to shift existing line starts, and one
// splice of the new line starts — never per-character.
func (b *TextBuffer) InsertStr(s string) DirtyLines {
	var dirty DirtyLines
	if ok, d := b.deleteSelection(); ok {
		dirty = d
	}

	runes := []rune(s)
	n := len(runes)
	pos := b.offsetOf(b.cursor)
	startLine := b.cursor.Line

	b.gap.InsertAt(pos, runes)

	// One pass over the inserted text to find newline offsets.
	var newlineOffsets []int
	for i, r := range runes {
		if r == '\n' {
			newlineOffsets = append(newlineOffsets, i)
		}
	}

	// Shift existing line starts after the insertion point in one pass.
	for i := int(startLine) + 1; i < len(b.lineStarts); i++ {
		b.lineStarts[i] += n
	}

	// Splice the new line starts into place.
	if len(newlineOffsets) > 0 {
		newStarts := make([]int, len(newlineOffsets))
		for i, off := range newlineOffsets {
			newStarts[i] = pos + off + 1
		}
		tail := make([]int, len(b.lineStarts)-int(startLine)-1)
		copy(tail, b.lineStarts[startLine+1:])
		spliced := make([]int, 0, len(b.lineStarts)+len(newStarts))
		spliced = append(spliced, b.lineStarts[:startLine+1]...)
		spliced = append(spliced, newStarts...)
		spliced = append(spliced, tail...)
		b.lineStarts = spliced
	}

	b.cursor = b.positionOf(pos + n)

	var ins DirtyLines
	if len(newlineOffsets) > 0 {
		ins = FromLineToEnd(startLine)
	} else {
		ins = Single(startLine)
	}
	b.checkConsistency()
	return Merge(dirty, ins)
}

// DeleteRange removes the buffer-space range [a, b) (endpoints are
// sorted if given reversed) and moves the cursor to its start.
func (b *TextBuffer) DeleteRange(a, c Position) DirtyLines {
	lo, hi := min(a, c), max(a, c)
	if lo == hi {
		return None()
	}
	loOff, hiOff := b.offsetOf(lo), b.offsetOf(hi)
	n := hiOff - loOff

	b.gap.DeleteRange(loOff, hiOff)

	// Remove line starts that fell inside the deleted range, and shift
	// everything after it left by n, in one pass.
	kept := b.lineStarts[:lo.Line+1]
	for i := int(lo.Line) + 1; i < len(b.lineStarts); i++ {
		if b.lineStarts[i] <= hiOff {
			continue
		}
		kept = append(kept, b.lineStarts[i]-n)
	}
	b.lineStarts = kept

	b.cursor = lo
	b.selAnchor = nil

	if lo.Line == hi.Line {
		return Single(lo.Line)
	}
	return FromLineToEnd(lo.Line)
}

// Backspace deletes the selection, or else one character before the
// cursor.
func (b *TextBuffer) Backspace() DirtyLines {
	if ok, d := b.deleteSelection(); ok {
		return d
	}
	if b.cursor.Line == 0 && b.cursor.Col == 0 {
		return None()
	}
	end := b.cursor
	start := b.positionOf(b.offsetOf(end) - 1)
	return b.DeleteRange(start, end)
}

// DeleteChar deletes the selection, or else the character at/after the
// cursor (forward delete).
func (b *TextBuffer) DeleteChar() DirtyLines {
	if ok, d := b.deleteSelection(); ok {
		return d
	}
	totalLen := b.gap.Len()
	start := b.cursor
	startOff := b.offsetOf(start)
	if startOff >= totalLen {
		return None()
	}
	end := b.positionOf(startOff + 1)
	return b.DeleteRange(start, end)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// WordDeleteLeft deletes from the cursor back to the previous word
// boundary (skipping trailing whitespace, then the word itself).
func (b *TextBuffer) WordDeleteLeft() DirtyLines {
	if ok, d := b.deleteSelection(); ok {
		return d
	}
	end := b.cursor
	offset := b.offsetOf(end)
	pos := offset
	for pos > 0 && !isWordRune(b.gap.RuneAt(pos-1)) && b.gap.RuneAt(pos-1) != '\n' {
		pos--
	}
	for pos > 0 && isWordRune(b.gap.RuneAt(pos-1)) {
		pos--
	}
	if pos == offset && pos > 0 {
		pos--
	}
	return b.DeleteRange(b.positionOf(pos), end)
}

// WordDeleteRight deletes from the cursor forward to the next word
// boundary.
func (b *TextBuffer) WordDeleteRight() DirtyLines {
	if ok, d := b.deleteSelection(); ok {
		return d
	}
	start := b.cursor
	offset := b.offsetOf(start)
	total := b.gap.Len()
	pos := offset
	for pos < total && !isWordRune(b.gap.RuneAt(pos)) && b.gap.RuneAt(pos) != '\n' {
		pos++
	}
	for pos < total && isWordRune(b.gap.RuneAt(pos)) {
		pos++
	}
	if pos == offset && pos < total {
		pos++
	}
	return b.DeleteRange(start, b.positionOf(pos))
}

// SetMarkedText sets the temporary IME composition overlay at the
// cursor. It never touches the gap buffer.
func (b *TextBuffer) SetMarkedText(text string, selFrom, selTo int) DirtyLines {
	b.marked = &markedText{text: []rune(text), selFrom: selFrom, selTo: selTo, position: b.cursor}
	return Single(b.cursor.Line)
}

// CommitMarkedText inserts the composition into the buffer and clears
// the overlay.
func (b *TextBuffer) CommitMarkedText() DirtyLines {
	if b.marked == nil {
		return None()
	}
	b.cursor = b.marked.position
	text := string(b.marked.text)
	b.marked = nil
	return b.InsertStr(text)
}

// CancelMarkedText discards the composition without inserting it.
func (b *TextBuffer) CancelMarkedText() DirtyLines {
	if b.marked == nil {
		return None()
	}
	line := b.marked.position.Line
	b.marked = nil
	return Single(line)
}

// StyledLine returns the rendered spans for line l, including the
// marked-text underline overlay if the composition sits on this line.
func (b *TextBuffer) StyledLine(l uint32) ([]StyledSpan, error) {
	text, err := b.Line(l)
	if err != nil {
		return nil, err
	}
	if b.marked == nil || b.marked.position.Line != l {
		return []StyledSpan{{Text: text}}, nil
	}

	runes := []rune(text)
	col := int(b.marked.position.Col)
	if col > len(runes) {
		col = len(runes)
	}
	before := string(runes[:col])
	after := string(runes[col:])
	spans := []StyledSpan{}
	if before != "" {
		spans = append(spans, StyledSpan{Text: before})
	}
	spans = append(spans, StyledSpan{Text: string(b.marked.text), Style: Style{Underline: true}})
	if after != "" {
		spans = append(spans, StyledSpan{Text: after})
	}
	return spans, nil
}

// String returns the full buffer content.
func (b *TextBuffer) String() string { return b.gap.String() }

// SetBaseContent records content as the last known on-disk snapshot
// (the three-way merge ancestor).
func (b *TextBuffer) SetBaseContent(content string) { b.baseContent = &content }

// BaseContent returns the last known on-disk snapshot, if any.
func (b *TextBuffer) BaseContent() (string, bool) {
	if b.baseContent == nil {
		return "", false
	}
	return *b.baseContent, true
}

// ReplaceAll replaces the entire buffer content, clamping the cursor to
// the new bounds (used after an external reload or a merge). Returns
// FullViewport-worthy dirtiness via FromLineToEnd(0).
func (b *TextBuffer) ReplaceAll(content string) DirtyLines {
	runes := []rune(content)
	b.gap = newGapBuffer(runes)
	b.rebuildLineIndex()
	b.cursor = b.ClampPosition(b.cursor)
	b.selAnchor = nil
	b.marked = nil
	return FromLineToEnd(0)
}

// SetCursor moves the cursor, clamping to buffer bounds.
func (b *TextBuffer) SetCursor(p Position) { b.cursor = b.ClampPosition(p) }

// TrimmedLineCount is a small helper used by callers that want to know
// whether the final line is a synthetic trailing-newline artifact.
func (b *TextBuffer) TrimmedLineCount() uint32 {
	if b.LineCount() > 0 && b.lineLen(b.LineCount()-1) == 0 && strings.HasSuffix(b.String(), "\n") {
		return b.LineCount() - 1
	}
	return b.LineCount()
}
