package textbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkPaste(t *testing.T) {
	DebugConsistencyChecks = true
	defer func() { DebugConsistencyChecks = false }()

	b := FromStr("a\nb")
	b.SetCursor(Position{Line: 1, Col: 1})

	dirty := b.InsertStr("XYZ\n123\n456")

	assert.Equal(t, "a\nbXYZ\n123\n456", b.String())
	assert.Equal(t, uint32(4), b.LineCount())
	assert.Equal(t, Position{Line: 3, Col: 3}, b.CursorPosition())
	assert.Equal(t, FromLineToEnd(1), dirty)
}

func TestSelectAll(t *testing.T) {
	b := FromStr("hello\nworld")
	dirty := b.SelectAll()

	require.True(t, b.HasSelection())
	text, ok := b.SelectedText()
	require.True(t, ok)
	assert.Equal(t, "hello\nworld", text)
	assert.Equal(t, Position{Line: 1, Col: 5}, b.CursorPosition())
	assert.Equal(t, FromLineToEnd(0), dirty)
}

func TestSelectedTextRoundTrip(t *testing.T) {
	b := FromStr("hello world")
	b.SetSelection(Position{Line: 0, Col: 0}, Position{Line: 0, Col: 5})

	text, ok := b.SelectedText()
	require.True(t, ok)
	assert.Equal(t, "hello", text)

	b.DeleteRange(Position{Line: 0, Col: 0}, Position{Line: 0, Col: 5})
	b.InsertStr(text)
	assert.Equal(t, "hello world", b.String())
	assert.Equal(t, Position{Line: 0, Col: 5}, b.CursorPosition())
}

func TestLineIndexConsistencyAfterMutations(t *testing.T) {
	DebugConsistencyChecks = true
	defer func() { DebugConsistencyChecks = false }()

	b := FromStr("one\ntwo\nthree\nfour")
	b.SetCursor(Position{Line: 2, Col: 2})
	b.InsertStr("XX\nYY")
	b.SetCursor(Position{Line: 0, Col: 0})
	b.InsertStr("Z\n")

	want := rebuildLineIndexFrom([]rune(b.String()))
	assert.Equal(t, want, b.lineStarts)
}

func TestDirtyLinesMergeProperties(t *testing.T) {
	assert.Equal(t, Single(3), Merge(None(), Single(3)))
	assert.Equal(t, Single(3), Merge(Single(3), None()))
	assert.Equal(t, Range(2, 5), Merge(Single(2), Single(5)))
	assert.Equal(t, Range(2, 5), Merge(Single(5), Single(2)))

	// Associativity/commutativity spot checks.
	a, b, c := Single(1), Range(3, 4), FromLineToEnd(2)
	assert.Equal(t, Merge(Merge(a, b), c), Merge(a, Merge(b, c)))
	assert.Equal(t, Merge(a, b), Merge(b, a))

	// FromLineToEnd(a) absorbs Single(k) into FromLineToEnd(min(a,k)).
	assert.Equal(t, FromLineToEnd(2), Merge(FromLineToEnd(2), Single(5)))
	assert.Equal(t, FromLineToEnd(1), Merge(FromLineToEnd(2), Single(1)))
}

func TestBackspaceAndDeleteChar(t *testing.T) {
	b := FromStr("abc")
	b.SetCursor(Position{Line: 0, Col: 3})
	b.Backspace()
	assert.Equal(t, "ab", b.String())

	b2 := FromStr("abc")
	b2.SetCursor(Position{Line: 0, Col: 0})
	b2.DeleteChar()
	assert.Equal(t, "bc", b2.String())
}

func TestMarkedTextOverlay(t *testing.T) {
	b := FromStr("hi")
	b.SetCursor(Position{Line: 0, Col: 2})
	b.SetMarkedText("~", 0, 1)

	spans, err := b.StyledLine(0)
	require.NoError(t, err)
	require.Len(t, spans, 2)
	assert.Equal(t, "hi", spans[0].Text)
	assert.Equal(t, "~", spans[1].Text)
	assert.True(t, spans[1].Style.Underline)

	// Not yet in the gap buffer.
	assert.Equal(t, "hi", b.String())

	b.CommitMarkedText()
	assert.Equal(t, "hi~", b.String())
}

func TestClampCursorAfterReload(t *testing.T) {
	b := FromStr("one\ntwo\nthree")
	b.SetCursor(Position{Line: 2, Col: 5})
	b.ReplaceAll("x")
	assert.Equal(t, Position{Line: 0, Col: 1}, b.CursorPosition())
}
