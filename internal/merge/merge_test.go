package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMergeNoOverlap(t *testing.T) {
	base := "one\ntwo\nthree\n"
	ours := "one\nTWO\nthree\n"
	theirs := "one\ntwo\nthree\nfour\n"

	r := ThreeWayMerge(base, ours, theirs)
	require.Equal(t, Clean, r.Outcome)
	assert.Equal(t, "one\nTWO\nthree\nfour\n", r.Text)
}

func TestConflictOnOverlappingReplace(t *testing.T) {
	base := "one\ntwo\nthree\n"
	ours := "one\nOURS\nthree\n"
	theirs := "one\nTHEIRS\nthree\n"

	r := ThreeWayMerge(base, ours, theirs)
	require.Equal(t, Conflict, r.Outcome)
	assert.Contains(t, r.Text, "<<<<<<< buffer")
	assert.Contains(t, r.Text, "OURS")
	assert.Contains(t, r.Text, "=======")
	assert.Contains(t, r.Text, "THEIRS")
	assert.Contains(t, r.Text, ">>>>>>> disk")
	assert.NotEmpty(t, r.ConflictLine)
}

func TestIdempotenceAllSidesEqual(t *testing.T) {
	b := "a\nb\nc\n"
	r := ThreeWayMerge(b, b, b)
	assert.Equal(t, Clean, r.Outcome)
	assert.Equal(t, b, r.Text)
}

func TestOnlyTheirsChanged(t *testing.T) {
	base := "a\nb\nc\n"
	ours := base
	theirs := "a\nb\nc\nd\n"
	r := ThreeWayMerge(base, ours, theirs)
	assert.Equal(t, Clean, r.Outcome)
	assert.Equal(t, theirs, r.Text)
}

func TestOnlyOursChanged(t *testing.T) {
	base := "a\nb\nc\n"
	ours := "a\nB\nc\n"
	theirs := base
	r := ThreeWayMerge(base, ours, theirs)
	assert.Equal(t, Clean, r.Outcome)
	assert.Equal(t, ours, r.Text)
}

func TestSelfWriteSuppression(t *testing.T) {
	s := NewSelfWriteSuppressor()
	assert.False(t, s.ShouldSuppress("/tmp/a.txt"))
	s.MarkSelfWrite("/tmp/a.txt")
	assert.True(t, s.ShouldSuppress("/tmp/a.txt"))
	assert.False(t, s.ShouldSuppress("/tmp/a.txt"))
}
