// Package merge implements the three-way line merge spec.md §4.9 uses
// to reconcile a dirty buffer against an externally changed file,
// using sergi/go-diff's line-mode diffing idiom (DiffLinesToChars +
// DiffMain + DiffCharsToLines).
package merge

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Outcome discriminates a merge's result.
type Outcome int

const (
	Clean Outcome = iota
	Conflict
)

// Result is the outcome of three_way_merge plus the merged text and,
// for Conflict, the line numbers (in the merged text) that are part of
// a conflict block — the supplemented gutter-annotation feature
// modeled on a unified-diff-lines map.
type Result struct {
	Outcome      Outcome
	Text         string
	ConflictLine map[int]bool
}

type action int

const (
	actionKeep action = iota
	actionDelete
	actionReplace
	actionReplaceContinuation
)

type lineOp struct {
	action  action
	replace []string
}

// ThreeWayMerge merges buffer and disk against their common base at
// line granularity.
func ThreeWayMerge(base, ours, theirs string) Result {
	if ours == theirs {
		return Result{Outcome: Clean, Text: ours}
	}
	if base == ours {
		return Result{Outcome: Clean, Text: theirs}
	}
	if base == theirs {
		return Result{Outcome: Clean, Text: ours}
	}

	baseLines := splitLines(base)

	oursOps, oursIns := lineOps(base, ours)
	theirsOps, theirsIns := lineOps(base, theirs)

	var out []string
	conflictLines := map[int]bool{}
	conflicted := false

	emit := func(lines []string) {
		out = append(out, lines...)
	}
	emitConflict := func(ourSide, theirSide []string) {
		conflicted = true
		start := len(out)
		out = append(out, "<<<<<<< buffer")
		out = append(out, ourSide...)
		out = append(out, "=======")
		out = append(out, theirSide...)
		out = append(out, ">>>>>>> disk")
		for i := start; i < len(out); i++ {
			conflictLines[i] = true
		}
	}

	for i := 0; i <= len(baseLines); i++ {
		emitInsertions(oursIns[i], theirsIns[i], emit, emitConflict)

		if i == len(baseLines) {
			break
		}

		oOp := oursOps[i]
		tOp := theirsOps[i]

		if oOp.action == actionReplaceContinuation || tOp.action == actionReplaceContinuation {
			continue // already emitted as part of the anchor index's Replace block
		}

		switch {
		case oOp.action == actionKeep && tOp.action == actionKeep:
			emit([]string{baseLines[i]})
		case oOp.action == actionDelete && tOp.action == actionKeep:
			// dropped
		case oOp.action == actionKeep && tOp.action == actionDelete:
			// dropped
		case oOp.action == actionDelete && tOp.action == actionDelete:
			// agreed delete
		case oOp.action == actionKeep && tOp.action == actionReplace:
			emit(tOp.replace)
		case oOp.action == actionReplace && tOp.action == actionKeep:
			emit(oOp.replace)
		case oOp.action == actionReplace && tOp.action == actionReplace:
			if sameLines(oOp.replace, tOp.replace) {
				emit(oOp.replace)
			} else {
				emitConflict(oOp.replace, tOp.replace)
			}
		case oOp.action == actionReplace && tOp.action == actionDelete:
			emitConflict(oOp.replace, nil)
		case oOp.action == actionDelete && tOp.action == actionReplace:
			emitConflict(nil, tOp.replace)
		default:
			emit([]string{baseLines[i]})
		}
	}

	text := strings.Join(out, "\n")
	if strings.HasSuffix(ours, "\n") || strings.HasSuffix(theirs, "\n") {
		text += "\n"
	}

	if conflicted {
		return Result{Outcome: Conflict, Text: text, ConflictLine: conflictLines}
	}
	return Result{Outcome: Clean, Text: text}
}

// emitInsertions unions ours/theirs insertions before a base index in
// order, theirs below ours, deduplicating identical insertion blocks
// and emitting a conflict block for contradictory ones.
func emitInsertions(ours, theirs []string, emit func([]string), emitConflict func(a, b []string)) {
	switch {
	case len(ours) == 0 && len(theirs) == 0:
		return
	case len(ours) == 0:
		emit(theirs)
	case len(theirs) == 0:
		emit(ours)
	case sameLines(ours, theirs):
		emit(ours)
	default:
		emitConflict(ours, theirs)
	}
}

// lineOps diffs base against other at line granularity and returns a
// per-base-index action plus a per-base-index insertion list (index
// len(baseLines) means "append at end").
func lineOps(base, other string) (map[int]lineOp, map[int][]string) {
	dmp := diffmatchpatch.New()
	c1, c2, lineArray := dmp.DiffLinesToChars(base, other)
	diffs := dmp.DiffMainRunes([]rune(c1), []rune(c2), false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	ops := map[int]lineOp{}
	insertions := map[int][]string{}

	baseIdx := 0
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			lines := splitDiffLines(d.Text)
			for range lines {
				ops[baseIdx] = lineOp{action: actionKeep}
				baseIdx++
			}
		case diffmatchpatch.DiffDelete:
			delLines := splitDiffLines(d.Text)
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				insLines := splitDiffLines(diffs[i+1].Text)
				ops[baseIdx] = lineOp{action: actionReplace, replace: insLines}
				for k := 1; k < len(delLines); k++ {
					ops[baseIdx+k] = lineOp{action: actionReplaceContinuation}
				}
				baseIdx += len(delLines)
				i++
			} else {
				for range delLines {
					ops[baseIdx] = lineOp{action: actionDelete}
					baseIdx++
				}
			}
		case diffmatchpatch.DiffInsert:
			insLines := splitDiffLines(d.Text)
			insertions[baseIdx] = append(insertions[baseIdx], insLines...)
		}
	}
	return ops, insertions
}

// splitDiffLines splits go-diff's line-chunk text (each line including
// its trailing \n, per DiffLinesToChars's contract) back into bare
// lines.
func splitDiffLines(s string) []string {
	if s == "" {
		return nil
	}
	trimmed := strings.TrimSuffix(s, "\n")
	return strings.Split(trimmed, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func sameLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
