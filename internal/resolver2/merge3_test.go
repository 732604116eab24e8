// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package resolver2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lines(s ...string) []string { return s }

func TestThreeWayMergeNoConflictsDisjointChanges(t *testing.T) {
	base := lines("alpha", "beta", "gamma")
	ours := lines("ALPHA", "beta", "gamma")
	theirs := lines("alpha", "beta", "GAMMA")

	result := ThreeWayMerge(base, ours, theirs)
	assert.False(t, result.HasConflicts)
	assert.Equal(t, []string{"ALPHA", "beta", "GAMMA"}, result.Lines)
}

func TestThreeWayMergeIdenticalChangeNoConflict(t *testing.T) {
	base := lines("one", "two", "three")
	ours := lines("one", "TWO", "three")
	theirs := lines("one", "TWO", "three")

	result := ThreeWayMerge(base, ours, theirs)
	assert.False(t, result.HasConflicts)
	assert.Equal(t, []string{"one", "TWO", "three"}, result.Lines)
}

func TestThreeWayMergeWhitespaceOnlyChangeYieldsOtherSide(t *testing.T) {
	base := lines("hello world")
	ours := lines("hello   world") // whitespace-only change
	theirs := lines("hello earth") // real content change

	result := ThreeWayMerge(base, ours, theirs)
	assert.False(t, result.HasConflicts)
	assert.Equal(t, []string{"hello earth"}, result.Lines)
}

func TestThreeWayMergeRealConflict(t *testing.T) {
	base := lines("shared line")
	ours := lines("ours version")
	theirs := lines("theirs version")

	result := ThreeWayMerge(base, ours, theirs)
	assert.True(t, result.HasConflicts)
	joined := result.Lines
	assert.Contains(t, joined, "<<<<<<< ours")
	assert.Contains(t, joined, "ours version")
	assert.Contains(t, joined, "=======")
	assert.Contains(t, joined, "theirs version")
	assert.Contains(t, joined, ">>>>>>> theirs")
}

func TestThreeWayMergeUnchangedFile(t *testing.T) {
	base := lines("a", "b", "c")
	result := ThreeWayMerge(base, base, base)
	assert.False(t, result.HasConflicts)
	assert.Equal(t, base, result.Lines)
}

func TestDiffLinesSimpleInsertion(t *testing.T) {
	a := lines("x", "y")
	b := lines("x", "new", "y")
	ops := diffLines(a, b)

	var sawInsert bool
	for _, o := range ops {
		if o.tag == opInsert {
			sawInsert = true
		}
	}
	assert.True(t, sawInsert)
}
