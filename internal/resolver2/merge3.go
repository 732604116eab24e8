// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package resolver2

import (
	"sort"
	"strings"
)

// hunk is a base-line range replaced by one side's content.
type hunk struct {
	side       string // "ours" | "theirs"
	baseStart  int
	baseEnd    int // exclusive; baseStart==baseEnd means a pure insertion
	lines      []string
}

func changedHunks(base, other []string, side string) []hunk {
	var out []hunk
	for _, o := range diffLines(base, other) {
		if o.tag == opEqual {
			continue
		}
		out = append(out, hunk{side: side, baseStart: o.i1, baseEnd: o.i2, lines: append([]string{}, other[o.j1:o.j2]...)})
	}
	return out
}

// MergeResult is the outcome of the line-level three-way merge.
type MergeResult struct {
	// Lines is the merged text. When HasConflicts is true, conflicted
	// regions are wrapped in standard conflict markers.
	Lines        []string
	HasConflicts bool
}

// ThreeWayMerge performs a diff3-style merge:
// hunks that touch disjoint base ranges both apply; hunks touching the same
// base range are accepted if identical, silently resolved if only one side
// made a real (non-whitespace-only) change, and otherwise left as a
// conflict marker for Manual Merge.
func ThreeWayMerge(base, ours, theirs []string) MergeResult {
	oursHunks := changedHunks(base, ours, "ours")
	theirsHunks := changedHunks(base, theirs, "theirs")

	all := append(append([]hunk{}, oursHunks...), theirsHunks...)
	if len(all) == 0 {
		return MergeResult{Lines: append([]string{}, base...)}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].baseStart != all[j].baseStart {
			return all[i].baseStart < all[j].baseStart
		}
		return all[i].baseEnd < all[j].baseEnd
	})

	type group struct {
		start, end int
		hunks      []hunk
	}
	var groups []group
	for _, h := range all {
		if len(groups) > 0 {
			last := &groups[len(groups)-1]
			if h.baseStart < last.end || h.baseStart == last.start {
				if h.baseEnd > last.end {
					last.end = h.baseEnd
				}
				last.hunks = append(last.hunks, h)
				continue
			}
		}
		groups = append(groups, group{start: h.baseStart, end: h.baseEnd, hunks: []hunk{h}})
	}

	var result []string
	hasConflicts := false
	cursor := 0

	for _, g := range groups {
		// Unchanged base lines before this group.
		result = append(result, base[cursor:g.start]...)
		cursor = g.end

		var oursLines, theirsLines []string
		var haveOurs, haveTheirs bool
		for _, h := range g.hunks {
			if h.side == "ours" {
				oursLines = append(oursLines, h.lines...)
				haveOurs = true
			} else {
				theirsLines = append(theirsLines, h.lines...)
				haveTheirs = true
			}
		}

		switch {
		case haveOurs && !haveTheirs:
			result = append(result, oursLines...)
		case haveTheirs && !haveOurs:
			result = append(result, theirsLines...)
		case linesEqual(oursLines, theirsLines):
			result = append(result, oursLines...)
		case isWhitespaceOnlyChange(base[g.start:g.end], oursLines):
			// ours' change was whitespace-only; take theirs' real change.
			result = append(result, theirsLines...)
		case isWhitespaceOnlyChange(base[g.start:g.end], theirsLines):
			result = append(result, oursLines...)
		default:
			hasConflicts = true
			result = append(result, "<<<<<<< ours")
			result = append(result, oursLines...)
			result = append(result, "=======")
			result = append(result, theirsLines...)
			result = append(result, ">>>>>>> theirs")
		}
	}
	result = append(result, base[cursor:]...)

	return MergeResult{Lines: result, HasConflicts: hasConflicts}
}

func linesEqual(a, b []string) bool {
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

// isWhitespaceOnlyChange reports whether replacing baseLines with newLines
// changes nothing but whitespace.
func isWhitespaceOnlyChange(baseLines, newLines []string) bool {
	return stripWhitespace(baseLines) == stripWhitespace(newLines)
}

func stripWhitespace(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		for _, r := range line {
			if !isSpace(r) {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
