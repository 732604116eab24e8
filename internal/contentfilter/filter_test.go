// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package contentfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMeaningfulRelPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"notes/today.md", true},
		{"README.md", false},
		{"readme.md", false},
		{".gitignore", false},
		{".git/HEAD", false},
		{".ogresync-backups/registry.json", false},
		{"OGRESYNC_RECOVERY_INSTRUCTIONS_abc.txt", false},
		{"build/output.exe", false},
		{"notes/draft.swp", false},
		{".obsidian/workspace.json", false},
		{"sub/dir/journal.md", true},
	}

	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			assert.Equal(t, c.want, IsMeaningfulRelPath(c.path))
		})
	}
}

func TestFilterMeaningful(t *testing.T) {
	in := []string{"README.md", "notes.md", ".git/config", "journal/jan.md"}
	got := FilterMeaningful(in)
	assert.Equal(t, []string{"notes.md", "journal/jan.md"}, got)
}
