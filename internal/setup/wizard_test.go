// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSHUserFromURLDefaultsToGit(t *testing.T) {
	assert.Equal(t, "git", sshUserFromURL("https://github.com/me/vault.git"))
	assert.Equal(t, "deploy", sshUserFromURL("ssh://deploy@example.com/vault.git"))
	assert.Equal(t, "git", sshUserFromURL("git@github.com:me/vault.git"))
}

func TestDirHasOnlyGitDetectsEmptyWorkingTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o750))

	empty, err := dirHasOnlyGit(dir)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.md"), []byte("hi"), 0o600))
	empty, err = dirHasOnlyGit(dir)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestDiscoverEditorNoCandidatesOnEmptyPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, found := discoverEditor()
	assert.False(t, found)
}
