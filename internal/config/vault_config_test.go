// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "config.txt"))

	require.NoError(t, s.Load())
	assert.Equal(t, "", s.Get(KeyVaultPath))
	assert.False(t, s.SetupDone())
}

func TestStoreSetAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	s := NewStore(path)

	require.NoError(t, s.SetAndSave(KeyVaultPath, "/home/user/vault"))
	require.NoError(t, s.SetAndSave(KeyRemoteURL, "git@github.com:me/vault.git"))
	require.NoError(t, s.MarkSetupDone())

	reloaded := NewStore(path)
	require.NoError(t, reloaded.Load())

	assert.Equal(t, "/home/user/vault", reloaded.VaultPath())
	assert.Equal(t, "git@github.com:me/vault.git", reloaded.RemoteURL())
	assert.True(t, reloaded.SetupDone())
}

func TestStoreTolerateMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")

	content := "VAULT_PATH=/a/b\n" +
		"this line has no equals sign\n" +
		"=missing-key\n" +
		"\n" +
		"EDITOR_PATH=/usr/bin/vim\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s := NewStore(path)
	require.NoError(t, s.Load())

	assert.Equal(t, "/a/b", s.VaultPath())
	assert.Equal(t, "/usr/bin/vim", s.EditorPath())
}

func TestStorePreservesUnknownKeysOnRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(path, []byte("CUSTOM_KEY=custom-value\nVAULT_PATH=/x\n"), 0o600))

	s := NewStore(path)
	require.NoError(t, s.Load())
	require.NoError(t, s.SetAndSave(KeyEditorPath, "/usr/bin/nvim"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CUSTOM_KEY=custom-value")
	assert.Contains(t, string(data), "EDITOR_PATH=/usr/bin/nvim")
}
