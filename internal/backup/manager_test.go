// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/runner"
)

func newTestVault(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("hello"), 0o600))
	return dir
}

func TestCreateFileSnapshotBackupNoGitRepo(t *testing.T) {
	vault := newTestVault(t)
	mgr, err := New(vault, runner.New(), logger.NopLogger{}, "")
	require.NoError(t, err)

	id, err := mgr.Create(context.Background(), ReasonSetupSafety, "pre-link safety backup", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records := mgr.List()
	require.Len(t, records, 1)
	assert.Equal(t, KindFileSnapshot, records[0].BackupType)
	assert.Equal(t, []string{"notes.md"}, records[0].FilesBackedUp)

	missing, modified, err := mgr.VerifySnapshot(id)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Empty(t, modified)
}

func TestGitignoreUpdatedOnConstruction(t *testing.T) {
	vault := newTestVault(t)
	_, err := New(vault, runner.New(), logger.NopLogger{}, ".myeditor-state")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(vault, ".gitignore"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, ".ogresync-backups/")
	assert.Contains(t, content, "OGRESYNC_RECOVERY_INSTRUCTIONS_*.txt")
	assert.Contains(t, content, ".myeditor-state")
}

func TestCleanupKeepsAtMostNPerReasonAndPrunesOld(t *testing.T) {
	vault := newTestVault(t)
	mgr, err := New(vault, runner.New(), logger.NopLogger{}, "")
	require.NoError(t, err)

	now := time.Now().UTC()
	// Seed the registry directly to control timestamps precisely.
	for i := 0; i < 5; i++ {
		id := newBackupID(ReasonSyncOperation) + "-" + string(rune('a'+i))
		rec := Record{
			BackupType:    KindFileSnapshot,
			Reason:        ReasonSyncOperation,
			CreatedAt:     now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
			FileSnapshotPath: filepath.Join(vault, ".ogresync-backups", "snapshot-"+id),
			SizeBytes:     100,
		}
		require.NoError(t, os.MkdirAll(rec.FileSnapshotPath, 0o750))
		require.NoError(t, mgr.reg.put(id, rec))
	}
	// One very old backup that should be pruned (it is past the age limit, and as the oldest of six it is also beyond the cap of 3).
	oldID := "old-backup"
	oldRec := Record{
		BackupType:       KindFileSnapshot,
		Reason:           ReasonSyncOperation,
		CreatedAt:        now.AddDate(0, 0, -60).Format(time.RFC3339),
		FileSnapshotPath: filepath.Join(vault, ".ogresync-backups", "snapshot-"+oldID),
		SizeBytes:        50,
	}
	require.NoError(t, os.MkdirAll(oldRec.FileSnapshotPath, 0o750))
	require.NoError(t, mgr.reg.put(oldID, oldRec))

	result, err := mgr.Cleanup(context.Background(), CleanupOptions{RetentionDays: 30, KeepPerReason: 3})
	require.NoError(t, err)

	assert.Contains(t, result.DeletedIDs, oldID)
	assert.Len(t, mgr.List(), 3)
}

func TestCleanupDryRunDeletesNothing(t *testing.T) {
	vault := newTestVault(t)
	mgr, err := New(vault, runner.New(), logger.NopLogger{}, "")
	require.NoError(t, err)

	id := "old-backup"
	rec := Record{
		BackupType:       KindFileSnapshot,
		Reason:           ReasonSyncOperation,
		CreatedAt:        time.Now().AddDate(0, 0, -60).UTC().Format(time.RFC3339),
		FileSnapshotPath: filepath.Join(vault, ".ogresync-backups", "snapshot-"+id),
	}
	require.NoError(t, os.MkdirAll(rec.FileSnapshotPath, 0o750))
	require.NoError(t, mgr.reg.put(id, rec))

	result, err := mgr.Cleanup(context.Background(), CleanupOptions{DryRun: true})
	require.NoError(t, err)
	assert.Contains(t, result.DeletedIDs, id)
	assert.Len(t, mgr.List(), 1, "dry run must not actually delete")
}
