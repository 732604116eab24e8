// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ogresync/ogresync/internal/contentfilter"
	ogerrors "github.com/ogresync/ogresync/internal/errors"
	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/runner"
)

const registryDirName = ".ogresync-backups"

// Manager is the Backup Manager: the exclusive owner of the
// backup registry and snapshot directories within one vault.
type Manager struct {
	vaultPath      string
	runner         *runner.Runner
	log            logger.CommonLogger
	reg            *registry
	editorStateDir string
}

// New constructs a Manager for vaultPath, ensuring the hidden backups
// directory is excluded from version control and loading any existing
// registry.
func New(vaultPath string, r *runner.Runner, log logger.CommonLogger, editorStateDir string) (*Manager, error) {
	if log == nil {
		log = logger.NopLogger{}
	}

	if err := ensureGitignore(vaultPath, editorStateDir); err != nil {
		log.Warn("failed to update .gitignore for backups directory", "error", err)
	}

	reg := newRegistry(filepath.Join(vaultPath, registryDirName, "backup_registry.json"))
	if err := reg.load(); err != nil {
		return nil, fmt.Errorf("loading backup registry: %w", err)
	}

	return &Manager{vaultPath: vaultPath, runner: r, log: log, reg: reg, editorStateDir: editorStateDir}, nil
}

func (m *Manager) backupsDir() string {
	return filepath.Join(m.vaultPath, registryDirName)
}

func newBackupID(reason Reason) string {
	ts := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("%s-%s", ts, reason)
}

// Create takes a safety snapshot before a mutating operation, preferring a
// Git-branch backup when the repository is usable, and falling back to a
// file-tree snapshot otherwise. files, if non-empty,
// restricts a file-snapshot backup to that set; nil means "every meaningful
// file".
func (m *Manager) Create(ctx context.Context, reason Reason, description string, files []string) (string, error) {
	id := newBackupID(reason)

	if m.gitUsable(ctx) {
		rec, err := m.createBranchBackup(ctx, id, reason, description)
		if err == nil {
			if err := m.reg.put(id, rec); err != nil {
				return "", ogerrors.Wrap(fmt.Errorf("registering backup: %w", err), ogerrors.ErrBackupFailed)
			}
			m.writeRecoveryInstructions(id, rec)
			return id, nil
		}
		m.log.Warn("branch backup failed, falling back to file snapshot", "error", err)
	}

	rec, err := m.createFileSnapshot(id, reason, description, files)
	if err != nil {
		return "", ogerrors.Wrap(fmt.Errorf("creating file snapshot backup: %w", err), ogerrors.ErrBackupFailed)
	}
	if err := m.reg.put(id, rec); err != nil {
		return "", ogerrors.Wrap(fmt.Errorf("registering backup: %w", err), ogerrors.ErrBackupFailed)
	}
	m.writeRecoveryInstructions(id, rec)
	return id, nil
}

// gitUsable reports whether vaultPath is a git repository not mid-merge,
// the precondition for a branch backup.
func (m *Manager) gitUsable(ctx context.Context) bool {
	if _, err := os.Stat(filepath.Join(m.vaultPath, ".git")); err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(m.vaultPath, ".git", "MERGE_HEAD")); err == nil {
		return false // mid-merge
	}
	res := m.runner.Git(ctx, m.vaultPath, "rev-parse", "HEAD")
	return res.Succeeded()
}

func (m *Manager) createBranchBackup(ctx context.Context, id string, reason Reason, description string) (Record, error) {
	branchName := "ogresync-backup-" + id

	status := m.runner.Git(ctx, m.vaultPath, "status", "--porcelain")
	if status.Succeeded() && strings.TrimSpace(status.Stdout) != "" {
		stashMsg := "ogresync-backup-stash-" + id
		stash := m.runner.Git(ctx, m.vaultPath, "stash", "push", "-u", "-m", stashMsg)
		if !stash.Succeeded() {
			return Record{}, fmt.Errorf("git stash failed: %s", stash.Stderr)
		}
	}

	branch := m.runner.Git(ctx, m.vaultPath, "branch", branchName)
	if !branch.Succeeded() {
		return Record{}, fmt.Errorf("git branch %s failed: %s", branchName, branch.Stderr)
	}

	size := m.dirSize(filepath.Join(m.vaultPath, ".git"))

	return Record{
		BackupType:    KindGitBranch,
		Reason:        reason,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Description:   description,
		GitBranchName: branchName,
		FilesBackedUp: nil,
		SizeBytes:     size,
		CanRestore:    true,
	}, nil
}

func (m *Manager) createFileSnapshot(id string, reason Reason, description string, files []string) (Record, error) {
	snapshotDir := filepath.Join(m.backupsDir(), "snapshot-"+id)
	if err := os.MkdirAll(snapshotDir, 0o750); err != nil {
		return Record{}, err
	}

	relPaths := files
	if len(relPaths) == 0 {
		relPaths = m.walkMeaningfulFiles()
	} else {
		relPaths = contentfilter.FilterMeaningful(relPaths)
	}

	man := manifest{BackupID: id, CreatedAt: time.Now().UTC().Format(time.RFC3339)}
	var totalSize int64

	for _, rel := range relPaths {
		src := filepath.Join(m.vaultPath, rel)
		data, err := os.ReadFile(src)
		if err != nil {
			continue // file vanished between listing and copy; skip rather than fail the whole backup
		}

		dst := filepath.Join(snapshotDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return Record{}, err
		}
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return Record{}, err
		}

		sum := sha256.Sum256(data)
		man.Files = append(man.Files, manifestEntry{
			RelPath:  filepath.ToSlash(rel),
			SHA256:   hex.EncodeToString(sum[:]),
			SizeByte: int64(len(data)),
		})
		totalSize += int64(len(data))
	}

	manifestBytes, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return Record{}, err
	}
	if err := os.WriteFile(filepath.Join(snapshotDir, "backup_manifest.json"), manifestBytes, 0o600); err != nil {
		return Record{}, err
	}

	return Record{
		BackupType:       KindFileSnapshot,
		Reason:           reason,
		CreatedAt:        man.CreatedAt,
		Description:      description,
		FileSnapshotPath: snapshotDir,
		FilesBackedUp:    relPaths,
		SizeBytes:        totalSize,
		CanRestore:       true,
	}, nil
}

// walkMeaningfulFiles lists every meaningful file in the vault for a
// files=nil snapshot backup.
func (m *Manager) walkMeaningfulFiles() []string {
	var out []string
	_ = filepath.WalkDir(m.vaultPath, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(m.vaultPath, path)
		if relErr != nil {
			return nil
		}
		if contentfilter.IsMeaningfulRelPath(rel) {
			out = append(out, rel)
		}
		return nil
	})
	return out
}

func (m *Manager) dirSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, statErr := d.Info(); statErr == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

func (m *Manager) writeRecoveryInstructions(id string, rec Record) {
	path := filepath.Join(m.backupsDir(), "OGRESYNC_RECOVERY_INSTRUCTIONS_"+id+".txt")

	var body strings.Builder
	fmt.Fprintf(&body, "Ogresync backup %s\n", id)
	fmt.Fprintf(&body, "Reason: %s\n", rec.Reason)
	fmt.Fprintf(&body, "Created: %s\n\n", rec.CreatedAt)

	switch rec.BackupType {
	case KindGitBranch:
		fmt.Fprintf(&body, "This backup is a git branch named %q.\n", rec.GitBranchName)
		fmt.Fprintf(&body, "To recover, run inside the vault:\n\n  git checkout %s\n\n", rec.GitBranchName)
		body.WriteString("If you stashed uncommitted changes at backup time, recover them with:\n\n  git stash list\n  git stash pop\n")
	case KindFileSnapshot:
		fmt.Fprintf(&body, "This backup is a copy of %d file(s) under:\n\n  %s\n\n", len(rec.FilesBackedUp), rec.FileSnapshotPath)
		body.WriteString("To recover, copy the files back into the vault, overwriting current content:\n\n")
		fmt.Fprintf(&body, "  cp -r %s/* <vault>/\n", rec.FileSnapshotPath)
	}

	_ = os.WriteFile(path, []byte(body.String()), 0o600)
}

// List returns every registered backup, newest first.
func (m *Manager) List() []Record {
	return m.reg.list()
}

// CleanupOptions configures Cleanup.
type CleanupOptions struct {
	Force           bool
	DryRun          bool
	RetentionDays   int
	KeepPerReason   int
}

// CleanupResult summarizes what Cleanup did (or, in DryRun mode, would do).
type CleanupResult struct {
	DeletedIDs []string
	MBFreed    float64
}

// Cleanup deletes backups older than RetentionDays (default 30) and, per
// reason tag, keeps at most KeepPerReason newest (default 10); a backup is
// removed if either rule flags it. Branch backups are removed with a forced
// branch delete, file backups via recursive directory removal. The registry
// is rewritten atomically after each deletion.
func (m *Manager) Cleanup(ctx context.Context, opts CleanupOptions) (CleanupResult, error) {
	retention := opts.RetentionDays
	if retention <= 0 {
		retention = 30
	}
	keepPerReason := opts.KeepPerReason
	if keepPerReason <= 0 {
		keepPerReason = 10
	}

	byReason := make(map[Reason][]Record)
	for _, rec := range m.reg.list() {
		byReason[rec.Reason] = append(byReason[rec.Reason], rec)
	}

	cutoff := time.Now().AddDate(0, 0, -retention)

	var toDelete []Record
	for _, recs := range byReason {
		// recs is newest-first (registry.list() already sorts that way).
		for i, rec := range recs {
			tooOld := rec.CreatedTime().Before(cutoff)
			beyondCap := i >= keepPerReason
			if tooOld || beyondCap {
				toDelete = append(toDelete, rec)
			}
		}
	}

	result := CleanupResult{}
	var freedBytes int64

	for _, rec := range toDelete {
		if !opts.DryRun {
			if err := m.deleteOne(ctx, rec); err != nil {
				m.log.Warn("failed to delete backup", "id", rec.ID, "error", err)
				continue
			}
			if err := m.reg.remove(rec.ID); err != nil {
				m.log.Warn("failed to update registry after deleting backup", "id", rec.ID, "error", err)
			}
		}
		result.DeletedIDs = append(result.DeletedIDs, rec.ID)
		freedBytes += rec.SizeBytes
	}

	result.MBFreed = float64(freedBytes) / (1024 * 1024)
	return result, nil
}

func (m *Manager) deleteOne(ctx context.Context, rec Record) error {
	switch rec.BackupType {
	case KindGitBranch:
		res := m.runner.Git(ctx, m.vaultPath, "branch", "-D", rec.GitBranchName)
		if !res.Succeeded() && !strings.Contains(res.Stderr, "not found") {
			return fmt.Errorf("git branch -D %s: %s", rec.GitBranchName, res.Stderr)
		}
	case KindFileSnapshot:
		if rec.FileSnapshotPath != "" {
			if err := os.RemoveAll(rec.FileSnapshotPath); err != nil {
				return err
			}
		}
	}

	instructions := filepath.Join(m.backupsDir(), "OGRESYNC_RECOVERY_INSTRUCTIONS_"+rec.ID+".txt")
	_ = os.Remove(instructions)
	return nil
}

// VerifySnapshot reports, for a file-snapshot backup, which recorded files
// are missing from disk or no longer match their recorded checksum — used
// before a manual restore to warn that the snapshot itself may have been
// tampered with or partially deleted.
func (m *Manager) VerifySnapshot(id string) (missing []string, modified []string, err error) {
	for _, rec := range m.reg.list() {
		if rec.ID != id {
			continue
		}
		if rec.BackupType != KindFileSnapshot {
			return nil, nil, fmt.Errorf("backup %s is not a file snapshot", id)
		}

		manifestPath := filepath.Join(rec.FileSnapshotPath, "backup_manifest.json")
		data, readErr := os.ReadFile(manifestPath)
		if readErr != nil {
			return nil, nil, readErr
		}
		var man manifest
		if jsonErr := json.Unmarshal(data, &man); jsonErr != nil {
			return nil, nil, jsonErr
		}

		for _, entry := range man.Files {
			path := filepath.Join(rec.FileSnapshotPath, entry.RelPath)
			sum, sumErr := fileChecksum(path)
			if sumErr != nil {
				missing = append(missing, entry.RelPath)
				continue
			}
			if sum != entry.SHA256 {
				modified = append(modified, entry.RelPath)
			}
		}
		return missing, modified, nil
	}
	return nil, nil, fmt.Errorf("backup %s not found", id)
}

// fileChecksum computes the SHA-256 of the file at path.
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
