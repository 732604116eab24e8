// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package backup

import "time"

// Kind distinguishes the two snapshot mechanisms the manager supports.
type Kind string

const (
	// KindGitBranch is a backup implemented as a local branch pointing at
	// the pre-operation commit, with any uncommitted changes stashed.
	KindGitBranch Kind = "git-branch"
	// KindFileSnapshot is a backup implemented as a copy of files into a
	// timestamped subdirectory, used when no usable repository exists yet
	// or a merge is already in progress.
	KindFileSnapshot Kind = "file-snapshot"
)

// Reason tags why a backup was taken.
type Reason string

const (
	ReasonConflictResolution Reason = "conflict-resolution"
	ReasonSetupSafety        Reason = "setup-safety"
	ReasonSyncOperation      Reason = "sync-operation"
	ReasonUserRequested      Reason = "user-requested"
)

// Record is one entry of the backup registry.
type Record struct {
	ID               string   `json:"-"` // registry map key; duplicated here for convenience when listing
	BackupType       Kind     `json:"backup_type"`
	Reason           Reason   `json:"reason"`
	CreatedAt        string   `json:"created_at"` // ISO-8601
	Description      string   `json:"description"`
	GitBranchName    string   `json:"git_branch_name,omitempty"`
	FileSnapshotPath string   `json:"file_snapshot_path,omitempty"`
	FilesBackedUp    []string `json:"files_backed_up"`
	SizeBytes        int64    `json:"size_bytes"`
	CanRestore       bool     `json:"can_restore"`
}

// CreatedTime parses CreatedAt, returning the zero time if it is malformed.
func (r Record) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// manifestEntry records one file's path and content checksum inside a file
// snapshot's backup_manifest.json — the "backup manifest content hashing"
// feature recovered from original_source/, used by VerifySnapshot to detect
// snapshot copies that went missing or changed after the backup was taken.
type manifestEntry struct {
	RelPath  string `json:"rel_path"`
	SHA256   string `json:"sha256"`
	SizeByte int64  `json:"size_bytes"`
}

type manifest struct {
	BackupID  string           `json:"backup_id"`
	CreatedAt string           `json:"created_at"`
	Files     []manifestEntry  `json:"files"`
}
