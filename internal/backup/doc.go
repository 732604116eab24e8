// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package backup implements the Backup Manager: local-only
// Git-branch or file-tree snapshots taken before any mutating sync
// operation, registered in a JSON registry under a hidden,
// git-ignored directory within the vault.
package backup
