// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package errors provides the sentinel error values and wrapping helpers
// shared by every Ogresync core component.
package errors

import (
	sterrors "errors"
	"fmt"
	"strings"
)

var (
	// ErrVaultMissing indicates the configured vault directory does not exist.
	ErrVaultMissing = sterrors.New("vault directory missing")
	// ErrVaultNotWritable indicates the vault directory exists but cannot be written to.
	ErrVaultNotWritable = sterrors.New("vault directory not writable")
	// ErrGitUnavailable indicates the git binary could not be located or invoked.
	ErrGitUnavailable = sterrors.New("git is not available")
	// ErrCancelled indicates the user cancelled an interactive step.
	ErrCancelled = sterrors.New("cancelled by user")
	// ErrRemoteDiverged indicates the remote advanced in a way that needs a strategy choice.
	ErrRemoteDiverged = sterrors.New("remote has diverged")
	// ErrNoRemoteConfigured indicates no remote URL has been persisted yet.
	ErrNoRemoteConfigured = sterrors.New("no remote configured")
	// ErrOffline indicates a network-dependent step was skipped because the probe reported offline.
	ErrOffline = sterrors.New("offline")
	// ErrConflictsUnresolved indicates a Stage-2 session ended with files still unstaged.
	ErrConflictsUnresolved = sterrors.New("conflicts left unresolved")
	// ErrBackupFailed indicates the Backup Manager could not take a safety snapshot.
	ErrBackupFailed = sterrors.New("backup failed")
)

// Wrap annotates err with target so that errors.Is(result, target) succeeds,
// while preserving err in the chain for errors.Unwrap / %w formatting.
func Wrap(err, target error) error {
	if err == nil {
		return target
	}
	if target == nil {
		return err
	}
	return fmt.Errorf("%w: %w", target, err)
}

// Wrapf is Wrap with an additional formatted message inserted between target and err.
func Wrapf(err, target error, format string, args ...interface{}) error {
	if err == nil {
		return fmt.Errorf("%w: %s", target, fmt.Sprintf(format, args...))
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s: %w", target, msg, err)
}

// IsCancellation reports whether err represents a user cancellation, matching
// both the sentinel and the legacy string contract used throughout spec
// messages ("cancelled by user").
func IsCancellation(err error) bool {
	if err == nil {
		return false
	}
	return sterrors.Is(err, ErrCancelled) || strings.Contains(err.Error(), ErrCancelled.Error())
}
