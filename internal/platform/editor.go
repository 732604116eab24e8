// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package platform

import (
	"context"
	"os/exec"
	"time"
)

// EditorHandle represents a launched editor process. WaitClosed blocks until
// the handle considers the editor closed, or ctx is cancelled.
type EditorHandle interface {
	WaitClosed(ctx context.Context) error
}

// EditorLauncher starts the configured editor against the vault path.
// The editor process is an external collaborator;
// this interface is the seam the orchestrator's LAUNCH_EDITOR /
// WAIT_EDITOR_CLOSED states consume.
type EditorLauncher interface {
	Launch(ctx context.Context, editorPath, vaultPath string) (EditorHandle, error)
}

// execLauncher is the default EditorLauncher: it starts editorPath as a
// direct child process. It correctly detects closure only when the editor
// binary itself is the long-running process (true for most CLI and many
// GUI editors on Linux). When editorPath is a launcher wrapper that forks
// a separate GUI process and exits immediately (common for `open -a ...`
// on macOS or a `.desktop` shim), this naive wait returns as soon as the
// wrapper exits, not when the user actually closes the editor window.
// Detecting that case requires OS-specific process-table matching against
// a declarative table of known editors, which this package places out of
// scope for the core; a platform integration can supply a smarter
// EditorLauncher that does so.
type execLauncher struct{}

// NewExecLauncher returns the naive direct-child EditorLauncher.
func NewExecLauncher() EditorLauncher { return execLauncher{} }

func (execLauncher) Launch(ctx context.Context, editorPath, vaultPath string) (EditorHandle, error) {
	cmd := exec.Command(editorPath, vaultPath)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execHandle{cmd: cmd}, nil
}

type execHandle struct {
	cmd *exec.Cmd
}

func (h *execHandle) WaitClosed(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- h.cmd.Wait() }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		// A non-zero exit from an editor is not itself a sync failure; the
		// orchestrator only cares that the process ended.
		_ = err
		return nil
	}
}

// PollInterval is the cadence a ProcessWatcher-style fallback would use if
// it had to poll an externally-detected process instead of waiting on a
// direct child handle. Kept here as the single place that cadence is
// defined once rather than as a magic number at each call site.
const PollInterval = 500 * time.Millisecond
