// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogresync/ogresync/internal/backup"
	"github.com/ogresync/ogresync/internal/config"
	"github.com/ogresync/ogresync/internal/inspector"
	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/netprobe"
	"github.com/ogresync/ogresync/internal/offline"
	"github.com/ogresync/ogresync/internal/platform"
	"github.com/ogresync/ogresync/internal/resolver1"
	"github.com/ogresync/ogresync/internal/resolver2"
	"github.com/ogresync/ogresync/internal/runner"
	"github.com/ogresync/ogresync/internal/synccontext"
)

// fakeSink answers every prompt deterministically so orchestrator tests can
// run unattended. It never needs Stage-1/Stage-2 prompts in the scenarios
// below because the remote has no divergent history.
type fakeSink struct {
	strategy synccontext.Strategy
}

func (f *fakeSink) Progress(phase, message string) {}
func (f *fakeSink) AskStrategy(summary synccontext.DivergenceSummary) (synccontext.Strategy, bool) {
	return f.strategy, true
}
func (f *fakeSink) AskFileChoice(file synccontext.ConflictFile, index, total int) (synccontext.FileChoice, bool) {
	return synccontext.ChoiceKeepLocal, true
}
func (f *fakeSink) AskManualMerge(file synccontext.ConflictFile) ([]byte, bool) { return nil, false }
func (f *fakeSink) Confirm(question string) bool                               { return true }
func (f *fakeSink) AskRecoveryChoice(vaultPath string) (synccontext.RecoveryChoice, bool) {
	return synccontext.RecoveryAbandon, true
}

func newBareRemote(t *testing.T, r *runner.Runner) string {
	t.Helper()
	dir := t.TempDir()
	res := r.Git(context.Background(), dir, "init", "--bare", "-b", "main")
	require.True(t, res.Succeeded(), res.Stderr)
	return dir
}

func newOrchestrator(t *testing.T) (*Orchestrator, *runner.Runner) {
	t.Helper()
	r := runner.New()
	log := logger.NopLogger{}
	insp := inspector.New(r, log)
	backups, err := backup.New(t.TempDir(), r, log, "")
	require.NoError(t, err)
	stage1 := resolver1.New(r, backups, log)
	stage2 := resolver2.New(r, log)
	offlineMgr := offline.New(netprobe.New(0), r)
	editor := &platform.FakeEditorLauncher{}
	return New(r, insp, backups, stage1, stage2, offlineMgr, editor, log), r
}

func newVaultWithRemote(t *testing.T, r *runner.Runner, remote string) string {
	t.Helper()
	vault := t.TempDir()
	require.True(t, r.Git(context.Background(), vault, "init", "-b", "main").Succeeded())
	require.True(t, r.Git(context.Background(), vault, "remote", "add", "origin", remote).Succeeded())
	return vault
}

// reachableProbeTarget starts a TCP listener and returns a "host:port"
// string the Network Probe will successfully dial, independent of the
// actual git remote URL (Run takes the two separately: the real remote
// used for git plumbing, and the probe target used only for reachability).
func reachableProbeTarget(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	return fmt.Sprintf("ssh://127.0.0.1:%d/probe", ln.Addr().(*net.TCPAddr).Port)
}

func TestRunFreshVaultNoRemoteContentPushesInitialCommit(t *testing.T) {
	o, r := newOrchestrator(t)
	remote := newBareRemote(t, r)
	vault := newVaultWithRemote(t, r, remote)

	cfg := config.NewStore(filepath.Join(t.TempDir(), "config.txt"))
	sc := synccontext.New(cfg, r, logger.NopLogger{}, &fakeSink{}, vault)

	res := o.Run(context.Background(), sc, "true", reachableProbeTarget(t))
	assert.True(t, res.Success, res.Message)

	head := r.Git(context.Background(), vault, "rev-parse", "origin/main")
	assert.True(t, head.Succeeded())
}

func TestRunOfflineVaultCommitsLocallyWithoutPush(t *testing.T) {
	o, r := newOrchestrator(t)
	vault := t.TempDir()
	require.True(t, r.Git(context.Background(), vault, "init", "-b", "main").Succeeded())
	require.NoError(t, os.WriteFile(filepath.Join(vault, "note.md"), []byte("hi"), 0o600))

	cfg := config.NewStore(filepath.Join(t.TempDir(), "config.txt"))
	sc := synccontext.New(cfg, r, logger.NopLogger{}, &fakeSink{}, vault)

	res := o.Run(context.Background(), sc, "true", "ssh://git@unreachable.invalid/vault.git")
	assert.True(t, res.Success, res.Message)
	assert.True(t, sc.Session.Offline)

	status := r.Git(context.Background(), vault, "status", "--porcelain")
	assert.Empty(t, status.Stdout)
}

func TestValidateVaultAbandonedRecoveryAborts(t *testing.T) {
	o, r := newOrchestrator(t)
	cfg := config.NewStore(filepath.Join(t.TempDir(), "config.txt"))
	sc := synccontext.New(cfg, r, logger.NopLogger{}, &fakeSink{}, filepath.Join(t.TempDir(), "does-not-exist"))

	res := o.Run(context.Background(), sc, "true", "")
	assert.True(t, res.Aborted)
}
