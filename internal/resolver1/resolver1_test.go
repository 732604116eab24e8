// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package resolver1

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogresync/ogresync/internal/backup"
	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/runner"
	"github.com/ogresync/ogresync/internal/synccontext"
)

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

// divergedRepos creates a bare remote plus a local clone, then pushes one
// commit to the remote and leaves a local commit unpushed so the two
// histories diverge: on the same file when conflicting is true, on a
// separate file otherwise.
func divergedRepos(t *testing.T, conflicting bool) (vault, remote string, r *runner.Runner) {
	t.Helper()
	r = runner.New()
	ctx := context.Background()

	remote = t.TempDir()
	require.True(t, r.Git(ctx, remote, "init", "--bare", "-b", "main").Succeeded())

	seed := t.TempDir()
	require.True(t, r.Git(ctx, seed, "init", "-b", "main").Succeeded())
	require.NoError(t, os.WriteFile(filepath.Join(seed, "notes.md"), []byte("base\n"), 0o644))
	require.True(t, r.Git(ctx, seed, "add", ".").Succeeded())
	require.True(t, r.Git(ctx, seed, "-c", "user.email=a@example.com", "-c", "user.name=a", "commit", "-m", "base").Succeeded())
	require.True(t, r.Git(ctx, seed, "remote", "add", "origin", remote).Succeeded())
	require.True(t, r.Git(ctx, seed, "push", "origin", "main").Succeeded())

	vault = t.TempDir()
	require.True(t, r.Git(ctx, vault, "clone", remote, ".").Succeeded())

	remoteEdit := t.TempDir()
	require.True(t, r.Git(ctx, remoteEdit, "clone", remote, ".").Succeeded())
	require.NoError(t, os.WriteFile(filepath.Join(remoteEdit, "notes.md"), []byte("remote change\n"), 0o644))
	require.True(t, r.Git(ctx, remoteEdit, "-c", "user.email=a@example.com", "-c", "user.name=a", "commit", "-am", "remote edit").Succeeded())
	require.True(t, r.Git(ctx, remoteEdit, "push", "origin", "main").Succeeded())

	content := "local change\n"
	if !conflicting {
		content = "base\nlocal addition\n"
	}
	path := filepath.Join(vault, "notes.md")
	if !conflicting {
		path = filepath.Join(vault, "other.md")
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.True(t, r.Git(ctx, vault, "add", ".").Succeeded())
	require.True(t, r.Git(ctx, vault, "-c", "user.email=a@example.com", "-c", "user.name=a", "commit", "-m", "local edit").Succeeded())

	return vault, remote, r
}

func newResolver(t *testing.T, r *runner.Runner, vault string) *Resolver {
	t.Helper()
	log := logger.NopLogger{}
	backups, err := backup.New(vault, r, log, "")
	require.NoError(t, err)
	return New(r, backups, log)
}

func TestResolveKeepLocalRetainsWorkingTree(t *testing.T) {
	vault, _, r := divergedRepos(t, true)
	resolver := newResolver(t, r, vault)
	sink := &fakeSink{strategy: synccontext.StrategyKeepLocal}

	outcome := resolver.Resolve(context.Background(), vault, sink, synccontext.DivergenceSummary{})

	require.True(t, outcome.Success)
	assert.Equal(t, synccontext.StrategyKeepLocal, outcome.Strategy)
	assert.NotEmpty(t, outcome.BackupID)

	content, err := os.ReadFile(filepath.Join(vault, "notes.md"))
	require.NoError(t, err)
	assert.Equal(t, "local change\n", string(content))
}

func TestResolveKeepRemoteAdoptsRemoteContent(t *testing.T) {
	vault, _, r := divergedRepos(t, true)
	resolver := newResolver(t, r, vault)
	sink := &fakeSink{strategy: synccontext.StrategyKeepRemote}

	outcome := resolver.Resolve(context.Background(), vault, sink, synccontext.DivergenceSummary{})

	require.True(t, outcome.Success)
	assert.Equal(t, synccontext.StrategyKeepRemote, outcome.Strategy)

	content, err := os.ReadFile(filepath.Join(vault, "notes.md"))
	require.NoError(t, err)
	assert.Equal(t, "remote change\n", string(content))
}

func TestResolveSmartMergeCleanWhenNonConflicting(t *testing.T) {
	vault, _, r := divergedRepos(t, false)
	resolver := newResolver(t, r, vault)
	sink := &fakeSink{strategy: synccontext.StrategySmartMerge}

	outcome := resolver.Resolve(context.Background(), vault, sink, synccontext.DivergenceSummary{})

	require.True(t, outcome.Success)
	assert.Equal(t, synccontext.StrategySmartMerge, outcome.Strategy)
	assert.Empty(t, outcome.Conflicts)

	for _, name := range []string{"notes.md", "other.md"} {
		_, err := os.Stat(filepath.Join(vault, name))
		assert.NoError(t, err)
	}
}

func TestResolveSmartMergeReturnsConflictSetOnOverlap(t *testing.T) {
	vault, _, r := divergedRepos(t, true)
	resolver := newResolver(t, r, vault)
	sink := &fakeSink{strategy: synccontext.StrategySmartMerge}

	outcome := resolver.Resolve(context.Background(), vault, sink, synccontext.DivergenceSummary{})

	require.True(t, outcome.Success)
	assert.Equal(t, synccontext.StrategySmartMerge, outcome.Strategy)
	require.Len(t, outcome.Conflicts, 1)
	cf := outcome.Conflicts[0]
	assert.Equal(t, "notes.md", cf.Path)
	assert.Equal(t, "local change\n", string(cf.Ours))
	assert.Equal(t, "remote change\n", string(cf.Theirs))
	assert.Equal(t, "base\n", string(cf.Base))
}

func TestResolveCancelledWhenSinkDeclines(t *testing.T) {
	vault, _, r := divergedRepos(t, true)
	resolver := newResolver(t, r, vault)
	sink := &declineSink{}

	outcome := resolver.Resolve(context.Background(), vault, sink, synccontext.DivergenceSummary{})

	assert.False(t, outcome.Success)
	assert.True(t, outcome.Cancelled)
}

type declineSink struct{ fakeSink }

func (f *declineSink) AskStrategy(summary synccontext.DivergenceSummary) (synccontext.Strategy, bool) {
	return synccontext.StrategyUnset, false
}
