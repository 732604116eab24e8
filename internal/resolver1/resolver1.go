// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package resolver1

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ogresync/ogresync/internal/backup"
	ogerrors "github.com/ogresync/ogresync/internal/errors"
	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/runner"
	"github.com/ogresync/ogresync/internal/synccontext"
)

const netTimeout = 60 * time.Second

// Resolver is the Stage-1 Strategy Resolver.
type Resolver struct {
	runner  *runner.Runner
	backups *backup.Manager
	log     logger.CommonLogger
}

// New creates a Resolver.
func New(r *runner.Runner, backups *backup.Manager, log logger.CommonLogger) *Resolver {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Resolver{runner: r, backups: backups, log: log}
}

// Resolve presents (via sink) the three strategies and applies the chosen
// one. Every branch takes a safety backup first and records its id in the
// returned Outcome.
func (r *Resolver) Resolve(ctx context.Context, vault string, sink synccontext.Sink, summary synccontext.DivergenceSummary) synccontext.Outcome {
	strategy, ok := sink.AskStrategy(summary)
	if !ok {
		return synccontext.CancelledOutcome()
	}

	backupID, err := r.backups.Create(ctx, backup.ReasonConflictResolution,
		fmt.Sprintf("stage-1 safety backup before %s", strategy), nil)
	if err != nil {
		kind := synccontext.FailureGitOperation
		if stderrors.Is(err, ogerrors.ErrBackupFailed) {
			kind = synccontext.FailureBackupFailed
		}
		return synccontext.FailedOutcome(kind,
			"failed to create safety backup, aborting before touching the working tree: "+err.Error(), "")
	}

	switch strategy {
	case synccontext.StrategyKeepLocal:
		return r.keepLocal(ctx, vault, backupID)
	case synccontext.StrategyKeepRemote:
		return r.keepRemote(ctx, vault, backupID)
	case synccontext.StrategySmartMerge:
		return r.smartMerge(ctx, vault, backupID)
	default:
		return synccontext.CancelledOutcome()
	}
}

// keepLocal retains the local working tree verbatim while recording remote
// history as ancestors, via a history-only merge that adopts no remote
// file content.
func (r *Resolver) keepLocal(ctx context.Context, vault, backupID string) synccontext.Outcome {
	r.runner.GitWithTimeout(ctx, vault, netTimeout, "fetch", "origin")

	res := r.runner.Git(ctx, vault, "merge", "--strategy=ours", "--allow-unrelated-histories", "origin/main")
	if !res.Succeeded() {
		r.abortCleanly(ctx, vault)
		return synccontext.FailedOutcome(synccontext.FailureGitOperation,
			"keep-local merge failed: "+res.Stderr, backupID)
	}

	return synccontext.SucceededOutcome(synccontext.StrategyKeepLocal, backupID,
		"kept local content; remote history recorded as an ancestor")
}

// keepRemote adopts remote content while preserving prior local state in a
// backup branch.
func (r *Resolver) keepRemote(ctx context.Context, vault, backupID string) synccontext.Outcome {
	branchName := "ogresync-backup-keepremote-" + backupID
	branch := r.runner.Git(ctx, vault, "branch", branchName)
	if !branch.Succeeded() && !strings.Contains(branch.Stderr, "already exists") {
		return synccontext.FailedOutcome(synccontext.FailureGitOperation,
			"failed to snapshot local HEAD before adopting remote: "+branch.Stderr, backupID)
	}

	r.runner.GitWithTimeout(ctx, vault, netTimeout, "fetch", "origin")

	reset := r.runner.Git(ctx, vault, "reset", "--hard", "origin/main")
	if !reset.Succeeded() {
		return synccontext.FailedOutcome(synccontext.FailureGitOperation,
			"keep-remote reset failed: "+reset.Stderr, backupID)
	}

	return synccontext.SucceededOutcome(synccontext.StrategyKeepRemote, backupID,
		fmt.Sprintf("adopted remote content; prior local state recoverable from branch %q", branchName))
}

// smartMerge attempts a real merge; on conflict it returns the conflict set
// for Stage-2 rather than resolving it itself.
func (r *Resolver) smartMerge(ctx context.Context, vault, backupID string) synccontext.Outcome {
	r.runner.GitWithTimeout(ctx, vault, netTimeout, "fetch", "origin")

	res := r.runner.Git(ctx, vault, "merge", "--allow-unrelated-histories", "origin/main")
	if res.Succeeded() {
		return synccontext.SucceededOutcome(synccontext.StrategySmartMerge, backupID, "merged cleanly")
	}

	conflicts, err := r.conflictSet(ctx, vault)
	if err != nil {
		r.abortCleanly(ctx, vault)
		return synccontext.FailedOutcome(synccontext.FailureGitOperation,
			"merge failed and conflict set could not be read: "+err.Error(), backupID)
	}
	if len(conflicts) == 0 {
		// Merge failed for a reason other than content conflicts (e.g. a
		// pre-existing dirty working tree); restore clean state and surface it.
		r.abortCleanly(ctx, vault)
		return synccontext.FailedOutcome(synccontext.FailureGitOperation,
			"merge failed: "+res.Stderr, backupID)
	}

	return synccontext.Outcome{
		Success:   true,
		Strategy:  synccontext.StrategySmartMerge,
		BackupID:  backupID,
		Message:   fmt.Sprintf("merge produced %d conflicting file(s)", len(conflicts)),
		Conflicts: conflicts,
	}
}

// conflictSet lists both-modified/both-added files and loads their
// ours/theirs/base blobs via the index stages.
func (r *Resolver) conflictSet(ctx context.Context, vault string) ([]synccontext.ConflictFile, error) {
	res := r.runner.Git(ctx, vault, "diff", "--name-only", "--diff-filter=U")
	if !res.Succeeded() {
		return nil, fmt.Errorf("listing conflicted files: %s", res.Stderr)
	}

	var paths []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	sort.Strings(paths)

	var out []synccontext.ConflictFile
	for _, p := range paths {
		cf := synccontext.ConflictFile{Path: p}
		cf.Base = r.showStage(ctx, vault, 1, p)
		cf.Ours = r.showStage(ctx, vault, 2, p)
		cf.Theirs = r.showStage(ctx, vault, 3, p)
		cf.Binary = looksBinary(cf.Ours) || looksBinary(cf.Theirs) || looksBinary(cf.Base)
		out = append(out, cf)
	}
	return out, nil
}

func (r *Resolver) showStage(ctx context.Context, vault string, stage int, path string) []byte {
	res := r.runner.Git(ctx, vault, "show", fmt.Sprintf(":%d:%s", stage, path))
	if !res.Succeeded() {
		return nil
	}
	return []byte(res.Stdout)
}

func looksBinary(content []byte) bool {
	limit := len(content)
	if limit > 8192 {
		limit = 8192
	}
	for _, b := range content[:limit] {
		if b == 0 {
			return true
		}
	}
	return false
}

// abortCleanly attempts to restore the working tree after a failed Git
// operation mid-strategy.
func (r *Resolver) abortCleanly(ctx context.Context, vault string) {
	r.runner.Git(ctx, vault, "merge", "--abort")
	r.runner.Git(ctx, vault, "reset", "--hard", "ORIG_HEAD")
}
