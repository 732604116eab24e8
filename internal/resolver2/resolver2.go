// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package resolver2

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/runner"
	"github.com/ogresync/ogresync/internal/synccontext"
)

// Resolver is the Stage-2 File Resolver, invoked with a
// non-empty conflict set produced by Stage-1's Smart Merge.
type Resolver struct {
	runner *runner.Runner
	log    logger.CommonLogger
}

// New creates a Resolver.
func New(r *runner.Runner, log logger.CommonLogger) *Resolver {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Resolver{runner: r, log: log}
}

// Resolve walks the conflict set alphabetically, asking sink for a per-file
// choice, until every file is staged or the user cancels. On full
// resolution it creates a single merge commit; on partial resolution it
// aborts the merge and restores the pre-merge snapshot.
func (r *Resolver) Resolve(ctx context.Context, vault string, sink synccontext.Sink, conflicts []synccontext.ConflictFile, backupID string) synccontext.Outcome {
	bar := progressbar.NewOptions(len(conflicts),
		progressbar.OptionSetDescription("resolving conflicts"),
		progressbar.OptionSetWriter(os.Stderr),
	)

	staged := 0
	for idx, cf := range conflicts {
		resolvedHere := false

		for !resolvedHere {
			choice, ok := sink.AskFileChoice(cf, idx+1, len(conflicts))
			if !ok || choice == synccontext.ChoiceCancelAll {
				r.abortMerge(ctx, vault)
				return synccontext.CancelledOutcome()
			}

			if cf.Binary && (choice == synccontext.ChoiceAutoMerge || choice == synccontext.ChoiceManualMerge) {
				// Binary files only offer Keep Local / Keep Remote.
				continue
			}

			switch choice {
			case synccontext.ChoiceKeepLocal:
				if err := r.writeAndStage(ctx, vault, cf.Path, cf.Ours); err != nil {
					return r.fail(ctx, vault, err, backupID)
				}
				resolvedHere = true

			case synccontext.ChoiceKeepRemote:
				if err := r.writeAndStage(ctx, vault, cf.Path, cf.Theirs); err != nil {
					return r.fail(ctx, vault, err, backupID)
				}
				resolvedHere = true

			case synccontext.ChoiceAutoMerge:
				merged := ThreeWayMerge(splitLines(cf.Base), splitLines(cf.Ours), splitLines(cf.Theirs))
				if !merged.HasConflicts {
					if err := r.writeAndStage(ctx, vault, cf.Path, []byte(strings.Join(merged.Lines, "\n"))); err != nil {
						return r.fail(ctx, vault, err, backupID)
					}
					resolvedHere = true
				}
				// Overlaps remain: fall through to asking again; the sink is
				// expected to offer Manual Merge next.

			case synccontext.ChoiceManualMerge:
				content, ok := sink.AskManualMerge(cf)
				if !ok {
					// Cancelling this file returns to the choice prompt.
					continue
				}
				if err := r.writeAndStage(ctx, vault, cf.Path, content); err != nil {
					return r.fail(ctx, vault, err, backupID)
				}
				resolvedHere = true
			}
		}

		staged++
		_ = bar.Add(1)
		sink.Progress("stage2", fmt.Sprintf("resolved %d/%d: %s", staged, len(conflicts), cf.Path))
	}

	if staged < len(conflicts) {
		r.abortMerge(ctx, vault)
		return synccontext.FailedOutcome(synccontext.FailureUnresolvedConflicts,
			"not every conflicted file was staged", backupID)
	}

	msg := fmt.Sprintf("Merge: resolved %d file(s) via smart-merge", len(conflicts))
	commit := r.runner.Git(ctx, vault, "commit", "-m", msg)
	if !commit.Succeeded() {
		r.abortMerge(ctx, vault)
		return synccontext.FailedOutcome(synccontext.FailureGitOperation,
			"failed to create merge commit: "+commit.Stderr, backupID)
	}

	return synccontext.SucceededOutcome(synccontext.StrategySmartMerge, backupID, msg)
}

func (r *Resolver) writeAndStage(ctx context.Context, vault, relPath string, content []byte) error {
	fullPath := filepath.Join(vault, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return err
	}
	if err := os.WriteFile(fullPath, content, 0o600); err != nil {
		return err
	}
	res := r.runner.Git(ctx, vault, "add", "--", relPath)
	if !res.Succeeded() {
		return fmt.Errorf("git add %s: %s", relPath, res.Stderr)
	}
	return nil
}

func (r *Resolver) fail(ctx context.Context, vault string, err error, backupID string) synccontext.Outcome {
	r.abortMerge(ctx, vault)
	return synccontext.FailedOutcome(synccontext.FailureGitOperation, err.Error(), backupID)
}

// abortMerge restores the pre-merge snapshot.
func (r *Resolver) abortMerge(ctx context.Context, vault string) {
	r.runner.Git(ctx, vault, "merge", "--abort")
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(content), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
