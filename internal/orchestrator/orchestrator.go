// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package orchestrator

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ogresync/ogresync/internal/backup"
	ogerrors "github.com/ogresync/ogresync/internal/errors"
	"github.com/ogresync/ogresync/internal/inspector"
	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/offline"
	"github.com/ogresync/ogresync/internal/platform"
	"github.com/ogresync/ogresync/internal/resolver1"
	"github.com/ogresync/ogresync/internal/resolver2"
	"github.com/ogresync/ogresync/internal/runner"
	"github.com/ogresync/ogresync/internal/synccontext"
)

const netTimeout = 60 * time.Second

// Orchestrator wires together every other component into the state
// machine for one full sync cycle. It is constructed once per process and
// reused across invocations; it holds no per-run state of its own (that
// lives in synccontext.Session).
type Orchestrator struct {
	runner     *runner.Runner
	inspector  *inspector.Inspector
	backups    *backup.Manager
	resolver1  *resolver1.Resolver
	resolver2  *resolver2.Resolver
	offlineMgr *offline.Manager
	editor     platform.EditorLauncher
	log        logger.CommonLogger
}

// New creates an Orchestrator from its already-constructed dependencies.
func New(
	r *runner.Runner,
	insp *inspector.Inspector,
	backups *backup.Manager,
	stage1 *resolver1.Resolver,
	stage2 *resolver2.Resolver,
	offlineMgr *offline.Manager,
	editor platform.EditorLauncher,
	log logger.CommonLogger,
) *Orchestrator {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Orchestrator{
		runner: r, inspector: insp, backups: backups,
		resolver1: stage1, resolver2: stage2, offlineMgr: offlineMgr,
		editor: editor, log: log,
	}
}

// Run drives one full sync cycle against sc.Vault. Every state transition
// corresponds to one unexported method below, called in sequence; an early
// return at any point aborts the cycle or ends it early as a success.
func (o *Orchestrator) Run(ctx context.Context, sc *synccontext.Context, editorPath, remoteURL string) Result {
	sc.Session = &synccontext.Session{}

	if res, ok := o.validateVault(ctx, sc); !ok {
		return res
	}

	if res, ok := o.ensureBaseline(ctx, sc); !ok {
		return res
	}

	sc.Session.Offline = o.offlineMgr.IsOffline(ctx, remoteURL)

	if !sc.Session.Offline {
		if res, ok := o.onlinePresync(ctx, sc, remoteURL); !ok {
			return res
		}
	} else {
		sc.Sink.Progress("offline", "no network reachable; editing local content only")
	}

	if res, ok := o.launchEditorAndWait(ctx, sc, editorPath); !ok {
		return res
	}

	o.commitLocal(ctx, sc)

	return o.postsync(ctx, sc, remoteURL)
}

// validateVault implements VALIDATE_VAULT and, on failure, RECOVER_VAULT.
// It loops: a RecoverySelectDifferentDir choice re-reads the vault path from
// sc.Config (which the sink has already updated) and re-validates.
func (o *Orchestrator) validateVault(ctx context.Context, sc *synccontext.Context) (Result, bool) {
	for {
		info, err := os.Stat(sc.Vault)
		if err == nil && info.IsDir() && isWritable(sc.Vault) {
			return Result{}, true
		}

		choice, ok := sc.Sink.AskRecoveryChoice(sc.Vault)
		if !ok || choice == synccontext.RecoveryAbandon {
			return aborted("vault unavailable; recovery abandoned by user"), false
		}

		switch choice {
		case synccontext.RecoveryRerunSetup:
			return Result{RerunSetup: true, Message: "vault unavailable; rerunning setup"}, false

		case synccontext.RecoverySelectDifferentDir:
			newVault := sc.Config.VaultPath()
			if newVault == "" || newVault == sc.Vault {
				return aborted("no alternate vault directory was selected"), false
			}
			sc.Vault = newVault
			continue

		case synccontext.RecoveryRecreateAndRelink:
			if res, ok := o.recreateAndRelink(ctx, sc); !ok {
				return res, false
			}
			return Result{}, true

		default:
			return aborted("vault unavailable"), false
		}
	}
}

func (o *Orchestrator) recreateAndRelink(ctx context.Context, sc *synccontext.Context) (Result, bool) {
	if err := os.MkdirAll(sc.Vault, 0o750); err != nil {
		return aborted("failed to recreate vault directory: " + err.Error()), false
	}

	o.runner.Git(ctx, sc.Vault, "init")
	o.runner.Git(ctx, sc.Vault, "branch", "-M", "main")

	remoteURL := sc.Config.RemoteURL()
	if remoteURL != "" {
		o.runner.Git(ctx, sc.Vault, "remote", "remove", "origin")
		o.runner.Git(ctx, sc.Vault, "remote", "add", "origin", remoteURL)

		pull := o.runner.GitWithTimeout(ctx, sc.Vault, netTimeout, "pull", "--allow-unrelated-histories", "origin", "main")
		if !pull.Succeeded() {
			o.runner.Git(ctx, sc.Vault, "merge", "--abort")
			outcome := o.resolver1.Resolve(ctx, sc.Vault, sc.Sink, synccontext.DivergenceSummary{Reason: "recovery"})
			if !outcome.Success {
				if outcome.Cancelled {
					return aborted(outcome.Message), false
				}
				return abortedWithBackup(outcome.Message, outcome.BackupID), false
			}
			if len(outcome.Conflicts) > 0 {
				res2 := o.resolver2.Resolve(ctx, sc.Vault, sc.Sink, outcome.Conflicts, outcome.BackupID)
				if !res2.Success {
					return abortedWithBackup(res2.Message, res2.BackupID), false
				}
			}
		}
	}

	return Result{}, true
}

// ensureBaseline implements ENSURE_BASELINE.
func (o *Orchestrator) ensureBaseline(ctx context.Context, sc *synccontext.Context) (Result, bool) {
	inside := o.runner.Git(ctx, sc.Vault, "rev-parse", "--is-inside-work-tree")
	if !inside.Succeeded() {
		if res := o.runner.Git(ctx, sc.Vault, "init"); !res.Succeeded() {
			return aborted("failed to initialize repository: " + res.Stderr), false
		}
	}
	o.runner.Git(ctx, sc.Vault, "branch", "-M", "main")

	empty, err := dirHasNoEntries(sc.Vault)
	if err != nil {
		return aborted("failed to inspect vault contents: " + err.Error()), false
	}
	if empty {
		placeholder := filepath.Join(sc.Vault, "README.md")
		if _, statErr := os.Stat(placeholder); os.IsNotExist(statErr) {
			_ = os.WriteFile(placeholder, []byte("# Notes\n\nThis vault is synced with Ogresync.\n"), 0o644)
		}
	}

	head := o.runner.Git(ctx, sc.Vault, "rev-parse", "--verify", "HEAD")
	if !head.Succeeded() {
		o.runner.Git(ctx, sc.Vault, "add", "-A")
		commit := o.runner.Git(ctx, sc.Vault, "commit", "-m", "Initial commit")
		if !commit.Succeeded() && !strings.Contains(commit.Stderr, "nothing to commit") {
			return aborted("failed to create initial commit: " + commit.Stderr), false
		}
	}

	return Result{}, true
}

// onlinePresync implements ONLINE_PRESYNC, including the
// initial-sync-replacement special case and the rule that any stash taken
// here is discarded before the editor launches.
func (o *Orchestrator) onlinePresync(ctx context.Context, sc *synccontext.Context, remoteURL string) (Result, bool) {
	head, err := o.inspector.RemoteHead(ctx, sc.Vault)
	if err != nil {
		return aborted("failed to read remote state: " + err.Error()), false
	}
	sc.Session.RemoteHeadBeforeSession = head

	if head == "" {
		push := o.runner.GitWithTimeout(ctx, sc.Vault, netTimeout, "push", "-u", "origin", "main")
		if !push.Succeeded() {
			sc.Sink.Progress("presync", "initial push failed, continuing offline: "+push.Stderr)
			sc.Session.Offline = true
			return Result{}, true
		}
		// RemoteHeadBeforeSession now reflects what we just pushed, so
		// POSTSYNC only invokes Stage-1 for advancement that happens
		// during the editor session, not for this bootstrap push.
		if newHead, err := o.inspector.RemoteHead(ctx, sc.Vault); err == nil {
			sc.Session.RemoteHeadBeforeSession = newHead
		}
		return Result{}, true
	}

	state, err := o.inspector.Classify(ctx, sc.Vault)
	if err != nil {
		return aborted("failed to classify repository state: " + err.Error()), false
	}

	if !state.LocalHasContent && state.RemoteHasContent {
		backupID, berr := o.backups.Create(ctx, backup.ReasonSyncOperation, "initial sync replacement safety backup", nil)
		if berr != nil {
			if stderrors.Is(berr, ogerrors.ErrBackupFailed) {
				return aborted("refusing to adopt remote content without a safety backup: " + berr.Error()), false
			}
			return aborted("failed to take safety backup before adopting remote content: " + berr.Error()), false
		}
		reset := o.runner.Git(ctx, sc.Vault, "reset", "--hard", "origin/main")
		if !reset.Succeeded() {
			return abortedWithBackup("initial sync replacement failed: "+reset.Stderr, backupID), false
		}
		return Result{}, true
	}

	status := o.runner.Git(ctx, sc.Vault, "status", "--porcelain")
	stashed := strings.TrimSpace(status.Stdout) != ""
	if stashed {
		o.runner.Git(ctx, sc.Vault, "stash", "push", "-u", "-m", "ogresync-presync")
	}

	pull := o.runner.GitWithTimeout(ctx, sc.Vault, netTimeout, "pull", "--rebase", "origin", "main")
	if !pull.Succeeded() {
		o.runner.Git(ctx, sc.Vault, "rebase", "--abort")
		o.runner.Git(ctx, sc.Vault, "reset", "--hard", "ORIG_HEAD")

		summary, serr := o.divergenceSummary(ctx, sc.Vault, "first-sync")
		if serr != nil {
			return aborted("failed to summarize divergence: " + serr.Error()), false
		}
		outcome := o.resolver1.Resolve(ctx, sc.Vault, sc.Sink, summary)
		if !outcome.Success {
			if stashed {
				o.runner.Git(ctx, sc.Vault, "stash", "drop")
			}
			if outcome.Cancelled {
				return aborted(outcome.Message), false
			}
			return abortedWithBackup(outcome.Message, outcome.BackupID), false
		}
		if len(outcome.Conflicts) > 0 {
			res2 := o.resolver2.Resolve(ctx, sc.Vault, sc.Sink, outcome.Conflicts, outcome.BackupID)
			if !res2.Success {
				if stashed {
					o.runner.Git(ctx, sc.Vault, "stash", "drop")
				}
				return abortedWithBackup(res2.Message, res2.BackupID), false
			}
		}
	}

	if stashed {
		// Discarded unconditionally: the resolution path above (or the
		// clean rebase) already captured the pre-session state in a
		// backup or in the rebased history.
		o.runner.Git(ctx, sc.Vault, "stash", "drop")
	}

	return Result{}, true
}

func (o *Orchestrator) divergenceSummary(ctx context.Context, vault, reason string) (synccontext.DivergenceSummary, error) {
	state, err := o.inspector.Classify(ctx, vault)
	if err != nil {
		return synccontext.DivergenceSummary{}, err
	}
	return synccontext.DivergenceSummary{
		LocalFileCount:  len(state.LocalFiles),
		RemoteFileCount: len(state.RemoteFiles),
		LocalOnlyFiles:  diffStrings(state.LocalFiles, state.RemoteFiles),
		RemoteOnlyFiles: diffStrings(state.RemoteFiles, state.LocalFiles),
		Reason:          reason,
	}, nil
}

// launchEditorAndWait implements LAUNCH_EDITOR and WAIT_EDITOR_CLOSED.
func (o *Orchestrator) launchEditorAndWait(ctx context.Context, sc *synccontext.Context, editorPath string) (Result, bool) {
	sc.Sink.Progress("editor", "launching editor")
	handle, err := o.editor.Launch(ctx, editorPath, sc.Vault)
	if err != nil {
		return aborted("failed to launch editor: " + err.Error()), false
	}
	if err := handle.WaitClosed(ctx); err != nil {
		return aborted("interrupted while waiting for editor to close: " + err.Error()), false
	}
	return Result{}, true
}

// commitLocal implements COMMIT_LOCAL.
func (o *Orchestrator) commitLocal(ctx context.Context, sc *synccontext.Context) {
	status := o.runner.Git(ctx, sc.Vault, "status", "--porcelain")
	if strings.TrimSpace(status.Stdout) == "" {
		return
	}

	changed := porcelainFileCount(status.Stdout)
	o.runner.Git(ctx, sc.Vault, "add", "-A")
	msg := fmt.Sprintf("Ogresync sync: %d file%s changed (%s)",
		changed, pluralSuffix(changed), time.Now().UTC().Format(time.RFC3339))
	commit := o.runner.Git(ctx, sc.Vault, "commit", "-m", msg)
	sc.Session.LocalChangesCommitted = commit.Succeeded()
}

// porcelainFileCount counts the non-blank lines of `git status --porcelain`
// output, i.e. the number of files the upcoming commit will touch.
func porcelainFileCount(porcelain string) int {
	count := 0
	for _, line := range strings.Split(porcelain, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// postsync implements POSTSYNC: it always invokes the
// Stage-1 resolver when the remote has advanced since RemoteHeadBeforeSession,
// even if this session made no local changes, and never performs an
// implicit remote-wins reset here.
func (o *Orchestrator) postsync(ctx context.Context, sc *synccontext.Context, remoteURL string) Result {
	if o.offlineMgr.IsOffline(ctx, remoteURL) {
		return succeeded("offline: local changes committed, nothing pushed")
	}

	changed, _, count, err := o.inspector.ChangedSince(ctx, sc.Vault, sc.Session.RemoteHeadBeforeSession)
	if err != nil {
		return Result{Message: "failed to check for remote advancement: " + err.Error()}
	}

	if changed {
		summary, serr := o.divergenceSummary(ctx, sc.Vault, "post-editor-push")
		if serr != nil {
			return Result{Message: "failed to summarize divergence: " + serr.Error()}
		}
		summary.Reason = fmt.Sprintf("post-editor-push (%d new remote commit(s))", count)

		outcome := o.resolver1.Resolve(ctx, sc.Vault, sc.Sink, summary)
		if !outcome.Success {
			if outcome.Cancelled {
				return aborted(outcome.Message)
			}
			return abortedWithBackup(outcome.Message, outcome.BackupID)
		}
		if len(outcome.Conflicts) > 0 {
			res2 := o.resolver2.Resolve(ctx, sc.Vault, sc.Sink, outcome.Conflicts, outcome.BackupID)
			if !res2.Success {
				return abortedWithBackup(res2.Message, res2.BackupID)
			}
		}
		if outcome.Strategy == synccontext.StrategyKeepRemote {
			return succeeded("adopted remote content; nothing to push")
		}
	}

	push := o.runner.GitWithTimeout(ctx, sc.Vault, netTimeout, "push", "origin", "main")
	if !push.Succeeded() {
		return Result{Message: "push failed, local commits preserved: " + push.Stderr}
	}
	return succeeded("synced")
}

func isWritable(dir string) bool {
	probe := filepath.Join(dir, ".ogresync-write-probe")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return false
	}
	_ = f.Close()
	_ = os.Remove(probe)
	return true
}

func dirHasNoEntries(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Name() == ".git" {
			continue
		}
		return false, nil
	}
	return true, nil
}

func diffStrings(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s] = true
	}
	var out []string
	for _, s := range a {
		if !inB[s] {
			out = append(out, s)
		}
	}
	return out
}
