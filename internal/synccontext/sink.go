// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package synccontext

// Sink is the narrow interface the worker goroutine posts progress and
// interactive prompts through. The worker never mutates UI widgets
// directly; a GUI shell implements Sink by forwarding each call onto a
// channel drained on the UI thread. A CLI shell can implement it by writing
// straight to the terminal since there is no separate UI thread to protect.
type Sink interface {
	// Progress reports a human-readable status line for the current phase.
	Progress(phase, message string)

	// AskStrategy presents the three Stage-1 strategies and blocks until the
	// user picks one or cancels.
	AskStrategy(summary DivergenceSummary) (Strategy, bool)

	// AskFileChoice presents one Stage-2 conflict file and blocks until the
	// user picks a resolution or cancels the whole session.
	AskFileChoice(file ConflictFile, index, total int) (FileChoice, bool)

	// AskManualMerge opens the three-pane merge editor for one file and
	// returns the accepted merged content, or ok=false if the user cancels
	// just this file (returning to the choice prompt).
	AskManualMerge(file ConflictFile) (mergedContent []byte, ok bool)

	// Confirm asks a yes/no question and blocks until answered. No core
	// component calls it: RECOVER_VAULT uses AskRecoveryChoice and the Setup
	// Wizard prompts through its own setup.UI.
	Confirm(question string) bool

	// AskRecoveryChoice presents the RECOVER_VAULT options
	// for a vault path that failed validation. If the returned choice is
	// RecoverySelectDifferentDir, the sink is responsible for persisting
	// the newly chosen path to the config store before returning, since
	// picking a directory is a UI-only concern the orchestrator does not
	// implement.
	AskRecoveryChoice(vaultPath string) (RecoveryChoice, bool)
}

// RecoveryChoice is the RECOVER_VAULT decision, reified as a
// sum type rather than a loose string.
type RecoveryChoice int

const (
	// RecoveryUnset marks a choice that was never made.
	RecoveryUnset RecoveryChoice = iota
	// RecoveryRecreateAndRelink reinitializes the vault and re-adds the
	// persisted remote URL.
	RecoveryRecreateAndRelink
	// RecoverySelectDifferentDir points the vault at a different directory.
	RecoverySelectDifferentDir
	// RecoveryRerunSetup abandons recovery in favor of the Setup Wizard.
	RecoveryRerunSetup
	// RecoveryAbandon gives up; the orchestrator aborts the sync.
	RecoveryAbandon
)

// String renders the choice for log lines.
func (c RecoveryChoice) String() string {
	switch c {
	case RecoveryRecreateAndRelink:
		return "recreate-and-relink"
	case RecoverySelectDifferentDir:
		return "select-different-dir"
	case RecoveryRerunSetup:
		return "rerun-setup"
	case RecoveryAbandon:
		return "abandon"
	default:
		return "unset"
	}
}

// DivergenceSummary describes the divergence Stage-1 is being asked to
// resolve, enough context for a dialog to render without re-querying Git.
type DivergenceSummary struct {
	LocalFileCount  int
	RemoteFileCount int
	LocalOnlyFiles  []string
	RemoteOnlyFiles []string
	Reason          string // "linking" | "recovery" | "first-sync" | "post-editor-push"
}
