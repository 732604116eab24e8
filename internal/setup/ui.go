// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package setup

// UI is the interaction seam the Setup Wizard blocks on. It is distinct
// from synccontext.Sink because setup needs free-text and path prompts the
// steady-state sync Sink has no use for.
type UI interface {
	// Progress reports a human-readable status line for the current step.
	Progress(step, message string)

	// PromptPath asks the user to browse to a file or directory, seeded
	// with defaultPath if non-empty. ok is false if the user cancels.
	PromptPath(title, defaultPath string) (path string, ok bool)

	// PromptText asks for a single line of free text (used for the remote
	// URL). ok is false if the user cancels.
	PromptText(title, placeholder string) (text string, ok bool)

	// Confirm asks a yes/no question and blocks until answered.
	Confirm(question string) bool
}
