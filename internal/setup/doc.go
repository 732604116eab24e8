// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package setup implements the Setup Wizard: the one-shot,
// ordered sequence that runs once per vault (gated by the Configuration
// Store's SETUP_DONE flag) to discover an editor, verify Git, initialize
// the vault, provision SSH access, link a remote, and make the first
// commit and push.
package setup
