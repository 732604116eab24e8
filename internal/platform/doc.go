// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package platform defines the narrow interfaces the core consumes for
// collaborators whose concrete, OS-specific behavior lies outside the core:
// editor process lifetime, the system clipboard, and a browser opener for
// the host's SSH-keys settings page. Matching a running process back to a
// configured editor path by name, command-line substring, or launcher
// wrapper is left to a future platform-specific implementation; this
// package ships only a naive default (watch the directly spawned child) so
// the core compiles and its state machine is testable end-to-end with
// fakes.
package platform
