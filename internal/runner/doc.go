// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package runner implements the Command Runner: it executes
// git/ssh/shell commands, capturing stdout, stderr, and exit code, and
// never raises for a non-zero exit — callers branch on the returned
// ExitCode instead of an error. Any command name is accepted; there is no
// allow-list of binaries.
package runner
