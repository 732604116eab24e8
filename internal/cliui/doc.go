// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package cliui implements synccontext.Sink and setup.UI against a plain
// terminal, reading from stdin and writing to stdout/stderr. It is the CLI
// shell's concrete answer to the interaction seams the worker and the
// Setup Wizard block on; there is no separate UI thread to protect here,
// so every method runs synchronously on the calling goroutine.
package cliui
