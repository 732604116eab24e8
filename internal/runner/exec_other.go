// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

//go:build !windows

package runner

import "os/exec"

// configureChildProcess is a no-op on platforms with no console window to
// suppress.
func configureChildProcess(_ *exec.Cmd) {}
