// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

//go:build windows

package runner

import (
	"os/exec"
	"syscall"
)

// configureChildProcess suppresses the console window that would otherwise
// briefly flash when spawning git/ssh from a GUI-launched process on
// Windows.
func configureChildProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
