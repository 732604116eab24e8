// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package platform

import (
	"os/exec"
	"runtime"
)

// BrowserOpener opens a URL in the user's default browser. The Setup
// Wizard uses it to point the user at the remote host's SSH-keys settings
// page after copying the public key to the
// clipboard.
type BrowserOpener interface {
	Open(url string) error
}

type systemBrowser struct{}

// NewSystemBrowser returns a BrowserOpener using the host's default
// "open a URL" command per OS.
func NewSystemBrowser() BrowserOpener { return systemBrowser{} }

func (systemBrowser) Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
