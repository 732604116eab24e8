// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package setup

import "os/exec"

// candidateEditors lists generic, cross-platform editor executables to
// probe via PATH lookup before falling back to asking the user to browse.
// This intentionally stays generic rather than hard-coding one vendor's install paths.
var candidateEditors = []string{"obsidian", "code", "subl", "notepad++", "gedit", "vim", "nano"}

// discoverEditor searches PATH for a known editor binary, returning the
// first match. Found reports whether any candidate resolved.
func discoverEditor() (path string, found bool) {
	for _, name := range candidateEditors {
		if p, err := exec.LookPath(name); err == nil {
			return p, true
		}
	}
	return "", false
}
