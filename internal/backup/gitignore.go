// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package backup

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// requiredIgnoreLines are appended, if absent, to the vault's .gitignore at
// Backup Manager construction.
var requiredIgnoreLines = []string{
	".ogresync-backups/",
	"OGRESYNC_RECOVERY_INSTRUCTIONS_*.txt",
}

// ensureGitignore appends requiredIgnoreLines, plus editorStateDir if the
// caller names one (the editor's application-state directory is
// config-specific, so it is injected rather than hard-coded).
func ensureGitignore(vaultPath string, editorStateDir string) error {
	path := filepath.Join(vaultPath, ".gitignore")

	existing := map[string]bool{}
	if f, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			existing[strings.TrimSpace(scanner.Text())] = true
		}
		f.Close()
	}

	wanted := append([]string{}, requiredIgnoreLines...)
	if editorStateDir != "" {
		wanted = append(wanted, editorStateDir)
	}

	var toAppend []string
	for _, line := range wanted {
		if !existing[line] {
			toAppend = append(toAppend, line)
		}
	}
	if len(toAppend) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if stat, err := f.Stat(); err == nil && stat.Size() > 0 {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}

	for _, line := range toAppend {
		if _, err := f.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}
