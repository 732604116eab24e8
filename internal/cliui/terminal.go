// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package cliui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/ogresync/ogresync/internal/config"
	"github.com/ogresync/ogresync/internal/synccontext"
)

// Terminal implements synccontext.Sink and setup.UI by reading lines from
// stdin and writing prompts to stdout, colorized the way internal/logger
// colorizes log level prefixes.
type Terminal struct {
	reader *bufio.Reader
	cfg    *config.Store
}

// New creates a Terminal UI. cfg is used only by AskRecoveryChoice, which
// must persist a newly selected vault directory before returning
// (synccontext.Sink's contract).
func New(cfg *config.Store) *Terminal {
	return &Terminal{reader: bufio.NewReader(os.Stdin), cfg: cfg}
}

func (t *Terminal) Progress(phase, message string) {
	prefix := color.New(color.FgCyan).Sprintf("[%s]", phase)
	fmt.Fprintf(os.Stdout, "%s %s\n", prefix, message)
}

func (t *Terminal) Confirm(question string) bool {
	fmt.Fprintf(os.Stdout, "%s [y/N]: ", question)
	line, _ := t.reader.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (t *Terminal) PromptText(title, placeholder string) (string, bool) {
	if placeholder != "" {
		fmt.Fprintf(os.Stdout, "%s [%s]: ", title, placeholder)
	} else {
		fmt.Fprintf(os.Stdout, "%s: ", title)
	}
	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	text := strings.TrimSpace(line)
	if text == "" && placeholder != "" {
		return placeholder, true
	}
	return text, text != ""
}

func (t *Terminal) PromptPath(title, defaultPath string) (string, bool) {
	return t.PromptText(title, defaultPath)
}

func (t *Terminal) AskStrategy(summary synccontext.DivergenceSummary) (synccontext.Strategy, bool) {
	fmt.Fprintf(os.Stdout, "\nRemote and local content have diverged (%s).\n", summary.Reason)
	fmt.Fprintf(os.Stdout, "  local files: %d, remote files: %d\n", summary.LocalFileCount, summary.RemoteFileCount)
	fmt.Fprintln(os.Stdout, "  1) Keep Local Only")
	fmt.Fprintln(os.Stdout, "  2) Keep Remote Only")
	fmt.Fprintln(os.Stdout, "  3) Smart Merge")
	fmt.Fprintln(os.Stdout, "  0) Cancel")
	fmt.Fprint(os.Stdout, "Choose an option: ")

	line, _ := t.reader.ReadString('\n')
	switch strings.TrimSpace(line) {
	case "1":
		return synccontext.StrategyKeepLocal, true
	case "2":
		return synccontext.StrategyKeepRemote, true
	case "3":
		return synccontext.StrategySmartMerge, true
	default:
		return synccontext.StrategyUnset, false
	}
}

func (t *Terminal) AskFileChoice(file synccontext.ConflictFile, index, total int) (synccontext.FileChoice, bool) {
	fmt.Fprintf(os.Stdout, "\nConflict %d/%d: %s\n", index, total, file.Path)
	if file.Binary {
		fmt.Fprintln(os.Stdout, "  (binary file; only Keep Local / Keep Remote are available)")
		fmt.Fprintln(os.Stdout, "  1) Keep Local")
		fmt.Fprintln(os.Stdout, "  2) Keep Remote")
		fmt.Fprintln(os.Stdout, "  0) Cancel all")
		line, _ := t.reader.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "1":
			return synccontext.ChoiceKeepLocal, true
		case "2":
			return synccontext.ChoiceKeepRemote, true
		default:
			return synccontext.ChoiceCancelAll, false
		}
	}

	fmt.Fprintln(os.Stdout, "  1) Keep Local")
	fmt.Fprintln(os.Stdout, "  2) Keep Remote")
	fmt.Fprintln(os.Stdout, "  3) Auto Merge")
	fmt.Fprintln(os.Stdout, "  4) Manual Merge")
	fmt.Fprintln(os.Stdout, "  0) Cancel all")
	fmt.Fprint(os.Stdout, "Choose an option: ")

	line, _ := t.reader.ReadString('\n')
	switch strings.TrimSpace(line) {
	case "1":
		return synccontext.ChoiceKeepLocal, true
	case "2":
		return synccontext.ChoiceKeepRemote, true
	case "3":
		return synccontext.ChoiceAutoMerge, true
	case "4":
		return synccontext.ChoiceManualMerge, true
	default:
		return synccontext.ChoiceCancelAll, false
	}
}

func (t *Terminal) AskManualMerge(file synccontext.ConflictFile) ([]byte, bool) {
	fmt.Fprintf(os.Stdout, "\n--- ours: %s ---\n%s\n", file.Path, string(file.Ours))
	fmt.Fprintf(os.Stdout, "--- theirs: %s ---\n%s\n", file.Path, string(file.Theirs))
	fmt.Fprintln(os.Stdout, "Paste the merged content, then a single line containing only '.':")

	var lines []string
	for {
		line, err := t.reader.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "." {
			break
		}
		lines = append(lines, trimmed)
		if err != nil {
			break
		}
	}
	if len(lines) == 0 {
		return nil, false
	}
	return []byte(strings.Join(lines, "\n")), true
}

func (t *Terminal) AskRecoveryChoice(vaultPath string) (synccontext.RecoveryChoice, bool) {
	fmt.Fprintf(os.Stdout, "\nVault %q is unavailable.\n", vaultPath)
	fmt.Fprintln(os.Stdout, "  1) Recreate and re-link to the saved remote")
	fmt.Fprintln(os.Stdout, "  2) Select a different directory")
	fmt.Fprintln(os.Stdout, "  3) Re-run setup")
	fmt.Fprintln(os.Stdout, "  0) Abandon")
	fmt.Fprint(os.Stdout, "Choose an option: ")

	line, _ := t.reader.ReadString('\n')
	n, _ := strconv.Atoi(strings.TrimSpace(line))
	switch n {
	case 1:
		return synccontext.RecoveryRecreateAndRelink, true
	case 2:
		newPath, ok := t.PromptText("New vault directory", "")
		if !ok {
			return synccontext.RecoveryAbandon, true
		}
		if t.cfg != nil {
			_ = t.cfg.SetAndSave(config.KeyVaultPath, newPath)
		}
		return synccontext.RecoverySelectDifferentDir, true
	case 3:
		return synccontext.RecoveryRerunSetup, true
	default:
		return synccontext.RecoveryAbandon, true
	}
}
