// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package setup

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ogresync/ogresync/internal/backup"
	"github.com/ogresync/ogresync/internal/config"
	"github.com/ogresync/ogresync/internal/inspector"
	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/netprobe"
	"github.com/ogresync/ogresync/internal/platform"
	"github.com/ogresync/ogresync/internal/resolver1"
	"github.com/ogresync/ogresync/internal/runner"
	"github.com/ogresync/ogresync/internal/synccontext"
)

// Result is what one Run of the wizard reports.
type Result struct {
	Success bool
	Message string
}

func failed(message string) Result    { return Result{Message: message} }
func succeeded(message string) Result { return Result{Success: true, Message: message} }

// Wizard implements the Setup Wizard.
type Wizard struct {
	runner    *runner.Runner
	cfg       *config.Store
	clipboard platform.Clipboard
	browser   platform.BrowserOpener
	log       logger.CommonLogger
}

// New creates a Wizard.
func New(r *runner.Runner, cfg *config.Store, clipboard platform.Clipboard, browser platform.BrowserOpener, log logger.CommonLogger) *Wizard {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Wizard{runner: r, cfg: cfg, clipboard: clipboard, browser: browser, log: log}
}

// Run drives every step in its numbered order, never advancing
// past a failed step. sink is reused for the Stage-1 strategy prompt step
// 9 escalates to, since that dialog's shape is already owned by
// synccontext.Sink.
func (w *Wizard) Run(ctx context.Context, ui UI, sink synccontext.Sink) Result {
	// Step 1: locate the editor.
	editorPath, found := discoverEditor()
	if !found {
		ui.Progress("editor", "no known editor found on PATH")
		chosen, promptOK := ui.PromptPath("Select your notes editor", "")
		if !promptOK || strings.TrimSpace(chosen) == "" {
			return failed("no editor selected")
		}
		editorPath = chosen
	}
	ui.Progress("editor", "using editor: "+editorPath)

	// Step 2: verify Git.
	gitCheck := w.runner.Run(ctx, "git", []string{"--version"}, "", 0)
	if !gitCheck.Succeeded() {
		return failed("git is not available on PATH: " + gitCheck.Stderr)
	}

	// Step 3: vault directory.
	vault, promptOK := ui.PromptPath("Select or create your vault directory", "")
	if !promptOK || strings.TrimSpace(vault) == "" {
		return failed("no vault directory selected")
	}
	if err := os.MkdirAll(vault, 0o750); err != nil {
		return failed("failed to create vault directory: " + err.Error())
	}

	// Step 4: initialize as a Git repository on branch main.
	if res := w.runner.Git(ctx, vault, "rev-parse", "--is-inside-work-tree"); !res.Succeeded() {
		if init := w.runner.Git(ctx, vault, "init"); !init.Succeeded() {
			return failed("git init failed: " + init.Stderr)
		}
	}
	w.runner.Git(ctx, vault, "branch", "-M", "main")

	// Step 5: SSH key provisioning.
	ui.Progress("ssh", "provisioning SSH key")
	_, pubKey, err := ensureKeyPair(ctx, w.runner)
	if err != nil {
		return failed(err.Error())
	}
	if w.clipboard != nil {
		if err := w.clipboard.WriteAll(pubKey); err != nil {
			w.log.Warn("failed to copy public key to clipboard", "error", err)
		}
	}

	// Step 8 is logically "prompt for remote URL", but the public key
	// needs a target host before the settings page can be opened — ask
	// for the remote URL now and defer attaching it until step 9.
	remoteURL, promptOK := ui.PromptText("Enter the remote repository URL", "")
	if !promptOK || strings.TrimSpace(remoteURL) == "" {
		return failed("a remote repository URL is required")
	}

	host, _ := netprobe.ParseHost(remoteURL)
	if w.browser != nil && host != "" {
		_ = w.browser.Open("https://" + host + "/settings/keys")
	}

	// Step 6: known_hosts.
	ui.Progress("ssh", "adding host key to known_hosts")
	if err := addKnownHost(ctx, w.runner, host); err != nil {
		return failed(err.Error())
	}

	// Step 7: test SSH authentication.
	sshUser := sshUserFromURL(remoteURL)
	authOK, detail := testAuth(ctx, w.runner, sshUser, host)
	if !authOK {
		return failed("SSH authentication to " + host + " failed: " + detail)
	}
	ui.Progress("ssh", "SSH authentication succeeded")

	// Step 9: attach the remote; run the inspector; escalate to Stage-1 on
	// divergence.
	w.runner.Git(ctx, vault, "remote", "remove", "origin")
	if res := w.runner.Git(ctx, vault, "remote", "add", "origin", remoteURL); !res.Succeeded() {
		return failed("failed to attach remote: " + res.Stderr)
	}

	insp := inspector.New(w.runner, w.log)
	state, err := insp.Classify(ctx, vault)
	if err != nil {
		return failed("failed to classify repository state: " + err.Error())
	}

	if state.RemoteHasContent {
		backups, berr := backup.New(vault, w.runner, w.log, "")
		if berr != nil {
			return failed("failed to initialize backup manager: " + berr.Error())
		}
		stage1 := resolver1.New(w.runner, backups, w.log)
		outcome := stage1.Resolve(ctx, vault, sink, synccontext.DivergenceSummary{
			LocalFileCount:  len(state.LocalFiles),
			RemoteFileCount: len(state.RemoteFiles),
			Reason:          "linking",
		})
		if !outcome.Success {
			return failed(outcome.Message)
		}
	}

	// Step 10: initial commit (with placeholder if empty) and push.
	empty, _ := dirHasOnlyGit(vault)
	if empty {
		placeholder := filepath.Join(vault, "README.md")
		if _, statErr := os.Stat(placeholder); os.IsNotExist(statErr) {
			_ = os.WriteFile(placeholder, []byte("# Notes\n\nThis vault is synced with Ogresync.\n"), 0o644)
		}
	}
	if head := w.runner.Git(ctx, vault, "rev-parse", "--verify", "HEAD"); !head.Succeeded() {
		w.runner.Git(ctx, vault, "add", "-A")
		commit := w.runner.Git(ctx, vault, "commit", "-m", "Initial commit")
		if !commit.Succeeded() && !strings.Contains(commit.Stderr, "nothing to commit") {
			return failed("failed to create initial commit: " + commit.Stderr)
		}
	}
	push := w.runner.Git(ctx, vault, "push", "-u", "origin", "main")
	if !push.Succeeded() {
		return failed("failed to push initial commit: " + push.Stderr)
	}

	// Step 11: persist configuration.
	w.cfg.Set(config.KeyVaultPath, vault)
	w.cfg.Set(config.KeyEditorPath, editorPath)
	w.cfg.Set(config.KeyRemoteURL, remoteURL)
	if err := w.cfg.SetAndSave(config.KeySetupDone, "1"); err != nil {
		return failed("failed to persist setup configuration: " + err.Error())
	}

	return succeeded("setup complete")
}

func dirHasOnlyGit(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Name() == ".git" {
			continue
		}
		return false, nil
	}
	return true, nil
}

// sshUserFromURL extracts the userinfo component from a remote URL,
// defaulting to "git" as nearly every hosted Git provider requires.
func sshUserFromURL(remoteURL string) string {
	url := strings.TrimPrefix(remoteURL, "ssh://")
	at := strings.Index(url, "@")
	if at < 0 {
		return "git"
	}
	return url[:at]
}
