// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package setup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ogresync/ogresync/internal/runner"
)

const sshTimeout = 20 * time.Second

func sshDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ssh"), nil
}

// ensureKeyPair generates an ed25519 key pair at the standard location if
// none exists yet, returning the public key path and
// its content.
func ensureKeyPair(ctx context.Context, r *runner.Runner) (pubPath, pubContent string, err error) {
	dir, err := sshDir()
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", "", err
	}

	keyPath := filepath.Join(dir, "id_ed25519")
	pubPath = keyPath + ".pub"

	if _, statErr := os.Stat(pubPath); os.IsNotExist(statErr) {
		res := r.Run(ctx, "ssh-keygen", []string{"-t", "ed25519", "-f", keyPath, "-N", "", "-C", "ogresync"}, "", sshTimeout)
		if !res.Succeeded() {
			return "", "", errStr("ssh-keygen failed: " + res.Stderr)
		}
	}

	data, err := os.ReadFile(pubPath)
	if err != nil {
		return "", "", err
	}
	return pubPath, strings.TrimSpace(string(data)), nil
}

// addKnownHost appends host's SSH host key to known_hosts non-interactively
// via ssh-keyscan, skipping if already present.
func addKnownHost(ctx context.Context, r *runner.Runner, host string) error {
	dir, err := sshDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	knownHostsPath := filepath.Join(dir, "known_hosts")
	existing, _ := os.ReadFile(knownHostsPath)
	if strings.Contains(string(existing), host) {
		return nil
	}

	res := r.Run(ctx, "ssh-keyscan", []string{"-T", "5", host}, "", sshTimeout)
	if !res.Succeeded() || strings.TrimSpace(res.Stdout) == "" {
		return errStr("ssh-keyscan failed for " + host + ": " + res.Stderr)
	}

	f, err := os.OpenFile(knownHostsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	content := res.Stdout
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	_, err = f.WriteString(content)
	return err
}

// testAuth runs a non-interactive SSH auth probe against host. Git hosts
// answer an authenticated connection attempt with a non-zero exit code even
// on success (no shell access granted), so success is judged by
// stderr/stdout content rather than exit code alone.
func testAuth(ctx context.Context, r *runner.Runner, user, host string) (ok bool, detail string) {
	target := user + "@" + host
	res := r.Run(ctx, "ssh", []string{
		"-o", "BatchMode=yes",
		"-o", "StrictHostKeyChecking=yes",
		"-T", target,
	}, "", sshTimeout)

	combined := res.Stdout + res.Stderr
	lower := strings.ToLower(combined)
	if strings.Contains(lower, "successfully authenticated") ||
		strings.Contains(lower, "does not provide shell access") ||
		strings.Contains(lower, "you've successfully authenticated") {
		return true, combined
	}
	return false, combined
}

type errString string

func (e errString) Error() string { return string(e) }

func errStr(s string) error { return errString(s) }
