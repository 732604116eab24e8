// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package offline

import (
	"context"
	"strconv"
	"strings"

	"github.com/ogresync/ogresync/internal/netprobe"
	"github.com/ogresync/ogresync/internal/runner"
)

// Manager implements the Offline Session Manager. It owns
// no persistent state of its own — the "pending commits" a session
// accumulates are just local commits the orchestrator's next online
// presync step will find and try to push.
type Manager struct {
	probe  *netprobe.Probe
	runner *runner.Runner
}

// New creates an offline Manager.
func New(probe *netprobe.Probe, r *runner.Runner) *Manager {
	return &Manager{probe: probe, runner: r}
}

// IsOffline reports whether remoteURL's host is currently unreachable. The
// orchestrator calls this exactly once per sync phase boundary (PROBE_NETWORK
// and the re-probe in POSTSYNC) — there is no retry loop here, matching the
// Network Probe's "no retries within the probe" contract.
func (m *Manager) IsOffline(ctx context.Context, remoteURL string) bool {
	if remoteURL == "" {
		return true
	}
	return !m.probe.Online(ctx, remoteURL)
}

// UnpushedCommitCount counts local commits on the current branch that are
// not yet reachable from origin/main, i.e. what an offline session left
// pending. If origin/main does not exist yet, every local commit counts as
// pending.
func (m *Manager) UnpushedCommitCount(ctx context.Context, vault string) (int, error) {
	headExists := m.runner.Git(ctx, vault, "rev-parse", "--verify", "HEAD")
	if !headExists.Succeeded() {
		return 0, nil
	}

	remote := m.runner.Git(ctx, vault, "rev-parse", "--verify", "origin/main")
	if !remote.Succeeded() {
		res := m.runner.Git(ctx, vault, "rev-list", "--count", "HEAD")
		return parseCount(res.Stdout), nil
	}

	res := m.runner.Git(ctx, vault, "rev-list", "--count", "origin/main..HEAD")
	return parseCount(res.Stdout), nil
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
