// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package inspector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ogresync/ogresync/internal/contentfilter"
	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/runner"
)

// State is the computed (never persisted) Repository State Classification
// of the repository's sync state.
type State struct {
	LocalHasContent  bool
	RemoteHasContent bool
	RemoteExists     bool // origin/main exists at all, independent of content
	LocalFiles       []string
	RemoteFiles      []string
}

// Inspector is the Repository Inspector.
type Inspector struct {
	runner *runner.Runner
	log    logger.CommonLogger
}

// New creates an Inspector.
func New(r *runner.Runner, log logger.CommonLogger) *Inspector {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Inspector{runner: r, log: log}
}

const fetchTimeout = 30 * time.Second

// Classify fetches the remote, lists the remote tree at origin/main if
// present, walks the local working tree, and returns both file lists and
// the "has content" booleans, filtering out non-content files on both sides
// via the shared contentfilter predicate.
func (i *Inspector) Classify(ctx context.Context, vault string) (State, error) {
	i.runner.GitWithTimeout(ctx, vault, fetchTimeout, "fetch", "origin")

	var state State

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		files, err := i.localFiles(vault)
		if err != nil {
			return fmt.Errorf("walking local tree: %w", err)
		}
		state.LocalFiles = files
		state.LocalHasContent = len(files) > 0
		return nil
	})

	g.Go(func() error {
		exists, err := i.remoteMainExists(gctx, vault)
		if err != nil {
			return fmt.Errorf("checking origin/main: %w", err)
		}
		state.RemoteExists = exists
		if !exists {
			return nil
		}
		files, err := i.remoteFiles(gctx, vault)
		if err != nil {
			return fmt.Errorf("listing origin/main tree: %w", err)
		}
		state.RemoteFiles = files
		state.RemoteHasContent = len(files) > 0
		return nil
	})

	if err := g.Wait(); err != nil {
		return State{}, err
	}

	return state, nil
}

func (i *Inspector) localFiles(vault string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(vault, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(vault, path)
		if relErr != nil {
			return nil
		}
		if contentfilter.IsMeaningfulRelPath(rel) {
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	return out, err
}

func (i *Inspector) remoteMainExists(ctx context.Context, vault string) (bool, error) {
	res := i.runner.Git(ctx, vault, "ls-remote", "--heads", "origin", "main")
	if !res.Succeeded() {
		return false, nil // treat an unreachable remote as "no remote content" rather than a hard error
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

func (i *Inspector) remoteFiles(ctx context.Context, vault string) ([]string, error) {
	res := i.runner.Git(ctx, vault, "ls-tree", "-r", "--name-only", "origin/main")
	if !res.Succeeded() {
		return nil, nil
	}

	var out []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if contentfilter.IsMeaningfulRelPath(line) {
			out = append(out, line)
		}
	}
	return out, nil
}

// RemoteHead fetches then reads origin/main's commit id, returning "" if
// the remote branch does not exist.
func (i *Inspector) RemoteHead(ctx context.Context, vault string) (string, error) {
	i.runner.GitWithTimeout(ctx, vault, fetchTimeout, "fetch", "origin")

	res := i.runner.Git(ctx, vault, "rev-parse", "origin/main")
	if !res.Succeeded() {
		return "", nil
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ChangedSince fetches, compares priorHead against the current origin/main,
// and counts the intervening commits.
func (i *Inspector) ChangedSince(ctx context.Context, vault, priorHead string) (changed bool, newHead string, count int, err error) {
	newHead, err = i.RemoteHead(ctx, vault)
	if err != nil {
		return false, "", 0, err
	}
	if newHead == "" || newHead == priorHead {
		return false, newHead, 0, nil
	}

	if priorHead == "" {
		return true, newHead, 0, nil
	}

	res := i.runner.Git(ctx, vault, "rev-list", "--count", priorHead+".."+newHead)
	if !res.Succeeded() {
		return true, newHead, 0, nil
	}

	n, convErr := strconv.Atoi(strings.TrimSpace(res.Stdout))
	if convErr != nil {
		n = 0
	}
	return true, newHead, n, nil
}
