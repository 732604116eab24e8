// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package resolver1 implements the Stage-1 Strategy Resolver: the three
// top-level divergence strategies (Keep-Local, Keep-Remote, Smart-Merge),
// each of which takes a safety backup before touching the working tree and
// never force-pushes or silently discards local history.
package resolver1
