// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package orchestrator implements the Sync Orchestrator:
// the outer state machine that runs on every invocation after setup has
// completed once, driving the vault through validation, baseline, network
// probing, editor launch, local commit, and post-sync reconciliation.
package orchestrator
