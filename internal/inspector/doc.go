// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package inspector implements the Repository Inspector:
// classification of local/remote vault state used to decide whether the
// Sync Orchestrator needs to invoke the Stage-1 Strategy Resolver.
package inspector
