// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package offline implements the Offline Session Manager:
// detecting an offline session start, and computing what is left unpushed
// so the next online sync knows whether to route through the Stage-1
// resolver.
package offline
