// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package synccontext defines the shared value types threaded through every
// sync phase: the session Context, the Strategy/Outcome sum types standing
// in for loose "choice" strings, and the Sink interface the worker
// goroutine posts progress through instead of mutating UI widgets directly.
package synccontext
