// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package netprobe implements the Network Probe: a bounded
// TCP reachability check against the remote host, with no internal retries
// — the caller decides whether and when to retry.
package netprobe
