// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package config implements the Configuration Store — the
// vault's newline-delimited KEY=VALUE record — plus an ambient GlobalConfig
// (logging, backup retention, network-probe timeout) used by the CLI shell.
package config
