// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package synccontext

import (
	"github.com/ogresync/ogresync/internal/config"
	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/runner"
)

// Context bundles the dependencies every sync phase needs, replacing the
// process-wide globals a straight port would reach for: a
// config store, a UI sink, a command runner, a logger and the vault path.
// The backup manager is not part of it; the orchestrator and resolvers
// receive it at construction. The only legitimately global
// state left outside this struct is the config file path itself.
type Context struct {
	Config *config.Store
	Runner *runner.Runner
	Logger logger.CommonLogger
	Sink   Sink
	Vault  string

	// Session holds transient, single-session values: owned exclusively by the Sync Orchestrator.
	Session *Session
}

// Session holds values meaningful only for the lifetime of one orchestrator
// invocation.
type Session struct {
	RemoteHeadBeforeSession string
	Offline                 bool
	LocalChangesCommitted   bool
	ChosenStrategy          Strategy
}

// New creates a Context for one orchestrator run against vault.
func New(cfg *config.Store, r *runner.Runner, log logger.CommonLogger, sink Sink, vault string) *Context {
	return &Context{
		Config:  cfg,
		Runner:  r,
		Logger:  log,
		Sink:    sink,
		Vault:   vault,
		Session: &Session{},
	}
}
