// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogresync/ogresync/internal/backup"
	"github.com/ogresync/ogresync/internal/config"
	ogerrors "github.com/ogresync/ogresync/internal/errors"
	"github.com/ogresync/ogresync/internal/inspector"
	"github.com/ogresync/ogresync/internal/netprobe"
	"github.com/ogresync/ogresync/internal/offline"
	"github.com/ogresync/ogresync/internal/orchestrator"
	"github.com/ogresync/ogresync/internal/platform"
	"github.com/ogresync/ogresync/internal/resolver1"
	"github.com/ogresync/ogresync/internal/resolver2"
	"github.com/ogresync/ogresync/internal/synccontext"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync cycle against the configured vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.SetupDone() {
				return fmt.Errorf("setup has not been completed; run `ogresync setup` first")
			}

			vault := a.cfg.VaultPath()
			editorPath := a.cfg.EditorPath()
			remoteURL := a.cfg.RemoteURL()
			if vault == "" || editorPath == "" || remoteURL == "" {
				return fmt.Errorf("configuration is incomplete; run `ogresync setup` again")
			}

			backups, err := backup.New(vault, a.runner, a.log, "")
			if err != nil {
				return fmt.Errorf("initializing backup manager: %w", err)
			}

			insp := inspector.New(a.runner, a.log)
			stage1 := resolver1.New(a.runner, backups, a.log)
			stage2 := resolver2.New(a.runner, a.log)
			probe := netprobe.New(time.Duration(a.global.Network.TimeoutSeconds) * time.Second)
			offlineMgr := offline.New(probe, a.runner)
			editor := platform.NewExecLauncher()

			orch := orchestrator.New(a.runner, insp, backups, stage1, stage2, offlineMgr, editor, a.log)
			sc := synccontext.New(a.cfg, a.runner, a.log, a.ui, vault)

			var res orchestrator.Result
			recovery := ogerrors.NewRecovery(a.log, nil)
			if err := recovery.WithPanicRecovery(func() error {
				res = orch.Run(a.ctx, sc, editorPath, remoteURL)
				return nil
			}); err != nil {
				return fmt.Errorf("sync crashed and was recovered before corrupting the vault: %w", err)
			}

			if res.RerunSetup {
				_ = a.cfg.SetAndSave(config.KeySetupDone, "0")
				return fmt.Errorf("vault recovery requires re-running setup; run `ogresync setup`")
			}
			if res.Aborted {
				return fmt.Errorf("sync aborted: %s", res.Message)
			}
			if !res.Success {
				return fmt.Errorf("sync finished with warnings: %s", res.Message)
			}

			fmt.Println(res.Message)
			return nil
		},
	}
}
