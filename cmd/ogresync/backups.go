// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ogresync/ogresync/internal/backup"
)

func newBackupsCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "backups",
		Short: "Inspect and prune local backups",
	}

	root.AddCommand(newBackupsListCmd(a))
	root.AddCommand(newBackupsCleanupCmd(a))
	return root
}

func newBackupsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups newest-first",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := backup.New(a.cfg.VaultPath(), a.runner, a.log, "")
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Type", "Reason", "Created", "Description")
			for _, rec := range mgr.List() {
				if err := table.Append(
					rec.ID,
					string(rec.BackupType),
					string(rec.Reason),
					rec.CreatedAt,
					rec.Description,
				); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to add backup to table: %v\n", err)
				}
			}
			return table.Render()
		},
	}
}

func newBackupsCleanupCmd(a *app) *cobra.Command {
	var force, dryRun bool
	var retentionDays, keepPerReason int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete old or excess backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := backup.New(a.cfg.VaultPath(), a.runner, a.log, "")
			if err != nil {
				return err
			}
			res, err := mgr.Cleanup(a.ctx, backup.CleanupOptions{
				Force:         force,
				DryRun:        dryRun,
				RetentionDays: retentionDays,
				KeepPerReason: keepPerReason,
			})
			if err != nil {
				return err
			}
			verb := "deleted"
			if dryRun {
				verb = "would delete"
			}
			fmt.Printf("%s %d backup(s), freeing %.2f MB\n", verb, len(res.DeletedIDs), res.MBFreed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "no effect: cleanup never asks for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be deleted without deleting")
	cmd.Flags().IntVar(&retentionDays, "retention-days", 0, "override the retention window (default 30)")
	cmd.Flags().IntVar(&keepPerReason, "keep-per-reason", 0, "override how many backups to keep per reason (default 10)")
	return cmd
}
