// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ogresync/ogresync/internal/platform"
	"github.com/ogresync/ogresync/internal/setup"
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Run the one-time setup wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			wizard := setup.New(a.runner, a.cfg, platform.NewSystemClipboard(), platform.NewSystemBrowser(), a.log)
			res := wizard.Run(a.ctx, a.ui, a.ui)
			if !res.Success {
				return fmt.Errorf("setup failed: %s", res.Message)
			}
			fmt.Println(res.Message)
			return nil
		},
	}
}
