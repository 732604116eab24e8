// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ogresync/ogresync/internal/cliui"
	"github.com/ogresync/ogresync/internal/config"
	"github.com/ogresync/ogresync/internal/logger"
	"github.com/ogresync/ogresync/internal/runner"
)

// app bundles the shared dependencies every subcommand needs, built once
// in the root command's PersistentPreRunE.
type app struct {
	ctx    context.Context
	cfg    *config.Store
	global *config.GlobalConfig
	log    *logger.Logger
	runner *runner.Runner
	ui     *cliui.Terminal
}

func newRootCmd(ctx context.Context, version string) *cobra.Command {
	var configPath string
	var verbose, debug bool

	a := &app{}

	root := &cobra.Command{
		Use:     "ogresync",
		Short:   "Sync a notes vault with a Git remote",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			v.SetEnvPrefix("OGRESYNC")
			v.AutomaticEnv()
			v.BindPFlag("vault", cmd.Flags().Lookup("vault"))
			v.BindPFlag("editor", cmd.Flags().Lookup("editor"))
			v.BindPFlag("remote", cmd.Flags().Lookup("remote"))

			storePath := configPath
			if storePath == "" {
				storePath = config.DefaultPath()
			}
			store := config.NewStore(storePath)
			if err := store.Load(); err != nil {
				return err
			}

			if vault := v.GetString("vault"); vault != "" {
				store.Set(config.KeyVaultPath, vault)
			}
			if editor := v.GetString("editor"); editor != "" {
				store.Set(config.KeyEditorPath, editor)
			}
			if remote := v.GetString("remote"); remote != "" {
				store.Set(config.KeyRemoteURL, remote)
			}

			global, err := config.LoadGlobalConfig()
			if err != nil {
				global = config.DefaultGlobalConfig()
			}

			level := parseLevel(global.Logging.Level)
			if debug {
				level = slog.LevelDebug
			} else if verbose {
				level = slog.LevelInfo
			}

			var log *logger.Logger
			if global.Logging.Enabled {
				log = logger.New(logger.Options{
					Component:   "ogresync",
					Level:       level,
					LogFilePath: global.Logging.FilePath,
					MaxSizeMB:   global.Logging.MaxSizeMB,
					MaxBackups:  global.Logging.MaxBackups,
					MaxAgeDays:  global.Logging.MaxAgeDays,
				})
			} else {
				log = logger.NewConsoleOnly("ogresync", level)
			}

			a.ctx = ctx
			a.cfg = store
			a.global = global
			a.log = log
			a.runner = runner.New()
			a.ui = cliui.New(store)
			return nil
		},
	}

	root.PersistentFlags().String("vault", "", "override the configured vault path")
	root.PersistentFlags().String("editor", "", "override the configured editor path")
	root.PersistentFlags().String("remote", "", "override the configured remote URL")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable info-level logging")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug-level logging")

	root.AddCommand(newSyncCmd(a))
	root.AddCommand(newSetupCmd(a))
	root.AddCommand(newBackupsCmd(a))

	return root
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
