// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig holds ambient, machine-wide settings that are not part of the
// per-vault Configuration Record: where to mirror JSON logs, how
// aggressively to prune backups, and how long the Network Probe waits
// before declaring the remote unreachable.
type GlobalConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Backup  BackupConfig  `yaml:"backup"`
	Network NetworkConfig `yaml:"network"`
}

// LoggingConfig configures the dual console+file logger.
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	FilePath   string `yaml:"filePath"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// BackupConfig configures the Backup Manager's cleanup defaults.
type BackupConfig struct {
	RetentionDays   int `yaml:"retentionDays"`
	KeepPerReason   int `yaml:"keepPerReason"`
}

// NetworkConfig configures the Network Probe.
type NetworkConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

// DefaultGlobalConfig returns the built-in defaults used when no config file
// is present or it fails to parse.
func DefaultGlobalConfig() *GlobalConfig {
	home, _ := os.UserHomeDir()
	return &GlobalConfig{
		Logging: LoggingConfig{
			Enabled:    true,
			FilePath:   filepath.Join(home, ".ogresync", "logs", "ogresync.log"),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Backup: BackupConfig{
			RetentionDays: 30,
			KeepPerReason: 10,
		},
		Network: NetworkConfig{
			TimeoutSeconds: 5,
		},
	}
}

// LoadGlobalConfig reads ~/.ogresync/config.yaml, falling back to defaults
// for any field left unset and to DefaultGlobalConfig entirely if the file
// is absent or unparsable — ambient settings must never block a sync.
func LoadGlobalConfig() (*GlobalConfig, error) {
	def := DefaultGlobalConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return def, nil
	}

	path := filepath.Join(home, ".ogresync", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return def, nil
	}

	cfg := *def
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return def, nil
	}

	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = def.Logging.FilePath
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = def.Logging.MaxSizeMB
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = def.Logging.MaxBackups
	}
	if cfg.Logging.MaxAgeDays == 0 {
		cfg.Logging.MaxAgeDays = def.Logging.MaxAgeDays
	}
	if cfg.Backup.RetentionDays == 0 {
		cfg.Backup.RetentionDays = def.Backup.RetentionDays
	}
	if cfg.Backup.KeepPerReason == 0 {
		cfg.Backup.KeepPerReason = def.Backup.KeepPerReason
	}
	if cfg.Network.TimeoutSeconds == 0 {
		cfg.Network.TimeoutSeconds = def.Network.TimeoutSeconds
	}

	return &cfg, nil
}
