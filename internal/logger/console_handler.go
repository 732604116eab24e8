// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
)

var (
	debugColor = color.New(color.FgCyan).SprintFunc()
	infoColor  = color.New(color.FgGreen).SprintFunc()
	warnColor  = color.New(color.FgYellow).SprintFunc()
	errColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// ConsoleHandler renders log records as single human-readable lines, the
// format the CLI prints while the worker goroutine runs a sync phase.
type ConsoleHandler struct {
	writer io.Writer
	level  slog.Level
	attrs  []slog.Attr
}

// NewConsoleHandler creates a console handler for the given writer and level.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	return &ConsoleHandler{writer: w, level: level}
}

// Enabled implements slog.Handler.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements slog.Handler, writing one line per record.
func (h *ConsoleHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time.Format("15:04:05")
	levelStr := formatLevel(record.Level)

	var parts []string
	record.Attrs(func(a slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s=%v", a.Key, a.Value.Any()))
		return true
	})
	for _, a := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s=%v", a.Key, a.Value.Any()))
	}

	suffix := ""
	if len(parts) > 0 {
		suffix = " [" + strings.Join(parts, " ") + "]"
	}

	line := fmt.Sprintf("%s %s %s%s\n", ts, levelStr, record.Message, suffix)
	_, err := h.writer.Write([]byte(line))
	return err
}

// WithAttrs implements slog.Handler.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ConsoleHandler{writer: h.writer, level: h.level, attrs: merged}
}

// WithGroup implements slog.Handler. Groups are flattened for console output.
func (h *ConsoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

func formatLevel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return debugColor("DEBUG")
	case level < slog.LevelWarn:
		return infoColor("INFO ")
	case level < slog.LevelError:
		return warnColor("WARN ")
	default:
		return errColor("ERROR")
	}
}
