// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// CommonLogger is the logging surface every core component depends on.
// Logger (in both its dual and its NewConsoleOnly mode) and NopLogger
// satisfy it, so the orchestrator never imports a concrete sink.
type CommonLogger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Logger wraps log/slog with a session id and component name, mirroring how
// sync-phase progress is reported: one line per step, JSON mirrored to a
// rotated file for later troubleshooting.
type Logger struct {
	slog      *slog.Logger
	component string
	sessionID string
}

var _ CommonLogger = (*Logger)(nil)

// Options configures a new Logger.
type Options struct {
	Component string
	Level     slog.Level
	// LogFilePath, if non-empty, mirrors JSON records to a lumberjack-rotated file.
	LogFilePath string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

// New creates a dual console+file logger. If LogFilePath is empty, or the
// log directory cannot be created, it silently falls back to console-only —
// logging must never block a sync from proceeding.
func New(opts Options) *Logger {
	if opts.Level == 0 {
		opts.Level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	consoleHandler := NewConsoleHandler(os.Stdout, handlerOpts)

	var handler slog.Handler = consoleHandler

	if opts.LogFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFilePath), 0o750); err == nil {
			maxSize := opts.MaxSizeMB
			if maxSize == 0 {
				maxSize = 10
			}
			maxBackups := opts.MaxBackups
			if maxBackups == 0 {
				maxBackups = 5
			}
			maxAge := opts.MaxAgeDays
			if maxAge == 0 {
				maxAge = 30
			}

			rotator := &lumberjack.Logger{
				Filename:   opts.LogFilePath,
				MaxSize:    maxSize,
				MaxBackups: maxBackups,
				MaxAge:     maxAge,
				Compress:   true,
			}

			jsonHandler := slog.NewJSONHandler(rotator, handlerOpts)
			handler = newMultiHandler(consoleHandler, jsonHandler)
		}
	}

	return &Logger{
		slog:      slog.New(handler),
		component: opts.Component,
		sessionID: uuid.NewString(),
	}
}

// NewConsoleOnly creates a console-only logger, used by the CLI for every
// subcommand when file logging is disabled in the global config.
func NewConsoleOnly(component string, level slog.Level) *Logger {
	handlerOpts := &slog.HandlerOptions{Level: level}
	return &Logger{
		slog:      slog.New(NewConsoleHandler(os.Stdout, handlerOpts)),
		component: component,
		sessionID: uuid.NewString(),
	}
}

func (l *Logger) with(args []interface{}) []interface{} {
	return append([]interface{}{"component", l.component, "session", l.sessionID}, args...)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...interface{}) { l.slog.Debug(msg, l.with(args)...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...interface{}) { l.slog.Info(msg, l.with(args)...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...interface{}) { l.slog.Warn(msg, l.with(args)...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...interface{}) { l.slog.Error(msg, l.with(args)...) }

// WithPhase returns a derived logger tagged with the current orchestrator
// state, so every log line in a phase is traceable to it.
func (l *Logger) WithPhase(phase string) *Logger {
	return &Logger{
		slog:      l.slog.With("phase", phase),
		component: l.component,
		sessionID: l.sessionID,
	}
}

// Elapsed logs how long an operation took, a pattern used around every
// Command Runner invocation in the sync phases.
func (l *Logger) Elapsed(msg string, start time.Time, args ...interface{}) {
	args = append(args, "elapsed_ms", time.Since(start).Milliseconds())
	l.Info(msg, args...)
}

// NopLogger discards everything; useful for tests that assert only on
// return values.
type NopLogger struct{}

var _ CommonLogger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// ContextWithLogger is a convenience for passing a logger through a
// context.Context alongside cancellation, the same pairing used for
// context-scoped request state.
type ctxKey struct{}

// ContextWithLogger attaches l to ctx.
func ContextWithLogger(ctx context.Context, l CommonLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves a logger previously attached with ContextWithLogger,
// falling back to NopLogger.
func FromContext(ctx context.Context) CommonLogger {
	if l, ok := ctx.Value(ctxKey{}).(CommonLogger); ok {
		return l
	}
	return NopLogger{}
}
