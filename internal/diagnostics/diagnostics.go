// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package diagnostics adapts Aura's ConsoleEffects interface to a
// structured, leveled logger behind a small interface consumed by the
// core. The backend is log/slog: every field list is carried as typed
// key/value attributes, not flattened into the message string, so an
// embedder can swap in any slog.Handler (JSON, OTLP, a ring buffer)
// without touching a call site.
package diagnostics

import (
	"context"
	"log/slog"
	"os"
)

// Level is a log severity, ordered low to high.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger satisfies effects.ConsoleEffects over a slog backend.
type Logger struct {
	sl *slog.Logger
}

// New constructs a Logger writing text-formatted records to stderr at
// minLevel and above.
func New(minLevel Level) *Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: minLevel.slog()})
	return &Logger{sl: slog.New(h)}
}

// NewWithHandler wraps an embedder-supplied slog.Handler, the hook for
// routing diagnostics into whatever logging stack the host application
// already runs.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{sl: slog.New(h)}
}

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a
// Level, defaulting to LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Error implements effects.ConsoleEffects.
func (l *Logger) Error(ctx context.Context, msg string, fields ...any) {
	l.sl.Log(ctx, slog.LevelError, msg, fields...)
}

// Warn implements effects.ConsoleEffects.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...any) {
	l.sl.Log(ctx, slog.LevelWarn, msg, fields...)
}

// Info implements effects.ConsoleEffects.
func (l *Logger) Info(ctx context.Context, msg string, fields ...any) {
	l.sl.Log(ctx, slog.LevelInfo, msg, fields...)
}

// Debug implements effects.ConsoleEffects.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...any) {
	l.sl.Log(ctx, slog.LevelDebug, msg, fields...)
}

// Fields is a small helper for building ad hoc key/value field lists.
func Fields(kv ...any) []any { return kv }
