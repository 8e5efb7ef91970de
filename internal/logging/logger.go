// Package logging defines the structured-logging interface used across
// SecurePass and its slog and zap implementations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Warn(ctx, "pass payload rejected", "reason", "decryption_failed")
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn logs unusual but recovered conditions, such as a load that fell
	// back to the default collection.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backend selects the Logger implementation built by New.
type Backend string

const (
	BackendSlog Backend = "slog"
	BackendZap  Backend = "zap"
)

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New builds a Logger writing to w with the given backend and level.
func New(backend Backend, level string, w io.Writer) (Logger, error) {
	switch backend {
	case BackendSlog, "":
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		return NewZapLogger(w, ParseLevel(level)), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
