// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable that selects the default log level.
const EnvLogLevel = "AGENTOPS_LOG"

// contextKey is how we find [*slog.Logger] in a [context.Context].
type contextKey struct{}

// NewContext returns a new [context.Context], derived from ctx, which carries the provided [*slog.Logger].
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns a [slog.Logger] from ctx.
//
// If no [*slog.Logger] is found, this returns a JSON logger writing to
// stdout at the level selected by the AGENTOPS_LOG environment variable.
func FromContext(ctx context.Context) *slog.Logger {
	if v := ctx.Value(contextKey{}); v != nil {
		return v.(*slog.Logger)
	}
	return NewLogger(os.Stdout)
}

// NewLogger returns a JSON [*slog.Logger] writing to w at the level
// selected by the AGENTOPS_LOG environment variable.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: EnvLevel(),
	}))
}

// EnvLevel reports the [slog.Level] named by the AGENTOPS_LOG environment
// variable. Unknown or empty values map to [slog.LevelInfo].
func EnvLevel() slog.Level {
	switch strings.ToLower(os.Getenv(EnvLogLevel)) {
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
