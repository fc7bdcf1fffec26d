// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging provides context-based structured logging utilities using Go's standard slog package.
//
// The logging package implements a context-based logging pattern that allows loggers to be stored
// in and retrieved from context.Context values. This enables consistent logging throughout the
// service stack with automatic logger propagation.
//
// # Basic Usage
//
// Creating a logger context:
//
//	logger := logging.NewLogger(os.Stdout)
//	ctx := logging.NewContext(ctx, logger)
//
// Retrieving logger from context:
//
//	logger := logging.FromContext(ctx)
//	logger.InfoContext(ctx, "cycle completed", slog.String("status", report.Status))
//
// # Integration with Services
//
// Every service in this module resolves its logger the same way, so log
// configuration set up in main propagates down to tool handlers:
//
//	func (s *Service) Usage(ctx context.Context, agentID string) (*types.UsageStats, error) {
//		logger := logging.FromContext(ctx)
//		logger.InfoContext(ctx, "usage query", slog.String("agent_id", agentID))
//		// ...
//	}
//
// # Default Behavior
//
// When no logger is found in the context, FromContext returns a JSON logger
// writing to stdout. The level is taken from the AGENTOPS_LOG environment
// variable (debug, info, warn, error), defaulting to info. This ensures
// logging always works even when no explicit logger is configured.
//
// # Thread Safety
//
// The logging package is safe for concurrent use. Multiple goroutines can safely
// access loggers from context without additional synchronization.
package logging
