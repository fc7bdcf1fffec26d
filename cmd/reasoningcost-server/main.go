// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command reasoningcost-server serves the reasoning-cost MCP service:
// deployment cost estimation, uptime cost projection and model pricing
// comparison for Vertex AI Reasoning Engine deployments.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-a2a/agentops/config"
	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/pkg/logging"
	"github.com/go-a2a/agentops/reasoningcost"
)

const defaultPort = 8001

func main() {
	logger := logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("reasoningcost-server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.NewContext(ctx, logger)

	cfg, err := config.NewFromEnv()
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Starting reasoning-cost MCP server", slog.Any("config", cfg))

	svc := reasoningcost.NewService(reasoningcost.WithLogger(logger))
	srv, err := reasoningcost.NewServer(svc, mcp.WithLogger(logger))
	if err != nil {
		return err
	}
	return mcp.Serve(ctx, cfg.ListenAddr(defaultPort), srv)
}
