// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command inventory-server serves the agent-inventory MCP service: agent
// registration, execution records, usage metrics and deployed-agent
// discovery through Vertex AI Reasoning Engines.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-a2a/agentops/config"
	"github.com/go-a2a/agentops/internal/vertexai/reasoningengine"
	"github.com/go-a2a/agentops/inventory"
	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/pkg/logging"
)

const defaultPort = 8000

func main() {
	logger := logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("inventory-server failed", slog.String("error", err.Error()))
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
	logger.InfoContext(ctx, "Starting agent-inventory MCP server", slog.Any("config", cfg))

	opts := []inventory.ServiceOption{inventory.WithLogger(logger)}
	if cfg.ProjectID != "" {
		discoverer, err := reasoningengine.NewService(ctx, cfg.ProjectID, cfg.Location)
		if err != nil {
			logger.WarnContext(ctx, "Deployed-agent discovery disabled", slog.String("error", err.Error()))
		} else {
			defer discoverer.Close()
			opts = append(opts, inventory.WithDiscoverer(discoverer))
		}
	}

	srv, err := inventory.NewServer(inventory.NewService(opts...), mcp.WithLogger(logger))
	if err != nil {
		return err
	}
	return mcp.Serve(ctx, cfg.ListenAddr(defaultPort), srv)
}
