// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command tokenstats-server serves the tokenstats MCP service: token
// counting and cost estimation through the Gemini API. Without Gemini
// credentials the server still starts; counting tools report the
// configuration error per call while the pure-math tools keep working.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/genai"

	"github.com/go-a2a/agentops/config"
	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/pkg/logging"
	"github.com/go-a2a/agentops/tokenstats"
)

const defaultPort = 8002

func main() {
	logger := logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("tokenstats-server failed", slog.String("error", err.Error()))
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
	logger.InfoContext(ctx, "Starting tokenstats MCP server", slog.Any("config", cfg))

	svc := tokenstats.NewService(newCounter(ctx, logger, cfg),
		tokenstats.WithDefaultModel(cfg.AgentModel),
		tokenstats.WithLogger(logger),
	)
	srv, err := tokenstats.NewServer(svc, mcp.WithLogger(logger))
	if err != nil {
		return err
	}
	return mcp.Serve(ctx, cfg.ListenAddr(defaultPort), srv)
}

// newCounter connects to the Gemini API, falling back to an offline
// counter when no usable credentials are configured.
func newCounter(ctx context.Context, logger *slog.Logger, cfg *config.Config) tokenstats.Counter {
	cc := &genai.ClientConfig{APIKey: cfg.APIKey}
	if cfg.UseVertexAI {
		cc = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.ProjectID,
			Location: cfg.Location,
		}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		logger.WarnContext(ctx, "Gemini API unavailable, serving offline", slog.String("error", err.Error()))
		return tokenstats.NewOfflineCounter(err.Error())
	}
	return tokenstats.NewCounter(client)
}
