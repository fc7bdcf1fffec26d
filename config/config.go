// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package config resolves the settings shared by the MCP servers, the
// agents and the orchestrator from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-a2a/agentops/types"
)

// Environment variables read by [NewFromEnv].
const (
	EnvProjectID        = "GOOGLE_CLOUD_PROJECT"
	EnvLocation         = "GOOGLE_CLOUD_LOCATION"
	EnvAPIKey           = "GOOGLE_API_KEY"
	EnvUseVertexAI      = "GOOGLE_GENAI_USE_VERTEXAI"
	EnvAgentModel       = "AGENT_MODEL"
	EnvInventoryURL     = "MCP_INVENTORY_URL"
	EnvReasoningCostURL = "MCP_REASONING_COST_URL"
	EnvTokenStatsURL    = "MCP_TOKENSTATS_URL"
	EnvPort             = "PORT"
	EnvEvalSuiteDir     = "EVAL_SUITE_DIR"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultLocation         = "us-central1"
	DefaultAgentModel       = "gemini-2.5-flash-lite"
	DefaultInventoryURL     = "http://localhost:8000"
	DefaultReasoningCostURL = "http://localhost:8001"
	DefaultTokenStatsURL    = "http://localhost:8002"
)

// Config carries the resolved configuration.
type Config struct {
	// ProjectID is the Google Cloud project, empty when unset.
	ProjectID string

	// Location is the Google Cloud region.
	Location string

	// APIKey is the Gemini API key, empty when credentials come from
	// ambient ADC.
	APIKey string

	// UseVertexAI routes Gemini calls through Vertex AI instead of the
	// Gemini API.
	UseVertexAI bool

	// AgentModel is the model every agent speaks.
	AgentModel string

	// InventoryURL, ReasoningCostURL and TokenStatsURL locate the MCP
	// servers.
	InventoryURL     string
	ReasoningCostURL string
	TokenStatsURL    string

	// Port overrides a server's default listen port when positive.
	Port int

	// EvalSuiteDir overrides where evaluation suites are stored; empty
	// keeps the store's default.
	EvalSuiteDir string
}

// NewFromEnv resolves the configuration from the environment. Unset
// variables fall back to their defaults; PORT and
// GOOGLE_GENAI_USE_VERTEXAI must parse when set.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		ProjectID:        os.Getenv(EnvProjectID),
		Location:         getenv(EnvLocation, DefaultLocation),
		APIKey:           os.Getenv(EnvAPIKey),
		AgentModel:       getenv(EnvAgentModel, DefaultAgentModel),
		InventoryURL:     getenv(EnvInventoryURL, DefaultInventoryURL),
		ReasoningCostURL: getenv(EnvReasoningCostURL, DefaultReasoningCostURL),
		TokenStatsURL:    getenv(EnvTokenStatsURL, DefaultTokenStatsURL),
		EvalSuiteDir:     os.Getenv(EnvEvalSuiteDir),
	}

	if v := os.Getenv(EnvUseVertexAI); v != "" {
		use, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &types.ConfigurationError{Parameter: EnvUseVertexAI, Message: fmt.Sprintf("not a boolean: %q", v)}
		}
		cfg.UseVertexAI = use
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, &types.ConfigurationError{Parameter: EnvPort, Message: fmt.Sprintf("not a number: %q", v)}
		}
		if port <= 0 || port > 65535 {
			return nil, &types.ConfigurationError{Parameter: EnvPort, Message: fmt.Sprintf("port %d out of range", port)}
		}
		cfg.Port = port
	}
	return cfg, nil
}

// ListenAddr returns the listen address for a server whose default port
// is fallback, honoring PORT when set.
func (c *Config) ListenAddr(fallback int) string {
	port := c.Port
	if port == 0 {
		port = fallback
	}
	return fmt.Sprintf(":%d", port)
}

var _ slog.LogValuer = (*Config)(nil)

// LogValue renders the configuration for startup logging with the API
// key redacted.
func (c *Config) LogValue() slog.Value {
	apiKey := "unset"
	if c.APIKey != "" {
		apiKey = "set"
	}
	project := c.ProjectID
	if project == "" {
		project = "unset"
	}
	return slog.GroupValue(
		slog.String("project_id", project),
		slog.String("location", c.Location),
		slog.String("api_key", apiKey),
		slog.Bool("use_vertex_ai", c.UseVertexAI),
		slog.String("agent_model", c.AgentModel),
		slog.String("inventory_url", c.InventoryURL),
		slog.String("reasoning_cost_url", c.ReasoningCostURL),
		slog.String("token_stats_url", c.TokenStatsURL),
	)
}

// getenv returns the variable's value, or fallback when unset or empty.
func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
