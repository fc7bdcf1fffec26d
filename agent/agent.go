// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/tool"
	"github.com/go-a2a/agentops/types"
)

// DefaultModel is the model agents reason with unless [WithModel]
// overrides it.
const DefaultModel = "gemini-2.5-flash-lite"

// Agent pairs a model and instruction with a named tool set. The zero
// value is not usable; build agents with [New] or one of the wrapper
// constructors.
type Agent struct {
	name        string
	model       string
	description string
	instruction string
	dispatcher  *tool.Dispatcher
	logger      *slog.Logger
}

// Option configures an [Agent].
type Option func(*Agent)

// WithModel overrides the model the agent reasons with.
func WithModel(model string) Option {
	return func(a *Agent) {
		a.model = model
	}
}

// WithLogger sets the logger for the agent.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// New assembles an agent from its identity and tool set.
func New(name, description, instruction string, tools []types.Tool, opts ...Option) (*Agent, error) {
	if name == "" {
		return nil, &types.ValidationError{Field: "name", Message: "agent name must not be empty"}
	}

	a := &Agent{
		name:        name,
		model:       DefaultModel,
		description: description,
		instruction: instruction,
		dispatcher:  tool.NewDispatcher(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.dispatcher.Register(tools...); err != nil {
		return nil, fmt.Errorf("register %s tools: %w", name, err)
	}
	return a, nil
}

// Name returns the agent name.
func (a *Agent) Name() string {
	return a.name
}

// Model returns the model the agent reasons with.
func (a *Agent) Model() string {
	return a.model
}

// Description returns the agent description.
func (a *Agent) Description() string {
	return a.description
}

// Instruction returns the system instruction guiding the agent.
func (a *Agent) Instruction() string {
	return a.instruction
}

// Tools returns the agent's tools sorted by name.
func (a *Agent) Tools() []types.Tool {
	return a.dispatcher.Tools()
}

// Call invokes one of the agent's tools by name.
func (a *Agent) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	a.logger.DebugContext(ctx, "Dispatching agent tool",
		slog.String("agent", a.name),
		slog.String("tool", name),
	)
	return a.dispatcher.Dispatch(ctx, name, args)
}

// Register exposes the agent's tools on an MCP server.
func (a *Agent) Register(srv *mcp.Server) error {
	return srv.Register(a.Tools()...)
}

// degraded shapes a downstream error as the status/error_message result
// the wrapper tools report instead of failing the call. A connection
// failure is rewritten into operator guidance naming the unreachable
// server.
func degraded(err error, service string) map[string]any {
	msg := err.Error()
	var unavailable *types.UnavailableError
	if errors.As(err, &unavailable) {
		msg = cannotConnect(service, unavailable.URL)
	}
	return map[string]any{
		"status":        "error",
		"error_message": msg,
	}
}

// cannotConnect is the operator guidance for an unreachable MCP server.
func cannotConnect(service, url string) string {
	return fmt.Sprintf("Cannot connect to %s MCP server at %s. Make sure the server is running.", service, url)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
