// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"context"
	"errors"

	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/tool"
	"github.com/go-a2a/agentops/types"
)

const (
	// ServiceName identifies the inventory MCP server.
	ServiceName = "agent-inventory"

	// ServiceVersion is reported on initialize and GET /.
	ServiceVersion = "1.0.0"
)

type registerAgentParams struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type recordExecutionParams struct {
	AgentID      string  `json:"agent_id"`
	Success      bool    `json:"success"`
	RuntimeMS    float64 `json:"runtime_ms"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

type agentIDParams struct {
	AgentID string `json:"agent_id"`
}

type listAgentsParams struct {
	IncludeDeployed bool `json:"include_deployed"`
}

// Tools returns the MCP tool bindings for s.
func Tools(s *Service) []types.Tool {
	return []types.Tool{
		tool.NewFunctionTool(
			"register_agent",
			"Register an agent in the inventory or update its description.",
			tool.ObjectSchema(map[string]any{
				"id":          map[string]any{"type": "string", "description": "Unique agent identifier."},
				"description": map[string]any{"type": "string", "description": "Human-readable agent description."},
			}, "id"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[registerAgentParams](args)
				if err != nil {
					return nil, err
				}
				return s.RegisterAgent(ctx, params.ID, params.Description)
			},
		),
		tool.NewFunctionTool(
			"record_execution",
			"Record one agent execution with runtime, token and cost metrics.",
			tool.ObjectSchema(map[string]any{
				"agent_id":      map[string]any{"type": "string", "description": "Agent the execution belongs to."},
				"success":       map[string]any{"type": "boolean", "description": "Whether the execution succeeded."},
				"runtime_ms":    map[string]any{"type": "number", "description": "Wall-clock runtime in milliseconds."},
				"input_tokens":  map[string]any{"type": "integer", "description": "Prompt token count."},
				"output_tokens": map[string]any{"type": "integer", "description": "Completion token count."},
				"cost_usd":      map[string]any{"type": "number", "description": "Execution cost in US dollars."},
			}, "agent_id", "success"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[recordExecutionParams](args)
				if err != nil {
					return nil, err
				}
				return s.RecordExecution(ctx, &types.ExecutionRecord{
					AgentID:      params.AgentID,
					Success:      params.Success,
					RuntimeMS:    params.RuntimeMS,
					InputTokens:  params.InputTokens,
					OutputTokens: params.OutputTokens,
					CostUSD:      params.CostUSD,
				})
			},
		),
		tool.NewFunctionTool(
			"get_agent_usage",
			"Get aggregate usage statistics for one agent.",
			tool.ObjectSchema(map[string]any{
				"agent_id": map[string]any{"type": "string", "description": "Agent to aggregate statistics for."},
			}, "agent_id"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[agentIDParams](args)
				if err != nil {
					return nil, err
				}
				usage, err := s.Usage(ctx, params.AgentID)
				if err != nil {
					// An unknown agent is a regular result, not a tool
					// failure.
					var notFound *types.AgentNotFoundError
					if errors.As(err, &notFound) {
						return map[string]any{"found": false, "error": notFound.Error()}, nil
					}
					return nil, err
				}
				return usage, nil
			},
		),
		tool.NewFunctionTool(
			"list_agents",
			"List all registered agents, optionally merged with agents deployed on Vertex AI.",
			tool.ObjectSchema(map[string]any{
				"include_deployed": map[string]any{"type": "boolean", "description": "Also list agents deployed on the cloud provider."},
			}),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[listAgentsParams](args)
				if err != nil {
					return nil, err
				}
				return s.ListAgents(ctx, params.IncludeDeployed)
			},
		),
		tool.NewFunctionTool(
			"delete_agent",
			"Delete an agent and all of its execution records.",
			tool.ObjectSchema(map[string]any{
				"agent_id": map[string]any{"type": "string", "description": "Agent to delete."},
			}, "agent_id"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[agentIDParams](args)
				if err != nil {
					return nil, err
				}
				if err := s.DeleteAgent(ctx, params.AgentID); err != nil {
					return nil, err
				}
				return map[string]any{"deleted": params.AgentID}, nil
			},
		),
		tool.NewFunctionTool(
			"get_fleet_overview",
			"Summarize usage and success rates across every registered agent.",
			tool.ObjectSchema(nil),
			func(ctx context.Context, args map[string]any) (any, error) {
				return s.Overview(ctx)
			},
		),
	}
}

// NewServer returns an MCP server exposing s's tools.
func NewServer(s *Service, opts ...mcp.ServerOption) (*mcp.Server, error) {
	srv := mcp.NewServer(ServiceName, ServiceVersion, opts...)
	if err := srv.Register(Tools(s)...); err != nil {
		return nil, err
	}
	return srv, nil
}
