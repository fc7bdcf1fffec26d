// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package reasoningcost

import (
	"context"

	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/tool"
	"github.com/go-a2a/agentops/types"
)

const (
	// ServiceName identifies the reasoning-cost MCP server.
	ServiceName = "reasoning-cost"

	// ServiceVersion is reported on initialize and GET /.
	ServiceVersion = "1.0.0"
)

type estimateParams struct {
	Trace *types.ReasoningTrace `json:"trace"`
}

type estimateBatchParams struct {
	Traces []*types.ReasoningTrace `json:"traces"`
}

// traceSchema describes one reasoning trace in tool input schemas.
func traceSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"steps":           map[string]any{"type": "integer", "description": "Number of reasoning steps."},
			"tool_calls":      map[string]any{"type": "integer", "description": "Number of tool invocations."},
			"tokens_in_trace": map[string]any{"type": "integer", "description": "Total token count across the trace."},
			"input_tokens":    map[string]any{"type": "integer", "description": "Optional prompt tokens for USD conversion."},
			"output_tokens":   map[string]any{"type": "integer", "description": "Optional completion tokens for USD conversion."},
			"model":           map[string]any{"type": "string", "description": "Optional model name selecting the price row."},
		},
		"required": []string{"steps", "tool_calls", "tokens_in_trace"},
	}
}

// Tools returns the MCP tool bindings for s.
func Tools(s *Service) []types.Tool {
	return []types.Tool{
		tool.NewFunctionTool(
			"estimate_reasoning_cost",
			"Estimate the cost of one reasoning trace from its step, tool call and token counts.",
			tool.ObjectSchema(map[string]any{
				"trace": traceSchema(),
			}, "trace"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[estimateParams](args)
				if err != nil {
					return nil, err
				}
				return s.Estimate(ctx, params.Trace)
			},
		),
		tool.NewFunctionTool(
			"estimate_multiple_traces",
			"Estimate reasoning cost for a batch of traces; per-trace failures are reported in-line.",
			tool.ObjectSchema(map[string]any{
				"traces": map[string]any{
					"type":        "array",
					"items":       traceSchema(),
					"description": "Traces to estimate, scored independently.",
				},
			}, "traces"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[estimateBatchParams](args)
				if err != nil {
					return nil, err
				}
				return s.EstimateBatch(ctx, params.Traces)
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
