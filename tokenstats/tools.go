// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tokenstats

import (
	"context"

	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/tool"
	"github.com/go-a2a/agentops/types"
)

const (
	// ServiceName identifies the tokenstats MCP server.
	ServiceName = "tokenstats"

	// ServiceVersion is reported on initialize and GET /.
	ServiceVersion = "1.0.0"
)

// Tools returns the MCP tool bindings for s.
func Tools(s *Service) []types.Tool {
	return []types.Tool{
		tool.NewFunctionTool(
			"tokenize",
			"Count prompt tokens via Gemini and report output estimates, context head-room and USD cost.",
			tool.ObjectSchema(map[string]any{
				"model":                map[string]any{"type": "string", "description": "Model selecting tokenizer and price row."},
				"prompt":               map[string]any{"type": "string", "description": "Text to analyze."},
				"generate":             map[string]any{"type": "boolean", "description": "Also generate and report actual output tokens and cost."},
				"context_cache_hit":    map[string]any{"type": "boolean", "description": "Bill part of the prompt at the cached-input rate."},
				"context_cache_tokens": map[string]any{"type": "integer", "description": "Cached share of the prompt in tokens."},
			}, "prompt"),
			func(ctx context.Context, args map[string]any) (any, error) {
				req, err := tool.DecodeArgs[Request](args)
				if err != nil {
					return nil, err
				}
				return s.Tokenize(ctx, req)
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
