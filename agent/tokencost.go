// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/go-a2a/agentops/pricing"
	"github.com/go-a2a/agentops/tokenstats"
	"github.com/go-a2a/agentops/tool"
	"github.com/go-a2a/agentops/types"
)

const tokenCostDescription = "An AI agent that analyzes token usage and calculates costs in USD. Counts tokens through the Gemini API directly and prices them with the static per-model table; no MCP server is needed."

var tokenCostInstruction = heredoc.Doc(`
	You are a TokenCostAgent that analyzes token usage and calculates
	costs in USD.

	You count tokens through the Gemini API directly and price them with
	a local per-model table. You do not need an external MCP server.

	Your capabilities:
	1. Estimate token usage for a prompt with get_token_stats: reports the
	   input token count, the estimated input cost and the price row used.
	2. Calculate cost from known token counts with
	   calculate_token_cost_from_counts: reports a full input/output cost
	   breakdown.
	3. Diagnose Gemini API problems with check_vertex_ai_health.

	Format token counts and costs in a readable way, and always name the
	model the prices belong to. When a model is missing from the price
	table, relay the fallback note.
`)

type tokenStatsArgs struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

type tokenCountArgs struct {
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	Model        string `json:"model"`
}

// NewTokenCostAgent builds the agent that counts tokens through counter
// and prices them with table. A nil table uses the built-in prices.
func NewTokenCostAgent(counter tokenstats.Counter, table *pricing.Table, opts ...Option) (*Agent, error) {
	if table == nil {
		table = pricing.NewTable()
	}

	tools := []types.Tool{
		tool.NewFunctionTool(
			"get_token_stats",
			"Count the tokens of a prompt via the Gemini API and estimate its input cost in USD.",
			tool.ObjectSchema(map[string]any{
				"prompt": map[string]any{"type": "string", "description": "Text to analyze."},
				"model":  map[string]any{"type": "string", "description": "Model selecting tokenizer and price row."},
			}, "prompt"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[tokenStatsArgs](args)
				if err != nil {
					return nil, err
				}
				return tokenStats(ctx, counter, table, params), nil
			},
		),
		tool.NewFunctionTool(
			"calculate_token_cost_from_counts",
			"Calculate the USD cost of known input and output token counts from the price table.",
			tool.ObjectSchema(map[string]any{
				"input_tokens":  map[string]any{"type": "integer", "description": "Prompt token count."},
				"output_tokens": map[string]any{"type": "integer", "description": "Completion token count."},
				"model":         map[string]any{"type": "string", "description": "Model selecting the price row."},
			}, "input_tokens", "output_tokens"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[tokenCountArgs](args)
				if err != nil {
					return nil, err
				}
				if params.InputTokens < 0 || params.OutputTokens < 0 {
					return nil, &types.ValidationError{Field: "input_tokens", Message: "token counts must be non-negative"}
				}
				return costFromCounts(table, params), nil
			},
		),
		tool.NewFunctionTool(
			"check_vertex_ai_health",
			"Check whether the Gemini API is reachable by counting tokens on a probe prompt.",
			tool.ObjectSchema(nil),
			func(ctx context.Context, args map[string]any) (any, error) {
				return vertexHealth(ctx, counter), nil
			},
		),
	}

	return New("TokenCostAgent", tokenCostDescription, tokenCostInstruction, tools, opts...)
}

// tokenStats counts prompt tokens and prices the input side.
func tokenStats(ctx context.Context, counter tokenstats.Counter, table *pricing.Table, params *tokenStatsArgs) map[string]any {
	model := params.Model
	if model == "" {
		model = pricing.DefaultModel
	}

	tokens, err := counter.CountTokens(ctx, model, params.Prompt)
	if err != nil {
		return map[string]any{
			"status":        "error",
			"error_message": fmt.Sprintf("Error counting tokens with Vertex AI: %v", err),
		}
	}

	price, note := table.Lookup(model)
	inPerM, outPerM := price.Rates(tokens)
	return map[string]any{
		"status":             "success",
		"input_tokens":       tokens,
		"estimated_cost_usd": round6(float64(tokens) / 1e6 * inPerM),
		"model":              model,
		"input_price_per_m":  inPerM,
		"output_price_per_m": outPerM,
		"note":               note,
	}
}

// costFromCounts prices known token counts from the table alone.
func costFromCounts(table *pricing.Table, params *tokenCountArgs) map[string]any {
	model := params.Model
	if model == "" {
		model = pricing.DefaultModel
	}

	price, note := table.Lookup(model)
	inPerM, outPerM := price.Rates(params.InputTokens)
	inputCost := float64(params.InputTokens) / 1e6 * inPerM
	outputCost := float64(params.OutputTokens) / 1e6 * outPerM
	return map[string]any{
		"status":             "success",
		"input_tokens":       params.InputTokens,
		"output_tokens":      params.OutputTokens,
		"total_tokens":       params.InputTokens + params.OutputTokens,
		"input_cost_usd":     round6(inputCost),
		"output_cost_usd":    round6(outputCost),
		"total_cost_usd":     round6(inputCost + outputCost),
		"model":              model,
		"input_price_per_m":  inPerM,
		"output_price_per_m": outPerM,
		"note":               note,
	}
}

// vertexHealth probes the Gemini API with a trivial token count.
func vertexHealth(ctx context.Context, counter tokenstats.Counter) map[string]any {
	if _, err := counter.CountTokens(ctx, tokenstats.DefaultModel, "test"); err != nil {
		return map[string]any{
			"status":        "unhealthy",
			"service":       "Vertex AI",
			"error_message": err.Error(),
		}
	}
	return map[string]any{
		"status":  "healthy",
		"service": "Vertex AI",
		"model":   tokenstats.DefaultModel,
	}
}
