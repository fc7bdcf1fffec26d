// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/tool"
	"github.com/go-a2a/agentops/types"
)

// reasoningCostService names the reasoning-cost server in
// operator-facing messages.
const reasoningCostService = "Reasoning Cost"

const reasoningCostDescription = "An AI agent that scores reasoning traces through the Reasoning Cost MCP server, classifying each trace as efficient, moderate or runaway and attaching tuning guidance."

var reasoningCostInstruction = heredoc.Doc(`
	You are a ReasoningCostAgent that analyzes the cost of agent reasoning
	traces.

	Your capabilities:
	1. Score a single trace with analyze_trace: pass steps, tool_calls and
	   tokens_in_trace, plus optional input_tokens, output_tokens and model
	   for a USD estimate.
	2. Score a batch with analyze_traces; each trace is scored
	   independently and per-trace validation errors are reported in-line.

	Every analysis carries a cost band (efficient, moderate or runaway)
	and an assessment sentence. Relay the band and the assessment, and for
	runaway traces suggest concrete reductions: fewer steps, fewer tool
	calls or a smaller context.
`)

// bandAssessment maps each cost band to the guidance sentence the agent
// attaches to its analyses.
var bandAssessment = map[string]string{
	string(types.CostBandEfficient): "Reasoning cost is efficient; no tuning needed.",
	string(types.CostBandModerate):  "Reasoning cost is moderate; watch trace growth on future runs.",
	string(types.CostBandRunaway):   "Runaway reasoning; consider capping steps or pruning tool calls.",
}

// NewReasoningCostAgent wraps a reasoning-cost client in the agent that
// scores reasoning traces.
func NewReasoningCostAgent(client *mcp.Client, opts ...Option) (*Agent, error) {
	tools := []types.Tool{
		tool.NewFunctionTool(
			"analyze_trace",
			"Score one reasoning trace and classify it as efficient, moderate or runaway.",
			tool.ObjectSchema(map[string]any{
				"steps":           map[string]any{"type": "integer", "description": "Number of reasoning steps."},
				"tool_calls":      map[string]any{"type": "integer", "description": "Number of tool invocations."},
				"tokens_in_trace": map[string]any{"type": "integer", "description": "Total token count across the trace."},
				"input_tokens":    map[string]any{"type": "integer", "description": "Optional prompt tokens for USD conversion."},
				"output_tokens":   map[string]any{"type": "integer", "description": "Optional completion tokens for USD conversion."},
				"model":           map[string]any{"type": "string", "description": "Optional model name selecting the price row."},
			}, "steps", "tool_calls", "tokens_in_trace"),
			func(ctx context.Context, args map[string]any) (any, error) {
				return analyzeTrace(ctx, client, args), nil
			},
		),
		tool.NewFunctionTool(
			"analyze_traces",
			"Score a batch of reasoning traces; each trace is classified independently.",
			tool.ObjectSchema(map[string]any{
				"traces": map[string]any{
					"type":        "array",
					"description": "Traces to score, each with steps, tool_calls and tokens_in_trace.",
					"items":       map[string]any{"type": "object"},
				},
			}, "traces"),
			func(ctx context.Context, args map[string]any) (any, error) {
				return analyzeTraces(ctx, client, args), nil
			},
		),
	}

	return New("ReasoningCostAgent", reasoningCostDescription, reasoningCostInstruction, tools, opts...)
}

// analyzeTrace scores one trace and attaches the band assessment.
func analyzeTrace(ctx context.Context, client *mcp.Client, args map[string]any) map[string]any {
	estimate, err := client.CallTool(ctx, "estimate_reasoning_cost", map[string]any{"trace": args})
	if err != nil {
		return degraded(err, reasoningCostService)
	}

	result := map[string]any{"status": "success"}
	for k, v := range estimate {
		result[k] = v
	}
	annotateBand(result)
	return result
}

// analyzeTraces scores a batch of traces, annotating each estimate.
func analyzeTraces(ctx context.Context, client *mcp.Client, args map[string]any) map[string]any {
	batch, err := client.CallTool(ctx, "estimate_multiple_traces", args)
	if err != nil {
		return degraded(err, reasoningCostService)
	}

	result := map[string]any{"status": "success"}
	for k, v := range batch {
		result[k] = v
	}
	items, _ := result["estimates"].([]any)
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if estimate, ok := entry["estimate"].(map[string]any); ok {
			annotateBand(estimate)
		}
	}
	return result
}

// annotateBand adds the assessment sentence matching the estimate's
// band, when it has one.
func annotateBand(estimate map[string]any) {
	band, ok := estimate["band"].(string)
	if !ok {
		return
	}
	if assessment, ok := bandAssessment[band]; ok {
		estimate["assessment"] = assessment
	}
}
