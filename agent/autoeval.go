// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/go-a2a/agentops/evalset"
	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/tool"
	"github.com/go-a2a/agentops/types"
)

const autoEvalDescription = "An AI agent that generates evaluation sets for agents dynamically and runs regression suites against them, reporting pass rates per category."

var autoEvalInstruction = heredoc.Doc(`
	You are an AutoEvalAgent that creates evaluation sets for agents and
	runs regression tests against them.

	Your capabilities:
	1. Create the full evaluation suite for a new agent with
	   create_eval_set_for_new_agent: positive, negative, adversarial and
	   stress sets are generated in one call. Existing sets are skipped
	   unless force_regenerate is true.
	2. Generate one category with generate_eval_set; the count defaults
	   per category when omitted.
	3. Run regression tests with run_regression_test: pass set_type to run
	   one category, omit it to run every stored set. The summary reports
	   total tests, passed, failed and the pass rate.
	4. List the agents known to the inventory with
	   list_agents_from_inventory before generating, to confirm the agent
	   is registered.

	Report generation and run outcomes with their status. A partial
	success means some sets failed; relay the per-set errors so the
	operator can retry just those.
`)

type createEvalArgs struct {
	AgentID         string `json:"agent_id"`
	ForceRegenerate bool   `json:"force_regenerate"`
}

type generateEvalArgs struct {
	AgentID         string `json:"agent_id"`
	SetType         string `json:"set_type"`
	Count           int    `json:"count"`
	ForceRegenerate bool   `json:"force_regenerate"`
}

type regressionArgs struct {
	AgentID string `json:"agent_id"`
	SetType string `json:"set_type"`
}

// NewAutoEvalAgent builds the evaluation agent over a generation
// service, a suite runner and the inventory client.
func NewAutoEvalAgent(svc *evalset.Service, runner *evalset.Runner, inventory *mcp.Client, opts ...Option) (*Agent, error) {
	tools := []types.Tool{
		tool.NewFunctionTool(
			"create_eval_set_for_new_agent",
			"Generate all four evaluation set categories for an agent, skipping sets that already exist.",
			tool.ObjectSchema(map[string]any{
				"agent_id":         map[string]any{"type": "string", "description": "Agent to generate suites for."},
				"force_regenerate": map[string]any{"type": "boolean", "description": "Regenerate sets that already exist."},
			}, "agent_id"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[createEvalArgs](args)
				if err != nil {
					return nil, err
				}
				result, err := svc.CreateForAgent(ctx, params.AgentID, params.ForceRegenerate)
				if err != nil {
					out := degraded(err, inventoryService)
					out["agent_id"] = params.AgentID
					return out, nil
				}
				return result, nil
			},
		),
		tool.NewFunctionTool(
			"generate_eval_set",
			"Generate one evaluation set category for an agent, skipping it when already stored.",
			tool.ObjectSchema(map[string]any{
				"agent_id":         map[string]any{"type": "string", "description": "Agent to generate the set for."},
				"set_type":         map[string]any{"type": "string", "description": "Category: positive, negative, adversarial or stress."},
				"count":            map[string]any{"type": "integer", "description": "Cases to generate; defaults per category."},
				"force_regenerate": map[string]any{"type": "boolean", "description": "Regenerate even when the set exists."},
			}, "agent_id", "set_type"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[generateEvalArgs](args)
				if err != nil {
					return nil, err
				}
				result, err := svc.GenerateSet(ctx, &evalset.GenerateRequest{
					AgentID:         params.AgentID,
					Category:        types.EvalCategory(params.SetType),
					Count:           params.Count,
					ForceRegenerate: params.ForceRegenerate,
				})
				if err != nil {
					out := degraded(err, inventoryService)
					out["agent_id"] = params.AgentID
					out["set_type"] = params.SetType
					return out, nil
				}
				return result, nil
			},
		),
		tool.NewFunctionTool(
			"run_regression_test",
			"Run stored evaluation sets against an agent and report pass/fail counts and the pass rate.",
			tool.ObjectSchema(map[string]any{
				"agent_id": map[string]any{"type": "string", "description": "Agent to test."},
				"set_type": map[string]any{"type": "string", "description": "Category to run; omit to run every stored set."},
			}, "agent_id"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[regressionArgs](args)
				if err != nil {
					return nil, err
				}
				result, err := runRegression(ctx, runner, params)
				if err != nil {
					out := degraded(err, inventoryService)
					out["agent_id"] = params.AgentID
					return out, nil
				}
				return result, nil
			},
		),
		tool.NewFunctionTool(
			"list_agents_from_inventory",
			"List the agents registered in the inventory.",
			tool.ObjectSchema(nil),
			func(ctx context.Context, args map[string]any) (any, error) {
				return inventoryAgents(ctx, inventory), nil
			},
		),
	}

	return New("AutoEvalAgent", autoEvalDescription, autoEvalInstruction, tools, opts...)
}

// runRegression runs one category or, with no set_type, every stored
// set.
func runRegression(ctx context.Context, runner *evalset.Runner, params *regressionArgs) (any, error) {
	if params.SetType != "" {
		return runner.Run(ctx, params.AgentID, types.EvalCategory(params.SetType))
	}
	return runner.RunAll(ctx, params.AgentID)
}

// inventoryAgents lists registered agents through the inventory client.
func inventoryAgents(ctx context.Context, client *mcp.Client) map[string]any {
	res, err := client.CallTool(ctx, "list_agents", map[string]any{"include_deployed": false})
	if err != nil {
		result := degraded(err, inventoryService)
		result["agents"] = []any{}
		return result
	}

	agents, _ := res["agents"].([]any)
	return map[string]any{
		"status":      "success",
		"agents":      agents,
		"total_count": len(agents),
	}
}
