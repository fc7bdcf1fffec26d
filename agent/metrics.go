// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/tool"
	"github.com/go-a2a/agentops/types"
)

// inventoryService names the inventory server in operator-facing
// messages.
const inventoryService = "Agent Inventory"

const metricsDescription = "An AI agent that retrieves and analyzes agent usage statistics and metrics from the Agent Inventory MCP server, including usage patterns, latency and failure rates for local and deployed agents."

var metricsInstruction = heredoc.Doc(`
	You are a MetricsAgent that retrieves and analyzes agent usage
	statistics from the Agent Inventory MCP server.

	Your capabilities:
	1. Retrieve usage statistics for a specific agent with get_agent_usage:
	   total runs, failures, average input/output tokens, latency
	   percentiles (p50, p95) and the derived success rate.
	2. List registered agents with list_agents; pass include_deployed=true
	   to also list agents deployed on Vertex AI.
	3. Retrieve usage for the whole fleet in one call with
	   get_all_agents_usage.
	4. Diagnose connectivity problems with check_inventory_health.

	Present statistics clearly with proper units, call out unusual failure
	rates or latency, and when the inventory server is unreachable, relay
	the error message and suggest starting the server.
`)

type usageArgs struct {
	AgentID string `json:"agent_id"`
}

type listArgs struct {
	IncludeDeployed bool `json:"include_deployed"`
}

// NewMetricsAgent wraps an inventory client in the agent that reports
// per-agent and fleet usage statistics.
func NewMetricsAgent(client *mcp.Client, opts ...Option) (*Agent, error) {
	tools := []types.Tool{
		tool.NewFunctionTool(
			"get_agent_usage",
			"Get usage statistics for one agent: runs, failures, token averages, latency percentiles and success rate.",
			tool.ObjectSchema(map[string]any{
				"agent_id": map[string]any{"type": "string", "description": "Agent to query."},
			}, "agent_id"),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[usageArgs](args)
				if err != nil {
					return nil, err
				}
				return agentUsage(ctx, client, params.AgentID), nil
			},
		),
		tool.NewFunctionTool(
			"list_agents",
			"List all agents in the inventory, optionally including agents deployed on Vertex AI.",
			tool.ObjectSchema(map[string]any{
				"include_deployed": map[string]any{"type": "boolean", "description": "Also list deployed agents."},
			}),
			func(ctx context.Context, args map[string]any) (any, error) {
				params, err := tool.DecodeArgs[listArgs](args)
				if err != nil {
					return nil, err
				}
				return listAgents(ctx, client, params.IncludeDeployed), nil
			},
		),
		tool.NewFunctionTool(
			"get_all_agents_usage",
			"Get usage statistics for every registered agent in one batch.",
			tool.ObjectSchema(nil),
			func(ctx context.Context, args map[string]any) (any, error) {
				return fleetUsage(ctx, client), nil
			},
		),
		tool.NewFunctionTool(
			"check_inventory_health",
			"Check whether the Agent Inventory MCP server is running and healthy.",
			tool.ObjectSchema(nil),
			func(ctx context.Context, args map[string]any) (any, error) {
				return serverHealth(ctx, client, inventoryService), nil
			},
		),
	}

	return New("MetricsAgent", metricsDescription, metricsInstruction, tools, opts...)
}

// agentUsage queries one agent's usage and derives its success rate.
func agentUsage(ctx context.Context, client *mcp.Client, agentID string) map[string]any {
	usage, err := client.CallTool(ctx, "get_agent_usage", map[string]any{"agent_id": agentID})
	if err != nil {
		result := degraded(err, inventoryService)
		result["agent_id"] = agentID
		return result
	}

	// The server reports an unknown agent as a regular result with
	// found=false rather than a tool error.
	if found, ok := usage["found"].(bool); ok && !found {
		return map[string]any{
			"status":        "error",
			"error_message": fmt.Sprintf("Agent '%s' not found in inventory. Make sure the agent is registered.", agentID),
			"agent_id":      agentID,
		}
	}

	result := map[string]any{"status": "success", "agent_id": agentID}
	for k, v := range usage {
		result[k] = v
	}
	result["success_rate"] = successRate(usage)
	return result
}

// listAgents lists registered agents, merging deployed agents when the
// server discovered any.
func listAgents(ctx context.Context, client *mcp.Client, includeDeployed bool) map[string]any {
	res, err := client.CallTool(ctx, "list_agents", map[string]any{"include_deployed": includeDeployed})
	if err != nil {
		result := degraded(err, inventoryService)
		result["agents"] = []any{}
		return result
	}

	agents, _ := res["agents"].([]any)
	result := map[string]any{
		"status":      "success",
		"agents":      agents,
		"total_count": len(agents),
	}
	if deployed, ok := res["deployed"].([]any); ok {
		result["deployed_agents"] = deployed
		result["deployed_count"] = len(deployed)
	}
	if msg, ok := res["discovery_error"].(string); ok && msg != "" {
		result["discovery_error"] = msg
	}
	return result
}

// fleetUsage relays the fleet overview as a batch usage report.
func fleetUsage(ctx context.Context, client *mcp.Client) map[string]any {
	overview, err := client.CallTool(ctx, "get_fleet_overview", nil)
	if err != nil {
		return degraded(err, inventoryService)
	}

	agents, _ := overview["agents"].([]any)
	result := map[string]any{
		"status":       "success",
		"agents_usage": agents,
		"count":        len(agents),
	}
	if summary, ok := overview["summary"]; ok {
		result["summary"] = summary
	}
	return result
}

// serverHealth probes an MCP server's health endpoint and reports the
// outcome in the health result shape.
func serverHealth(ctx context.Context, client *mcp.Client, service string) map[string]any {
	result := map[string]any{
		"server_url":  client.BaseURL(),
		"server_type": client.Service(),
	}

	if err := client.Health(ctx); err != nil {
		var unavailable *types.UnavailableError
		if errors.As(err, &unavailable) {
			result["status"] = "unhealthy"
			result["error_message"] = cannotConnect(service, unavailable.URL)
			return result
		}
		result["status"] = "error"
		result["error_message"] = fmt.Sprintf("Error checking server health: %v", err)
		return result
	}

	result["status"] = "healthy"
	return result
}

// successRate derives the percentage of successful runs from the raw
// usage counters. An agent with no recorded runs reports 0.
func successRate(usage map[string]any) float64 {
	total, _ := usage["total_runs"].(float64)
	failures, _ := usage["failures"].(float64)
	if total <= 0 {
		return 0
	}
	return round2((total - failures) / total * 100)
}
