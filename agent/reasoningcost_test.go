// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/reasoningcost"
)

// startReasoningCost serves the reasoning-cost service over MCP and
// returns a client dialing it.
func startReasoningCost(t *testing.T) *mcp.Client {
	t.Helper()

	srv, err := reasoningcost.NewServer(reasoningcost.NewService())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return mcp.NewClient(reasoningcost.ServiceName, ts.URL)
}

func TestReasoningCostAgentTools(t *testing.T) {
	t.Parallel()

	a, err := NewReasoningCostAgent(startReasoningCost(t))
	if err != nil {
		t.Fatalf("NewReasoningCostAgent() error = %v", err)
	}

	want := []string{"analyze_trace", "analyze_traces"}
	tools := a.Tools()
	if len(tools) != len(want) {
		t.Fatalf("len(Tools()) = %d, want %d", len(tools), len(want))
	}
	for i, tl := range tools {
		if tl.Name() != want[i] {
			t.Errorf("tools[%d] = %q, want %q", i, tl.Name(), want[i])
		}
	}
}

func TestAnalyzeTraceEfficient(t *testing.T) {
	t.Parallel()

	a, err := NewReasoningCostAgent(startReasoningCost(t))
	if err != nil {
		t.Fatalf("NewReasoningCostAgent() error = %v", err)
	}

	result := callMap(t, a, "analyze_trace", map[string]any{
		"steps":           3,
		"tool_calls":      2,
		"tokens_in_trace": 310,
	})

	if result["status"] != "success" {
		t.Fatalf("status = %v, want success: %v", result["status"], result)
	}
	if got := result["cost_score"]; got != 0.46 {
		t.Errorf("cost_score = %v, want 0.46", got)
	}
	if got := result["band"]; got != "efficient" {
		t.Errorf("band = %v, want efficient", got)
	}
	if got := result["assessment"]; got != "Reasoning cost is efficient; no tuning needed." {
		t.Errorf("assessment = %q, want efficient guidance", got)
	}
}

func TestAnalyzeTraceRunaway(t *testing.T) {
	t.Parallel()

	a, err := NewReasoningCostAgent(startReasoningCost(t))
	if err != nil {
		t.Fatalf("NewReasoningCostAgent() error = %v", err)
	}

	result := callMap(t, a, "analyze_trace", map[string]any{
		"steps":           15,
		"tool_calls":      5,
		"tokens_in_trace": 10000,
	})

	if got := result["band"]; got != "runaway" {
		t.Fatalf("band = %v, want runaway: %v", got, result)
	}
	if got := result["expansion_factor"]; got != 3.0 {
		t.Errorf("expansion_factor = %v, want capped 3.0", got)
	}
	if got := result["assessment"]; got != "Runaway reasoning; consider capping steps or pruning tool calls." {
		t.Errorf("assessment = %q, want runaway guidance", got)
	}
}

func TestAnalyzeTraceWithPricing(t *testing.T) {
	t.Parallel()

	a, err := NewReasoningCostAgent(startReasoningCost(t))
	if err != nil {
		t.Fatalf("NewReasoningCostAgent() error = %v", err)
	}

	result := callMap(t, a, "analyze_trace", map[string]any{
		"steps":           2,
		"tool_calls":      1,
		"tokens_in_trace": 186,
		"input_tokens":    1_000_000,
		"output_tokens":   100_000,
		"model":           "gemini-2.5-flash",
	})

	if result["status"] != "success" {
		t.Fatalf("status = %v, want success: %v", result["status"], result)
	}
	if got := result["cost_usd"]; got != 0.55 {
		t.Errorf("cost_usd = %v, want 0.55", got)
	}
}

func TestAnalyzeTraceValidation(t *testing.T) {
	t.Parallel()

	a, err := NewReasoningCostAgent(startReasoningCost(t))
	if err != nil {
		t.Fatalf("NewReasoningCostAgent() error = %v", err)
	}

	result := callMap(t, a, "analyze_trace", map[string]any{
		"steps":           -1,
		"tool_calls":      0,
		"tokens_in_trace": 0,
	})

	if result["status"] != "error" {
		t.Fatalf("status = %v, want error: %v", result["status"], result)
	}
	msg, _ := result["error_message"].(string)
	if !strings.Contains(msg, "steps must be non-negative") {
		t.Errorf("error_message = %q, want steps validation", msg)
	}
}

func TestAnalyzeTraces(t *testing.T) {
	t.Parallel()

	a, err := NewReasoningCostAgent(startReasoningCost(t))
	if err != nil {
		t.Fatalf("NewReasoningCostAgent() error = %v", err)
	}

	result := callMap(t, a, "analyze_traces", map[string]any{
		"traces": []any{
			map[string]any{"steps": 3, "tool_calls": 2, "tokens_in_trace": 310},
			map[string]any{"steps": -1, "tool_calls": 0, "tokens_in_trace": 0},
		},
	})

	if result["status"] != "success" {
		t.Fatalf("status = %v, want success: %v", result["status"], result)
	}
	if got := result["count"]; got != float64(2) {
		t.Errorf("count = %v, want 2", got)
	}

	items, ok := result["estimates"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("estimates = %v, want 2 entries", result["estimates"])
	}

	first, _ := items[0].(map[string]any)
	estimate, _ := first["estimate"].(map[string]any)
	if estimate == nil || estimate["assessment"] != "Reasoning cost is efficient; no tuning needed." {
		t.Errorf("estimates[0] = %v, want annotated efficient estimate", items[0])
	}

	second, _ := items[1].(map[string]any)
	if msg, _ := second["error"].(string); !strings.Contains(msg, "steps") {
		t.Errorf("estimates[1] error = %v, want steps validation", second)
	}
}

func TestAnalyzeTraceUnreachable(t *testing.T) {
	t.Parallel()

	srv, err := reasoningcost.NewServer(reasoningcost.NewService())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	ts := httptest.NewServer(srv)
	url := ts.URL
	ts.Close()

	a, err := NewReasoningCostAgent(mcp.NewClient(reasoningcost.ServiceName, url))
	if err != nil {
		t.Fatalf("NewReasoningCostAgent() error = %v", err)
	}

	result := callMap(t, a, "analyze_trace", map[string]any{
		"steps":           1,
		"tool_calls":      0,
		"tokens_in_trace": 10,
	})

	if result["status"] != "error" {
		t.Fatalf("status = %v, want error", result["status"])
	}
	want := fmt.Sprintf("Cannot connect to Reasoning Cost MCP server at %s. Make sure the server is running.", url)
	if result["error_message"] != want {
		t.Errorf("error_message = %q, want %q", result["error_message"], want)
	}
}
