// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-a2a/agentops/tokenstats"
	"github.com/go-a2a/agentops/types"
)

// fakeCounter satisfies tokenstats.Counter with canned responses.
type fakeCounter struct {
	tokens   int
	countErr error
	reply    string
	genErr   error
}

var _ tokenstats.Counter = (*fakeCounter)(nil)

func (f *fakeCounter) CountTokens(ctx context.Context, model, prompt string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.tokens, nil
}

func (f *fakeCounter) GenerateContent(ctx context.Context, model, prompt string) (*tokenstats.GenerateResult, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	return &tokenstats.GenerateResult{Text: f.reply, InputTokens: 10, OutputTokens: 20}, nil
}

func TestTokenCostAgentTools(t *testing.T) {
	t.Parallel()

	a, err := NewTokenCostAgent(&fakeCounter{tokens: 100}, nil)
	if err != nil {
		t.Fatalf("NewTokenCostAgent() error = %v", err)
	}

	want := []string{"calculate_token_cost_from_counts", "check_vertex_ai_health", "get_token_stats"}
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

func TestGetTokenStats(t *testing.T) {
	t.Parallel()

	a, err := NewTokenCostAgent(&fakeCounter{tokens: 2000}, nil)
	if err != nil {
		t.Fatalf("NewTokenCostAgent() error = %v", err)
	}

	result := callMap(t, a, "get_token_stats", map[string]any{
		"prompt": "analyze this text",
		"model":  "gemini-2.5-pro",
	})

	if result["status"] != "success" {
		t.Fatalf("status = %v, want success: %v", result["status"], result)
	}
	if got := result["input_tokens"]; got != 2000 {
		t.Errorf("input_tokens = %v, want 2000", got)
	}
	if got := result["estimated_cost_usd"]; got != 0.0025 {
		t.Errorf("estimated_cost_usd = %v, want 0.0025", got)
	}
	if got := result["input_price_per_m"]; got != 1.25 {
		t.Errorf("input_price_per_m = %v, want 1.25", got)
	}
	if got := result["note"]; got != "" {
		t.Errorf("note = %q, want empty", got)
	}
}

func TestGetTokenStatsDefaultModel(t *testing.T) {
	t.Parallel()

	a, err := NewTokenCostAgent(&fakeCounter{tokens: 2000}, nil)
	if err != nil {
		t.Fatalf("NewTokenCostAgent() error = %v", err)
	}

	result := callMap(t, a, "get_token_stats", map[string]any{"prompt": "analyze this text"})

	if got := result["model"]; got != "gemini-1.5-flash" {
		t.Errorf("model = %v, want gemini-1.5-flash", got)
	}
	if got := result["estimated_cost_usd"]; got != 0.00015 {
		t.Errorf("estimated_cost_usd = %v, want 0.00015", got)
	}
}

func TestGetTokenStatsUnknownModel(t *testing.T) {
	t.Parallel()

	a, err := NewTokenCostAgent(&fakeCounter{tokens: 1000}, nil)
	if err != nil {
		t.Fatalf("NewTokenCostAgent() error = %v", err)
	}

	result := callMap(t, a, "get_token_stats", map[string]any{
		"prompt": "analyze this text",
		"model":  "claude-3",
	})

	note, _ := result["note"].(string)
	if !strings.Contains(note, "not in pricing table") {
		t.Errorf("note = %q, want fallback note", note)
	}
	if got := result["input_price_per_m"]; got != 0.075 {
		t.Errorf("input_price_per_m = %v, want fallback 0.075", got)
	}
}

func TestGetTokenStatsCountError(t *testing.T) {
	t.Parallel()

	a, err := NewTokenCostAgent(&fakeCounter{countErr: errors.New("boom")}, nil)
	if err != nil {
		t.Fatalf("NewTokenCostAgent() error = %v", err)
	}

	result := callMap(t, a, "get_token_stats", map[string]any{"prompt": "analyze this text"})

	if result["status"] != "error" {
		t.Fatalf("status = %v, want error", result["status"])
	}
	if got := result["error_message"]; got != "Error counting tokens with Vertex AI: boom" {
		t.Errorf("error_message = %q, want count failure", got)
	}
}

func TestCalculateTokenCostFromCounts(t *testing.T) {
	t.Parallel()

	a, err := NewTokenCostAgent(&fakeCounter{}, nil)
	if err != nil {
		t.Fatalf("NewTokenCostAgent() error = %v", err)
	}

	result := callMap(t, a, "calculate_token_cost_from_counts", map[string]any{
		"input_tokens":  1_000_000,
		"output_tokens": 1_000_000,
		"model":         "gemini-2.5-flash",
	})

	if result["status"] != "success" {
		t.Fatalf("status = %v, want success: %v", result["status"], result)
	}
	if got := result["input_cost_usd"]; got != 0.30 {
		t.Errorf("input_cost_usd = %v, want 0.30", got)
	}
	if got := result["output_cost_usd"]; got != 2.50 {
		t.Errorf("output_cost_usd = %v, want 2.50", got)
	}
	if got := result["total_cost_usd"]; got != 2.80 {
		t.Errorf("total_cost_usd = %v, want 2.80", got)
	}
	if got := result["total_tokens"]; got != 2_000_000 {
		t.Errorf("total_tokens = %v, want 2000000", got)
	}
}

func TestCalculateTokenCostLongContext(t *testing.T) {
	t.Parallel()

	a, err := NewTokenCostAgent(&fakeCounter{}, nil)
	if err != nil {
		t.Fatalf("NewTokenCostAgent() error = %v", err)
	}

	result := callMap(t, a, "calculate_token_cost_from_counts", map[string]any{
		"input_tokens":  300_000,
		"output_tokens": 100_000,
		"model":         "gemini-2.5-pro",
	})

	// 300k input tokens is past the 200k threshold, so the long-context
	// rates apply.
	if got := result["input_price_per_m"]; got != 2.50 {
		t.Errorf("input_price_per_m = %v, want long-context 2.50", got)
	}
	if got := result["input_cost_usd"]; got != 0.75 {
		t.Errorf("input_cost_usd = %v, want 0.75", got)
	}
	if got := result["output_cost_usd"]; got != 1.50 {
		t.Errorf("output_cost_usd = %v, want 1.50", got)
	}
	if got := result["total_cost_usd"]; got != 2.25 {
		t.Errorf("total_cost_usd = %v, want 2.25", got)
	}
}

func TestCalculateTokenCostNegativeCounts(t *testing.T) {
	t.Parallel()

	a, err := NewTokenCostAgent(&fakeCounter{}, nil)
	if err != nil {
		t.Fatalf("NewTokenCostAgent() error = %v", err)
	}

	_, err = a.Call(t.Context(), "calculate_token_cost_from_counts", map[string]any{
		"input_tokens":  -1,
		"output_tokens": 10,
	})
	var verr *types.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Call() error = %v, want *types.ValidationError", err)
	}
}

func TestCheckVertexAIHealth(t *testing.T) {
	t.Parallel()

	a, err := NewTokenCostAgent(&fakeCounter{tokens: 1}, nil)
	if err != nil {
		t.Fatalf("NewTokenCostAgent() error = %v", err)
	}

	result := callMap(t, a, "check_vertex_ai_health", nil)
	if result["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", result["status"])
	}
	if result["service"] != "Vertex AI" {
		t.Errorf("service = %v, want Vertex AI", result["service"])
	}

	a, err = NewTokenCostAgent(&fakeCounter{countErr: errors.New("permission denied")}, nil)
	if err != nil {
		t.Fatalf("NewTokenCostAgent() error = %v", err)
	}

	result = callMap(t, a, "check_vertex_ai_health", nil)
	if result["status"] != "unhealthy" {
		t.Errorf("status = %v, want unhealthy", result["status"])
	}
	if got := result["error_message"]; got != "permission denied" {
		t.Errorf("error_message = %q, want permission denied", got)
	}
}
