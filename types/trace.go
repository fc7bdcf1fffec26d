// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

// CostBand buckets a cost score into a relative expense class.
type CostBand string

const (
	// CostBandEfficient covers cost scores below 0.6.
	CostBandEfficient CostBand = "efficient"

	// CostBandModerate covers cost scores in [0.6, 1.0).
	CostBandModerate CostBand = "moderate"

	// CostBandRunaway covers cost scores of 1.0 and above.
	CostBandRunaway CostBand = "runaway"
)

// ReasoningTrace describes one agent reasoning run: how many reasoning
// steps and tool invocations it took and how many tokens the trace
// consumed. InputTokens, OutputTokens and Model are optional and only used
// for USD conversion.
type ReasoningTrace struct {
	// Steps is the number of reasoning steps in the trace.
	Steps int `json:"steps"`

	// ToolCalls is the number of tool invocations in the trace.
	ToolCalls int `json:"tool_calls"`

	// TokensInTrace is the total token count across the trace.
	TokensInTrace int `json:"tokens_in_trace"`

	// InputTokens is the optional prompt token count for USD conversion.
	InputTokens int `json:"input_tokens,omitempty"`

	// OutputTokens is the optional completion token count for USD conversion.
	OutputTokens int `json:"output_tokens,omitempty"`

	// Model selects the price table row for USD conversion.
	Model string `json:"model,omitempty"`
}

// CostEstimate is the computed expense of one reasoning trace. Estimates
// are ephemeral; they are computed per request and never persisted.
type CostEstimate struct {
	// ReasoningDepth echoes the trace's step count.
	ReasoningDepth int `json:"reasoning_depth"`

	// ToolInvocations echoes the trace's tool call count.
	ToolInvocations int `json:"tool_invocations"`

	// ExpansionFactor is the normalized tokens-per-reasoning-unit measure,
	// capped at 3.0 and rounded to 2 decimals.
	ExpansionFactor float64 `json:"expansion_factor"`

	// CostScore is the dimensionless relative cost, rounded to 2 decimals.
	CostScore float64 `json:"cost_score"`

	// Band classifies CostScore as efficient, moderate or runaway.
	Band CostBand `json:"band"`

	// CostUSD is the dollar cost when token counts and a model were
	// supplied, rounded to 6 decimals.
	CostUSD float64 `json:"cost_usd,omitempty"`

	// PricingNote is set when the price table had no row for the requested
	// model and default prices were used instead.
	PricingNote string `json:"pricing_note,omitempty"`
}

// BandFor classifies a cost score into its band.
func BandFor(score float64) CostBand {
	switch {
	case score < 0.6:
		return CostBandEfficient
	case score < 1.0:
		return CostBandModerate
	default:
		return CostBandRunaway
	}
}
