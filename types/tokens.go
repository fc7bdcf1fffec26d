// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

// TokenCount is the result of tokenizing a prompt against a model,
// including the estimated and (optionally) actual cost of generating a
// completion for it.
type TokenCount struct {
	// Model is the model the prompt was tokenized against.
	Model string `json:"model"`

	// InputTokens is the tokenizer's count for the prompt.
	InputTokens int `json:"input_tokens"`

	// EstimatedOutputTokens is the projected completion size, derived from
	// InputTokens and capped at the model output limit.
	EstimatedOutputTokens int `json:"estimated_output_tokens"`

	// EstimatedCostUSD prices InputTokens plus EstimatedOutputTokens,
	// rounded to 6 decimals.
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`

	// MaxTokensRemaining is the remaining context window after the prompt.
	MaxTokensRemaining int `json:"max_tokens_remaining"`

	// CompressionRatio is prompt characters per token, rounded to 2
	// decimals; 0 when the prompt produced no tokens.
	CompressionRatio float64 `json:"compression_ratio"`

	// CachedTokens is the portion of the prompt billed at the cached-input
	// rate.
	CachedTokens int `json:"cached_tokens,omitempty"`

	// ActualOutputTokens is the real completion size when generation was
	// requested.
	ActualOutputTokens int `json:"actual_output_tokens,omitempty"`

	// ActualCostUSD prices InputTokens plus ActualOutputTokens when
	// generation was requested.
	ActualCostUSD float64 `json:"actual_cost_usd,omitempty"`

	// PricingNote is set when default prices were substituted for an
	// unknown model.
	PricingNote string `json:"pricing_note,omitempty"`
}
