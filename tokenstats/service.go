// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tokenstats

import (
	"context"
	"log/slog"
	"math"
	"unicode/utf8"

	"github.com/go-a2a/agentops/pricing"
	"github.com/go-a2a/agentops/types"
)

const (
	// MaxInputTokens is the Gemini 2.5 Flash context window.
	MaxInputTokens = 1_048_576

	// MaxOutputTokens is the Gemini 2.5 Flash output ceiling; output
	// estimates are clamped to it.
	MaxOutputTokens = 65_536

	// outputRatio estimates the completion size as a fraction of the
	// prompt, calibrated for summary-style tasks.
	outputRatio = 0.4

	// cachedInputDiscount bills cached context at a quarter of the input
	// rate.
	cachedInputDiscount = 0.25
)

// DefaultModel is used when a request does not name one.
const DefaultModel = "gemini-2.5-flash"

// Request are the tokenize parameters.
type Request struct {
	// Model selects the tokenizer and price row; empty means the service
	// default.
	Model string `json:"model,omitempty"`

	// Prompt is the text to analyze.
	Prompt string `json:"prompt"`

	// Generate additionally runs the prompt and reports actual output
	// tokens and cost.
	Generate bool `json:"generate,omitempty"`

	// ContextCacheHit marks part of the prompt as served from context
	// cache, billed at the discounted input rate.
	ContextCacheHit bool `json:"context_cache_hit,omitempty"`

	// ContextCacheTokens is the cached share of the prompt. Counts beyond
	// the prompt size are clamped.
	ContextCacheTokens int `json:"context_cache_tokens,omitempty"`
}

// Service implements the TokenStats operations.
type Service struct {
	counter      Counter
	pricing      *pricing.Table
	defaultModel string
	logger       *slog.Logger
}

// ServiceOption configures a [Service].
type ServiceOption func(*Service)

// WithPricing replaces the default price table.
func WithPricing(table *pricing.Table) ServiceOption {
	return func(s *Service) {
		s.pricing = table
	}
}

// WithDefaultModel overrides [DefaultModel] for requests without one.
func WithDefaultModel(model string) ServiceOption {
	return func(s *Service) {
		s.defaultModel = model
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a TokenStats [Service] over counter.
func NewService(counter Counter, opts ...ServiceOption) *Service {
	s := &Service{
		counter:      counter,
		pricing:      pricing.NewTable(),
		defaultModel: DefaultModel,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Tokenize counts the prompt's tokens and derives the full
// [types.TokenCount] payload. An upstream tokenizer failure surfaces as a
// [types.UpstreamError] with the provider message passed through.
func (s *Service) Tokenize(ctx context.Context, req *Request) (*types.TokenCount, error) {
	switch {
	case req == nil:
		return nil, &types.ValidationError{Field: "request", Message: "request must not be nil"}
	case req.Prompt == "":
		return nil, &types.ValidationError{Field: "prompt", Message: "prompt must not be empty"}
	case req.ContextCacheTokens < 0:
		return nil, &types.ValidationError{Field: "context_cache_tokens", Message: "cached token count must not be negative"}
	}

	model := req.Model
	if model == "" {
		model = s.defaultModel
	}

	inputTokens, err := s.counter.CountTokens(ctx, model, req.Prompt)
	if err != nil {
		return nil, &types.UpstreamError{Provider: "gemini", Message: err.Error()}
	}

	stats := &types.TokenCount{
		Model:       model,
		InputTokens: inputTokens,
	}

	stats.EstimatedOutputTokens = int(float64(inputTokens) * outputRatio)
	if stats.EstimatedOutputTokens > MaxOutputTokens {
		stats.EstimatedOutputTokens = MaxOutputTokens
	}

	stats.MaxTokensRemaining = MaxInputTokens - inputTokens
	if stats.MaxTokensRemaining < 0 {
		stats.MaxTokensRemaining = 0
	}

	if inputTokens > 0 {
		chars := utf8.RuneCountInString(req.Prompt)
		stats.CompressionRatio = round2(float64(chars) / float64(inputTokens))
	}

	price, note := s.pricing.Lookup(model)
	stats.PricingNote = note

	billable, cached := cacheSplit(inputTokens, req)
	stats.CachedTokens = cached
	stats.EstimatedCostUSD = costWithCache(price, billable, cached, stats.EstimatedOutputTokens)

	if req.Generate {
		result, err := s.counter.GenerateContent(ctx, model, req.Prompt)
		if err != nil {
			return nil, &types.UpstreamError{Provider: "gemini", Message: err.Error()}
		}

		actualInput := result.InputTokens
		if actualInput == 0 {
			actualInput = inputTokens
		}
		stats.ActualOutputTokens = result.OutputTokens

		actualBillable, actualCached := cacheSplit(actualInput, req)
		stats.ActualCostUSD = costWithCache(price, actualBillable, actualCached, result.OutputTokens)

		s.logger.DebugContext(ctx, "Generated content for token stats",
			slog.String("model", model),
			slog.Int("output_tokens", result.OutputTokens),
			slog.Int("output_chars", len(result.Text)),
		)
	}

	s.logger.InfoContext(ctx, "Tokenized prompt",
		slog.String("model", model),
		slog.Int("input_tokens", inputTokens),
		slog.Int("estimated_output_tokens", stats.EstimatedOutputTokens),
	)

	return stats, nil
}

// cacheSplit divides the prompt tokens into full-rate and cached-rate
// shares.
func cacheSplit(inputTokens int, req *Request) (billable, cached int) {
	if !req.ContextCacheHit {
		return inputTokens, 0
	}
	cached = min(req.ContextCacheTokens, inputTokens)
	return inputTokens - cached, cached
}

// costWithCache prices one request whose cached context is billed at the
// discounted input rate. Tier selection uses the whole prompt size.
func costWithCache(price pricing.Price, billable, cached, output int) float64 {
	inPerM, outPerM := price.Rates(billable + cached)

	cost := float64(billable)/1e6*inPerM +
		float64(cached)/1e6*inPerM*cachedInputDiscount +
		float64(output)/1e6*outPerM
	return round6(cost)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
