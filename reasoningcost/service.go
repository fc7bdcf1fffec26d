// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package reasoningcost

import (
	"context"
	"log/slog"
	"math"

	"github.com/go-a2a/agentops/pricing"
	"github.com/go-a2a/agentops/types"
)

const (
	// baselineTokensPerUnit is the expected trace token count per reasoning
	// unit, where a unit is one step or one tool call. Traces are normalized
	// against it.
	baselineTokensPerUnit = 62.0

	// maxExpansionFactor caps the normalized expansion measure so a single
	// verbose trace cannot dominate the score.
	maxExpansionFactor = 3.0
)

// Cost score component weights.
const (
	stepWeight      = 0.04
	toolCallWeight  = 0.06
	expansionWeight = 0.22
)

// Service implements the ReasoningCost operations.
type Service struct {
	pricing *pricing.Table
	logger  *slog.Logger
}

// ServiceOption configures a [Service].
type ServiceOption func(*Service)

// WithPricing replaces the default price table.
func WithPricing(table *pricing.Table) ServiceOption {
	return func(s *Service) {
		s.pricing = table
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a ReasoningCost [Service] with the built-in price
// table unless [WithPricing] overrides it.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		pricing: pricing.NewTable(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Estimate scores one reasoning trace.
//
// The estimate is deterministic and monotonically non-decreasing in
// TokensInTrace at fixed step and tool counts. When the trace carries
// token splits, CostUSD is filled from the price table; an unknown model
// falls back to the default row and sets PricingNote.
func (s *Service) Estimate(ctx context.Context, trace *types.ReasoningTrace) (*types.CostEstimate, error) {
	switch {
	case trace == nil:
		return nil, &types.ValidationError{Field: "trace", Message: "trace must not be nil"}
	case trace.Steps < 0:
		return nil, &types.ValidationError{Field: "steps", Message: "steps must be non-negative"}
	case trace.ToolCalls < 0:
		return nil, &types.ValidationError{Field: "tool_calls", Message: "tool calls must be non-negative"}
	case trace.TokensInTrace < 0:
		return nil, &types.ValidationError{Field: "tokens_in_trace", Message: "tokens in trace must be non-negative"}
	case trace.InputTokens < 0:
		return nil, &types.ValidationError{Field: "input_tokens", Message: "token count must be non-negative"}
	case trace.OutputTokens < 0:
		return nil, &types.ValidationError{Field: "output_tokens", Message: "token count must be non-negative"}
	}

	expansion := expansionFactor(trace.TokensInTrace, trace.Steps, trace.ToolCalls)
	score := costScore(trace.Steps, trace.ToolCalls, expansion)

	estimate := &types.CostEstimate{
		ReasoningDepth:  trace.Steps,
		ToolInvocations: trace.ToolCalls,
		ExpansionFactor: expansion,
		CostScore:       score,
		Band:            types.BandFor(score),
	}

	if trace.InputTokens > 0 || trace.OutputTokens > 0 {
		model := trace.Model
		if model == "" {
			model = pricing.DefaultModel
		}
		estimate.CostUSD, estimate.PricingNote = s.pricing.Cost(model, trace.InputTokens, trace.OutputTokens)
	}

	s.logger.DebugContext(ctx, "Estimated reasoning cost",
		slog.Float64("expansion_factor", expansion),
		slog.Float64("cost_score", score),
		slog.String("band", string(estimate.Band)),
	)

	return estimate, nil
}

// BatchItem is one entry of a batch estimate: either the estimate or the
// in-line validation error for that trace.
type BatchItem struct {
	Estimate *types.CostEstimate `json:"estimate,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// BatchResult is the batch payload: one item per input trace, in input
// order.
type BatchResult struct {
	Estimates []BatchItem `json:"estimates"`
	Count     int         `json:"count"`
}

// EstimateBatch applies [Service.Estimate] to each trace independently.
// A validation failure on one trace is reported in-line and never fails
// the batch.
func (s *Service) EstimateBatch(ctx context.Context, traces []*types.ReasoningTrace) (*BatchResult, error) {
	result := &BatchResult{Estimates: make([]BatchItem, 0, len(traces))}
	for _, trace := range traces {
		estimate, err := s.Estimate(ctx, trace)
		if err != nil {
			result.Estimates = append(result.Estimates, BatchItem{Error: err.Error()})
			continue
		}
		result.Estimates = append(result.Estimates, BatchItem{Estimate: estimate})
	}
	result.Count = len(result.Estimates)

	return result, nil
}

// expansionFactor normalizes the trace token count against its reasoning
// units. A trace with no units reports 1.0.
func expansionFactor(tokens, steps, toolCalls int) float64 {
	units := steps + toolCalls
	if units == 0 {
		return 1.0
	}

	expansion := float64(tokens) / (baselineTokensPerUnit * float64(units))
	return min(round2(expansion), maxExpansionFactor)
}

// costScore combines reasoning depth, tool overhead and verbosity into a
// single dimensionless score.
func costScore(steps, toolCalls int, expansion float64) float64 {
	score := stepWeight*float64(steps) + toolCallWeight*float64(toolCalls) + expansionWeight*expansion
	return round2(score)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
