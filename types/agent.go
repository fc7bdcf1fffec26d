// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"time"
)

// AgentRecord is a locally registered agent. Records are created on
// registration and never structurally versioned.
type AgentRecord struct {
	// ID is the unique agent identifier.
	ID string `json:"id"`

	// Description is the free-form description supplied at registration.
	Description string `json:"description"`

	// RegisteredAt is when the agent was first registered. Re-registering
	// an existing agent updates the description but keeps this timestamp.
	RegisteredAt time.Time `json:"registered_at"`
}

// ExecutionRecord is one recorded agent execution. Records are immutable
// once appended; usage statistics are derived from them, never stored.
type ExecutionRecord struct {
	// AgentID is the agent this execution belongs to.
	AgentID string `json:"agent_id"`

	// ExecutionID is assigned by the inventory on append.
	ExecutionID string `json:"execution_id"`

	// Success reports whether the execution completed successfully.
	Success bool `json:"success"`

	// RuntimeMS is the wall-clock execution time in milliseconds.
	RuntimeMS float64 `json:"runtime_ms"`

	// InputTokens is the prompt token count.
	InputTokens int `json:"input_tokens"`

	// OutputTokens is the completion token count.
	OutputTokens int `json:"output_tokens"`

	// TotalTokens is InputTokens + OutputTokens.
	TotalTokens int `json:"total_tokens"`

	// CostUSD is the execution cost in US dollars, if known.
	CostUSD float64 `json:"cost_usd"`

	// Timestamp is when the execution was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// UsageStats are aggregate counters derived over all execution records of
// one agent.
type UsageStats struct {
	// AgentID is the agent the statistics were computed for.
	AgentID string `json:"agent_id"`

	// TotalRuns is the number of recorded executions.
	TotalRuns int `json:"total_runs"`

	// Failures is the number of executions with Success == false.
	Failures int `json:"failures"`

	// AvgInputTokens is the mean prompt token count, rounded to 2 decimals.
	AvgInputTokens float64 `json:"avg_input_tokens"`

	// AvgOutputTokens is the mean completion token count, rounded to 2 decimals.
	AvgOutputTokens float64 `json:"avg_output_tokens"`

	// AvgCostUSD is the mean execution cost, rounded to 6 decimals.
	AvgCostUSD float64 `json:"avg_cost_usd"`

	// P50LatencyMS is the interpolated median runtime, rounded to 2 decimals.
	P50LatencyMS float64 `json:"p50_latency_ms"`

	// P95LatencyMS is the interpolated 95th percentile runtime, rounded to 2 decimals.
	P95LatencyMS float64 `json:"p95_latency_ms"`
}

// DeployedAgent is an agent discovered on the cloud provider rather than
// registered locally.
type DeployedAgent struct {
	// Name is the fully qualified resource name.
	Name string `json:"name"`

	// DisplayName is the human-readable engine name.
	DisplayName string `json:"display_name"`

	// CreateTime is when the engine was deployed.
	CreateTime time.Time `json:"create_time"`

	// UpdateTime is when the engine was last updated.
	UpdateTime time.Time `json:"update_time"`
}
