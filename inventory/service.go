// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/go-a2a/agentops/types"
)

// Discoverer lists agents deployed on the cloud provider. In production it
// is backed by the Vertex AI reasoning-engine client; a nil Discoverer
// disables deployed-agent discovery.
type Discoverer interface {
	List(ctx context.Context) ([]*types.DeployedAgent, error)
}

// Service implements the AgentInventory operations.
type Service struct {
	store      Store
	discoverer Discoverer
	logger     *slog.Logger
}

// ServiceOption configures a [Service].
type ServiceOption func(*Service)

// WithStore replaces the default in-memory [Store].
func WithStore(store Store) ServiceOption {
	return func(s *Service) {
		s.store = store
	}
}

// WithDiscoverer enables deployed-agent discovery on [Service.ListAgents].
func WithDiscoverer(d Discoverer) ServiceOption {
	return func(s *Service) {
		s.discoverer = d
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates an inventory [Service]. Unless overridden with
// [WithStore], records live in an in-memory store.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		store:  NewMemoryStore(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RegisterAgent inserts or updates an agent record. Registration is an
// upsert: re-registering an existing agent updates its description and
// keeps the original RegisteredAt.
func (s *Service) RegisterAgent(ctx context.Context, id, description string) (*types.AgentRecord, error) {
	if id == "" {
		return nil, &types.ValidationError{Field: "id", Message: "agent id must not be empty"}
	}

	record, err := s.store.Upsert(ctx, &types.AgentRecord{ID: id, Description: description})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Registered agent", slog.String("agent_id", id))

	return record, nil
}

// RecordExecution validates and appends an execution record, assigning
// ExecutionID and Timestamp when unset. Unknown agents are auto-registered
// with a placeholder description so execution data is never dropped.
func (s *Service) RecordExecution(ctx context.Context, record *types.ExecutionRecord) (*types.ExecutionRecord, error) {
	switch {
	case record == nil:
		return nil, &types.ValidationError{Field: "execution", Message: "execution record must not be nil"}
	case record.AgentID == "":
		return nil, &types.ValidationError{Field: "agent_id", Message: "agent id must not be empty"}
	case record.RuntimeMS < 0:
		return nil, &types.ValidationError{Field: "runtime_ms", Message: "runtime must not be negative"}
	case record.InputTokens < 0:
		return nil, &types.ValidationError{Field: "input_tokens", Message: "token count must not be negative"}
	case record.OutputTokens < 0:
		return nil, &types.ValidationError{Field: "output_tokens", Message: "token count must not be negative"}
	case record.CostUSD < 0:
		return nil, &types.ValidationError{Field: "cost_usd", Message: "cost must not be negative"}
	}

	stored := *record
	if stored.ExecutionID == "" {
		stored.ExecutionID = uuid.New().String()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}
	if stored.TotalTokens == 0 {
		stored.TotalTokens = stored.InputTokens + stored.OutputTokens
	}

	if _, err := s.store.Get(ctx, stored.AgentID); err != nil {
		var notFound *types.AgentNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		if _, err := s.store.Upsert(ctx, &types.AgentRecord{
			ID:          stored.AgentID,
			Description: fmt.Sprintf("Agent %s", stored.AgentID),
		}); err != nil {
			return nil, err
		}
	}

	if err := s.store.AppendExecution(ctx, &stored); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Recorded execution",
		slog.String("agent_id", stored.AgentID),
		slog.String("execution_id", stored.ExecutionID),
		slog.Bool("success", stored.Success),
	)

	return &stored, nil
}

// Usage aggregates statistics over all executions recorded for agentID.
//
// An unknown agent returns a [types.AgentNotFoundError]; a registered agent
// with no executions returns all-zero statistics.
func (s *Service) Usage(ctx context.Context, agentID string) (*types.UsageStats, error) {
	if agentID == "" {
		return nil, &types.ValidationError{Field: "agent_id", Message: "agent id must not be empty"}
	}
	if _, err := s.store.Get(ctx, agentID); err != nil {
		return nil, err
	}

	records, err := s.store.Executions(ctx, agentID)
	if err != nil {
		return nil, err
	}

	stats := &types.UsageStats{AgentID: agentID, TotalRuns: len(records)}
	if len(records) == 0 {
		return stats, nil
	}

	var inputSum, outputSum, costSum float64
	latencies := make([]float64, 0, len(records))
	for _, record := range records {
		if !record.Success {
			stats.Failures++
		}
		inputSum += float64(record.InputTokens)
		outputSum += float64(record.OutputTokens)
		costSum += record.CostUSD
		latencies = append(latencies, record.RuntimeMS)
	}

	n := float64(len(records))
	stats.AvgInputTokens = round2(inputSum / n)
	stats.AvgOutputTokens = round2(outputSum / n)
	stats.AvgCostUSD = round6(costSum / n)
	stats.P50LatencyMS = round2(percentile(latencies, 50))
	stats.P95LatencyMS = round2(percentile(latencies, 95))

	return stats, nil
}

// ListAgentsResult is the [Service.ListAgents] payload: local records plus,
// when requested, agents discovered on the cloud provider.
type ListAgentsResult struct {
	Agents   []*types.AgentRecord   `json:"agents"`
	Deployed []*types.DeployedAgent `json:"deployed,omitempty"`

	// DiscoveryError carries the degraded-mode warning when deployed-agent
	// discovery failed. The local listing is still served.
	DiscoveryError string `json:"discovery_error,omitempty"`
}

// ListAgents returns all registered agents sorted by ID. When
// includeDeployed is set and a [Discoverer] is configured, the result also
// carries agents deployed on the cloud provider; a discovery failure
// degrades to local-only and is reported in the result, never as an error.
func (s *Service) ListAgents(ctx context.Context, includeDeployed bool) (*ListAgentsResult, error) {
	agents, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &ListAgentsResult{Agents: agents}
	if !includeDeployed {
		return result, nil
	}
	if s.discoverer == nil {
		result.DiscoveryError = "deployed-agent discovery is not configured"
		return result, nil
	}

	deployed, err := s.discoverer.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Deployed-agent discovery failed, serving local records only", slog.Any("error", err))
		result.DiscoveryError = err.Error()
		return result, nil
	}
	result.Deployed = deployed

	return result, nil
}

// DeleteAgent removes the agent record and all its execution records.
func (s *Service) DeleteAgent(ctx context.Context, agentID string) error {
	if agentID == "" {
		return &types.ValidationError{Field: "agent_id", Message: "agent id must not be empty"}
	}
	if err := s.store.Delete(ctx, agentID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Deleted agent", slog.String("agent_id", agentID))

	return nil
}

// AgentOverview is one agent's entry in the fleet overview.
type AgentOverview struct {
	Agent *types.AgentRecord `json:"agent"`
	Usage *types.UsageStats  `json:"usage"`

	// SuccessRate is the percentage of successful runs, rounded to 2
	// decimals. An agent with no executions reports 0.
	SuccessRate float64 `json:"success_rate"`
}

// FleetSummary aggregates counters across every registered agent.
type FleetSummary struct {
	TotalAgents   int     `json:"total_agents"`
	TotalRuns     int     `json:"total_runs"`
	TotalFailures int     `json:"total_failures"`
	SuccessRate   float64 `json:"success_rate"`
}

// FleetOverview is the full-fleet report: one entry per agent plus totals.
type FleetOverview struct {
	Agents  []*AgentOverview `json:"agents"`
	Summary FleetSummary     `json:"summary"`
}

// Overview reports usage for every registered agent together with fleet
// totals, sorted by agent ID.
func (s *Service) Overview(ctx context.Context) (*FleetOverview, error) {
	agents, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	overview := &FleetOverview{Agents: make([]*AgentOverview, 0, len(agents))}
	for _, agent := range agents {
		usage, err := s.Usage(ctx, agent.ID)
		if err != nil {
			return nil, err
		}
		overview.Agents = append(overview.Agents, &AgentOverview{
			Agent:       agent,
			Usage:       usage,
			SuccessRate: successRate(usage.TotalRuns, usage.Failures),
		})
		overview.Summary.TotalRuns += usage.TotalRuns
		overview.Summary.TotalFailures += usage.Failures
	}
	overview.Summary.TotalAgents = len(agents)
	overview.Summary.SuccessRate = successRate(overview.Summary.TotalRuns, overview.Summary.TotalFailures)

	return overview, nil
}

// percentile returns the p-th percentile of values using linear
// interpolation between the two nearest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	index := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	return sorted[lower] + (sorted[upper]-sorted[lower])*(index-float64(lower))
}

// successRate returns the percentage of successful runs, rounded to 2
// decimals.
func successRate(runs, failures int) float64 {
	if runs == 0 {
		return 0
	}
	return round2(float64(runs-failures) / float64(runs) * 100)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
