// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/go-a2a/agentops/agent"
	"github.com/go-a2a/agentops/evalset"
	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/types"
)

const (
	// DefaultConcurrency bounds how many changed agents are acted on at
	// once.
	DefaultConcurrency = 4

	// DefaultNegativeCount is how many negative cases a cycle requests
	// per changed agent.
	DefaultNegativeCount = 600
)

// Action names recorded on cycle reports.
const (
	ActionRegressionPositive = "regression_test_positive"
	ActionGenerateNegative   = "generate_negative_tests"
)

// Orchestrator drives the react loop: observe the inventory, diff
// against the stored snapshot, act on changed agents through the
// AutoEvalAgent, persist the new snapshot.
type Orchestrator struct {
	inventory       *mcp.Client
	autoEval        *agent.Agent
	store           SnapshotStore
	fleet           []*mcp.Client
	logger          *slog.Logger
	includeDeployed bool
	concurrency     int
	negativeCount   int
}

// Option configures an [Orchestrator].
type Option func(*Orchestrator)

// WithLogger sets the logger for the orchestrator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithStore sets the snapshot store. Defaults to a [FileStore] at
// [DefaultCacheFile].
func WithStore(store SnapshotStore) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithIncludeDeployed folds cloud-deployed agents into observation, so
// redeployments move the deployment timestamp the diff compares.
func WithIncludeDeployed(include bool) Option {
	return func(o *Orchestrator) {
		o.includeDeployed = include
	}
}

// WithConcurrency bounds the per-cycle action fan-out.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithNegativeCount overrides how many negative cases a cycle requests
// per changed agent.
func WithNegativeCount(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.negativeCount = n
		}
	}
}

// WithFleet sets the MCP services [Orchestrator.CheckAgents] probes.
// Defaults to just the inventory.
func WithFleet(clients ...*mcp.Client) Option {
	return func(o *Orchestrator) {
		o.fleet = clients
	}
}

// New assembles an orchestrator over the inventory client and the
// evaluation agent that carries out its actions.
func New(inventory *mcp.Client, autoEval *agent.Agent, opts ...Option) (*Orchestrator, error) {
	switch {
	case inventory == nil:
		return nil, &types.ValidationError{Field: "inventory", Message: "inventory client is required"}
	case autoEval == nil:
		return nil, &types.ValidationError{Field: "auto_eval", Message: "evaluation agent is required"}
	}

	o := &Orchestrator{
		inventory:     inventory,
		autoEval:      autoEval,
		store:         NewFileStore(""),
		logger:        slog.Default(),
		concurrency:   DefaultConcurrency,
		negativeCount: DefaultNegativeCount,
	}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.fleet) == 0 {
		o.fleet = []*mcp.Client{inventory}
	}
	return o, nil
}

// RunCycle executes one observe, think, act, verify pass. A non-empty
// agentID narrows acting to that agent; observation still covers the
// whole fleet so the persisted snapshot stays complete.
//
// The report is always non-nil. When the cycle could not complete (the
// snapshot failed to load or persist, or the inventory was unreachable)
// the report carries [types.CycleError] and the error explains why;
// per-agent action failures only degrade the status to
// [types.CyclePartialSuccess].
func (o *Orchestrator) RunCycle(ctx context.Context, agentID string) (*types.CycleReport, error) {
	report := &types.CycleReport{
		CycleID:   uuid.NewString(),
		StartedAt: time.Now(),
		Status:    types.CycleSuccess,
	}
	o.logger.InfoContext(ctx, "Starting react cycle",
		slog.String("cycle_id", report.CycleID),
		slog.String("agent_id", agentID),
	)

	prev, err := o.store.Load(ctx)
	if err != nil {
		report.Status = types.CycleError
		return report, fmt.Errorf("load snapshot: %w", err)
	}

	curr, err := o.observe(ctx)
	if err != nil {
		report.Status = types.CycleError
		return report, fmt.Errorf("observe inventory: %w", err)
	}
	report.Observed = len(curr)

	// Run times survive observation; they move only when a cycle acts on
	// the agent.
	for id, state := range curr {
		if previous, ok := prev[id]; ok {
			state.LastRunTime = previous.LastRunTime
			curr[id] = state
		}
	}

	var dispatch []string
	for _, change := range Diff(prev, curr) {
		if change.Kind == types.ChangeUnchanged {
			continue
		}
		if agentID != "" && change.AgentID != agentID {
			continue
		}
		report.Changes = append(report.Changes, change)
		dispatch = append(dispatch, change.AgentID)
	}

	if len(dispatch) == 0 {
		o.logger.InfoContext(ctx, "No agent changes detected", slog.Int("observed", report.Observed))
	} else {
		o.logger.InfoContext(ctx, "Detected changed agents", slog.Int("changed", len(dispatch)))
		report.Actions = o.act(ctx, dispatch)

		now := time.Now()
		for _, id := range dispatch {
			state := curr[id]
			state.LastRunTime = now
			curr[id] = state
		}
		for _, action := range report.Actions {
			if action.Error != "" {
				report.Status = types.CyclePartialSuccess
				break
			}
		}
	}

	if err := o.store.Save(ctx, curr); err != nil {
		report.Status = types.CycleError
		return report, fmt.Errorf("save snapshot: %w", err)
	}

	o.logger.InfoContext(ctx, "React cycle finished",
		slog.String("cycle_id", report.CycleID),
		slog.String("status", string(report.Status)),
		slog.Int("changes", len(report.Changes)),
		slog.Int("actions", len(report.Actions)),
	)
	return report, nil
}

// observe lists the inventory and builds the currently observed
// snapshot.
func (o *Orchestrator) observe(ctx context.Context) (types.Snapshot, error) {
	res, err := o.inventory.CallTool(ctx, "list_agents", map[string]any{
		"include_deployed": o.includeDeployed,
	})
	if err != nil {
		return nil, err
	}
	if msg, ok := res["discovery_error"].(string); ok && msg != "" {
		o.logger.WarnContext(ctx, "Deployed-agent discovery degraded", slog.String("error", msg))
	}

	deployed := deployTimes(res["deployed"])
	now := time.Now()

	agents, _ := res["agents"].([]any)
	snap := make(types.Snapshot, len(agents))
	for _, raw := range agents {
		record, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id, _ := record["id"].(string)
		if id == "" {
			continue
		}
		state := types.AgentState{
			ConfigHash:    ConfigHash(record),
			LastCheckTime: now,
		}
		if at, ok := deployed[id]; ok {
			state.LastDeployedAt = at
		}
		snap[id] = state
	}
	return snap, nil
}

// deployTimes indexes deployment update times by engine display name. A
// deployed engine whose display name matches a registered agent id
// contributes its update time as that agent's deployment timestamp.
func deployTimes(raw any) map[string]time.Time {
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}
	times := make(map[string]time.Time, len(entries))
	for _, entry := range entries {
		engine, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := engine["display_name"].(string)
		stamp, _ := engine["update_time"].(string)
		if name == "" || stamp == "" {
			continue
		}
		at, err := time.Parse(time.RFC3339, stamp)
		if err != nil {
			continue
		}
		times[name] = at
	}
	return times
}

// act runs both cycle actions for every dispatched agent with bounded
// parallelism and returns the flattened results in dispatch order.
func (o *Orchestrator) act(ctx context.Context, dispatch []string) []types.ActionResult {
	results := make([][]types.ActionResult, len(dispatch))

	g := new(errgroup.Group)
	g.SetLimit(o.concurrency)
	for i, id := range dispatch {
		g.Go(func() error {
			results[i] = o.actOn(ctx, id)
			return nil
		})
	}
	// Failures are recorded per action, never returned.
	_ = g.Wait()

	actions := make([]types.ActionResult, 0, 2*len(dispatch))
	for _, r := range results {
		actions = append(actions, r...)
	}
	return actions
}

// actOn runs the positive regression suite and requests a negative set
// for one changed agent, recording failures instead of propagating them.
func (o *Orchestrator) actOn(ctx context.Context, agentID string) []types.ActionResult {
	actions := []types.ActionResult{
		o.runRegression(ctx, agentID),
		o.generateNegative(ctx, agentID),
	}
	for _, action := range actions {
		if action.Error != "" {
			o.logger.WarnContext(ctx, "Cycle action failed",
				slog.String("agent_id", action.AgentID),
				slog.String("action", action.Action),
				slog.String("error", action.Error),
			)
		}
	}
	return actions
}

// runRegression replays the agent's positive suite, which a healthy
// agent is expected to pass.
func (o *Orchestrator) runRegression(ctx context.Context, agentID string) types.ActionResult {
	action := types.ActionResult{AgentID: agentID, Action: ActionRegressionPositive}
	res, err := o.autoEval.Call(ctx, "run_regression_test", map[string]any{
		"agent_id": agentID,
		"set_type": string(types.EvalPositive),
	})
	if err != nil {
		action.Error = err.Error()
		return action
	}
	switch res := res.(type) {
	case *evalset.RunResult:
		action.Passed = res.Summary.Passed
		action.Failed = res.Summary.Failed
	case map[string]any:
		action.Error = errorMessage(res)
	}
	return action
}

// generateNegative requests a fresh negative set for the agent. An
// already-stored set is a skip, not a failure.
func (o *Orchestrator) generateNegative(ctx context.Context, agentID string) types.ActionResult {
	action := types.ActionResult{AgentID: agentID, Action: ActionGenerateNegative}
	res, err := o.autoEval.Call(ctx, "generate_eval_set", map[string]any{
		"agent_id":         agentID,
		"set_type":         string(types.EvalNegative),
		"count":            o.negativeCount,
		"force_regenerate": false,
	})
	if err != nil {
		action.Error = err.Error()
		return action
	}
	if degraded, ok := res.(map[string]any); ok {
		action.Error = errorMessage(degraded)
	}
	return action
}

// errorMessage extracts the error_message of a degraded tool result.
func errorMessage(result map[string]any) string {
	if msg, ok := result["error_message"].(string); ok && msg != "" {
		return msg
	}
	return "unknown error"
}

// ServiceCheck is one service probe of a [Orchestrator.CheckAgents]
// pass.
type ServiceCheck struct {
	Service string `json:"service"`
	URL     string `json:"url"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// FleetCheck merges the service probes of one [Orchestrator.CheckAgents]
// pass.
type FleetCheck struct {
	// Healthy reports whether every probed service responded.
	Healthy bool `json:"healthy"`

	// Services holds one probe result per configured fleet service.
	Services []ServiceCheck `json:"services"`

	// AgentIDs lists the registered agents when the inventory responded.
	AgentIDs []string `json:"agent_ids,omitempty"`
}

// CheckAgents probes every fleet service's health concurrently and, when
// the inventory responds, counts the registered agents. Probe failures
// are reported per service, never returned.
func (o *Orchestrator) CheckAgents(ctx context.Context) *FleetCheck {
	check := &FleetCheck{
		Healthy:  true,
		Services: make([]ServiceCheck, len(o.fleet)),
	}

	g := new(errgroup.Group)
	g.SetLimit(o.concurrency)
	for i, client := range o.fleet {
		g.Go(func() error {
			probe := ServiceCheck{Service: client.Service(), URL: client.BaseURL(), Healthy: true}
			if err := client.Health(ctx); err != nil {
				probe.Healthy = false
				probe.Error = err.Error()
			}
			check.Services[i] = probe
			return nil
		})
	}
	_ = g.Wait()

	for _, probe := range check.Services {
		if !probe.Healthy {
			check.Healthy = false
		}
	}

	if ids, err := o.agentIDs(ctx); err == nil {
		check.AgentIDs = ids
	}
	return check
}

// agentIDs lists the registered agent ids through the inventory.
func (o *Orchestrator) agentIDs(ctx context.Context) ([]string, error) {
	res, err := o.inventory.CallTool(ctx, "list_agents", map[string]any{"include_deployed": false})
	if err != nil {
		return nil, err
	}

	agents, _ := res["agents"].([]any)
	ids := make([]string, 0, len(agents))
	for _, raw := range agents {
		record, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := record["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
