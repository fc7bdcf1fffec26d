// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package evalset

import (
	"context"
	"fmt"
	"math"

	"github.com/go-a2a/agentops/pkg/logging"
	"github.com/go-a2a/agentops/types"
)

// CaseExecutor runs one evaluation case against the agent under test. A
// nil return means the agent handled the case; an error means it failed
// or refused. Whether that counts as a pass depends on the case's
// expected behavior.
type CaseExecutor interface {
	Execute(ctx context.Context, c *types.EvalCase) error
}

// CaseExecutorFunc adapts a function to a [CaseExecutor].
type CaseExecutorFunc func(ctx context.Context, c *types.EvalCase) error

// Execute implements [CaseExecutor].
func (f CaseExecutorFunc) Execute(ctx context.Context, c *types.EvalCase) error {
	return f(ctx, c)
}

// Summary aggregates a regression run.
type Summary struct {
	// TotalTests is how many cases were scored.
	TotalTests int `json:"total_tests"`

	// Passed counts cases whose outcome matched their expectation.
	Passed int `json:"passed"`

	// Failed counts cases whose outcome did not.
	Failed int `json:"failed"`

	// PassRate is Passed over TotalTests as a percentage, two decimals.
	PassRate float64 `json:"pass_rate"`

	// Status is success when nothing failed, partial_success when some
	// cases passed, error otherwise.
	Status Status `json:"status"`
}

// RunResult reports one category run.
type RunResult struct {
	AgentID  string             `json:"agent_id"`
	Category types.EvalCategory `json:"set_type"`
	Summary  Summary            `json:"summary"`

	// FailedCases lists the ids of cases that scored failed.
	FailedCases []string `json:"failed_case_ids,omitempty"`
}

// RegressionResult reports a whole-suite regression run.
type RegressionResult struct {
	AgentID string       `json:"agent_id"`
	Results []*RunResult `json:"results"`
	Summary Summary      `json:"summary"`
}

// Runner replays stored evaluation sets against a [CaseExecutor].
type Runner struct {
	store Store
	exec  CaseExecutor
}

// NewRunner creates a [Runner] over the given store and executor.
func NewRunner(store Store, exec CaseExecutor) *Runner {
	return &Runner{store: store, exec: exec}
}

// Run scores every stored case of one category. Executor failures on
// individual cases never abort the run; they count against the summary
// according to the case's expectation.
func (r *Runner) Run(ctx context.Context, agentID string, category types.EvalCategory) (*RunResult, error) {
	switch {
	case agentID == "":
		return nil, &types.ValidationError{Field: "agent_id", Message: "agent_id is required"}
	case !category.Valid():
		return nil, &types.ValidationError{Field: "set_type", Message: fmt.Sprintf("unknown eval category %q", category)}
	}

	exists, err := r.store.Exists(ctx, agentID, category)
	if err != nil {
		return nil, fmt.Errorf("check for eval set: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("no %s eval set stored for agent %s", category, agentID)
	}

	cases, err := r.store.Read(ctx, agentID, category)
	if err != nil {
		return nil, err
	}

	result := &RunResult{AgentID: agentID, Category: category}
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if scoreCase(c, r.exec.Execute(ctx, c)) {
			result.Summary.Passed++
		} else {
			result.Summary.Failed++
			result.FailedCases = append(result.FailedCases, c.ID)
		}
	}
	result.Summary.TotalTests = len(cases)
	finalize(&result.Summary)

	logging.FromContext(ctx).InfoContext(ctx, "eval run finished",
		"agent_id", agentID,
		"set_type", string(category),
		"total_tests", result.Summary.TotalTests,
		"passed", result.Summary.Passed,
		"failed", result.Summary.Failed,
		"pass_rate", result.Summary.PassRate,
	)
	return result, nil
}

// RunAll scores every category stored for the agent and merges the
// per-category summaries.
func (r *Runner) RunAll(ctx context.Context, agentID string) (*RegressionResult, error) {
	if agentID == "" {
		return nil, &types.ValidationError{Field: "agent_id", Message: "agent_id is required"}
	}

	categories, err := r.store.List(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("list eval sets: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("no eval sets stored for agent %s", agentID)
	}

	result := &RegressionResult{AgentID: agentID}
	for _, category := range categories {
		runResult, err := r.Run(ctx, agentID, category)
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, runResult)
		result.Summary.TotalTests += runResult.Summary.TotalTests
		result.Summary.Passed += runResult.Summary.Passed
		result.Summary.Failed += runResult.Summary.Failed
	}
	finalize(&result.Summary)
	return result, nil
}

// scoreCase reports whether the execution outcome matched the case's
// expectation. Cases without an explicit expectation inherit their
// category's.
func scoreCase(c *types.EvalCase, execErr error) bool {
	expectFailure := c.Category.ExpectsFailure()
	if c.ExpectedBehavior != "" {
		expectFailure = c.ExpectedBehavior == types.BehaviorFail
	}
	return (execErr != nil) == expectFailure
}

// finalize computes the pass rate and status from the counters.
func finalize(s *Summary) {
	if s.TotalTests > 0 {
		s.PassRate = round2(float64(s.Passed) / float64(s.TotalTests) * 100)
	}
	switch {
	case s.Failed == 0:
		s.Status = StatusSuccess
	case s.Passed > 0:
		s.Status = StatusPartialSuccess
	default:
		s.Status = StatusError
	}
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
