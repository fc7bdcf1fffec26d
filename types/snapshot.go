// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"time"

	"github.com/tiendc/go-deepcopy"
)

// ChangeKind classifies how an agent differs from its last observed state.
type ChangeKind string

const (
	// ChangeUnchanged means the observed state matches the snapshot.
	ChangeUnchanged ChangeKind = "unchanged"

	// ChangeConfigChanged means the agent's configuration hash moved.
	ChangeConfigChanged ChangeKind = "config_changed"

	// ChangeRedeployed means the deployment timestamp moved while the
	// configuration hash stayed the same.
	ChangeRedeployed ChangeKind = "redeployed"

	// ChangeNewAgent means the agent has no entry in the snapshot.
	ChangeNewAgent ChangeKind = "new_agent"
)

// AgentState is the per-agent entry of the orchestrator snapshot.
type AgentState struct {
	// ConfigHash is the MD5 of the agent's canonical configuration JSON.
	ConfigHash string `json:"config_hash"`

	// LastDeployedAt is the agent's deployment timestamp as last observed.
	LastDeployedAt time.Time `json:"last_deployed_at,omitzero"`

	// LastRunTime is when an action cycle last ran for this agent.
	LastRunTime time.Time `json:"last_run_time,omitzero"`

	// LastCheckTime is when this agent was last observed.
	LastCheckTime time.Time `json:"last_check_time,omitzero"`
}

// Snapshot maps agent ids to their last observed state. The snapshot always
// reflects the last successfully observed state and is overwritten
// wholesale after each cycle.
type Snapshot map[string]AgentState

// Clone returns a deep copy of the snapshot so diffing never aliases the
// persisted state.
func (s Snapshot) Clone() (Snapshot, error) {
	if s == nil {
		return Snapshot{}, nil
	}
	var dst Snapshot
	if err := deepcopy.Copy(&dst, s); err != nil {
		return nil, fmt.Errorf("clone snapshot: %w", err)
	}
	if dst == nil {
		dst = Snapshot{}
	}
	return dst, nil
}

// AgentChange is one classified difference between the snapshot and the
// currently observed inventory.
type AgentChange struct {
	// AgentID is the agent the change was detected for.
	AgentID string `json:"agent_id"`

	// Kind is the change classification.
	Kind ChangeKind `json:"kind"`

	// Reasons lists the observations behind the classification.
	Reasons []string `json:"reasons,omitempty"`
}

// CycleStatus summarizes how a react cycle ended.
type CycleStatus string

const (
	// CycleSuccess means every dispatched action succeeded.
	CycleSuccess CycleStatus = "success"

	// CyclePartialSuccess means at least one action failed but the cycle
	// completed.
	CyclePartialSuccess CycleStatus = "partial_success"

	// CycleError means the cycle could not complete at all.
	CycleError CycleStatus = "error"
)

// ActionResult records the outcome of one dispatched action for one agent.
type ActionResult struct {
	// AgentID is the agent the action ran for.
	AgentID string `json:"agent_id"`

	// Action names the dispatched action.
	Action string `json:"action"`

	// Passed and Failed carry regression counters when the action ran a
	// suite.
	Passed int `json:"passed,omitempty"`
	Failed int `json:"failed,omitempty"`

	// Error holds the failure message when the action did not succeed.
	Error string `json:"error,omitempty"`
}

// CycleReport is the record of one OBSERVE, THINK, ACT, verify cycle.
type CycleReport struct {
	// CycleID uniquely identifies the cycle.
	CycleID string `json:"cycle_id"`

	// StartedAt is when the cycle began observing.
	StartedAt time.Time `json:"started_at"`

	// Observed is the number of agents seen in the inventory.
	Observed int `json:"observed"`

	// Changes holds the non-unchanged classifications of this cycle.
	Changes []AgentChange `json:"changes,omitempty"`

	// Actions holds the per-agent action outcomes of this cycle.
	Actions []ActionResult `json:"actions,omitempty"`

	// Status summarizes the cycle outcome.
	Status CycleStatus `json:"status"`
}
