// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"github.com/go-a2a/agentops/internal/xmaps"
	"github.com/go-a2a/agentops/types"
)

// Diff classifies every agent in curr against prev, in agent-id order.
// An agent missing from prev is new_agent; a moved configuration hash is
// config_changed; a moved deployment timestamp under the same hash is
// redeployed; anything else is unchanged. The comparison is pure: neither
// snapshot is mutated, and diffing the same pair twice yields the same
// classifications. Agents present only in prev produce no entry; the
// snapshot is overwritten wholesale on save, so deleted agents simply
// drop out.
func Diff(prev, curr types.Snapshot) []types.AgentChange {
	changes := make([]types.AgentChange, 0, len(curr))
	for _, id := range xmaps.SortedKeys(curr) {
		state := curr[id]
		previous, seen := prev[id]

		change := types.AgentChange{AgentID: id, Kind: types.ChangeUnchanged}
		switch {
		case !seen:
			change.Kind = types.ChangeNewAgent
			change.Reasons = []string{string(types.ChangeNewAgent)}
		case previous.ConfigHash != state.ConfigHash:
			change.Kind = types.ChangeConfigChanged
			change.Reasons = []string{string(types.ChangeConfigChanged)}
			if deployedMoved(previous, state) {
				change.Reasons = append(change.Reasons, string(types.ChangeRedeployed))
			}
		case deployedMoved(previous, state):
			change.Kind = types.ChangeRedeployed
			change.Reasons = []string{string(types.ChangeRedeployed)}
		}
		changes = append(changes, change)
	}
	return changes
}

// deployedMoved reports whether the deployment timestamp moved between
// two observations. A timestamp missing on either side never counts as a
// move.
func deployedMoved(prev, curr types.AgentState) bool {
	return !prev.LastDeployedAt.IsZero() && !curr.LastDeployedAt.IsZero() &&
		!curr.LastDeployedAt.Equal(prev.LastDeployedAt)
}
