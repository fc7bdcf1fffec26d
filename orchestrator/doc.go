// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package orchestrator implements the react loop that watches the agent
// fleet and retests agents when they change.
//
// One cycle observes the inventory, fingerprints every agent's
// configuration ([ConfigHash]), classifies each against the previous
// snapshot ([Diff]) and, per changed agent, runs the positive regression
// suite and requests a fresh negative set through the AutoEvalAgent.
// Action failures are logged and recorded on the [types.CycleReport]
// without halting the cycle, and the observed snapshot is persisted
// wholesale afterwards so the next cycle compares against the latest
// observed state rather than the last fully-succeeded one.
//
// Snapshots live behind the [SnapshotStore] interface; [FileStore] keeps
// the single-file JSON cache the loop assumes exclusive ownership of, and
// [MemoryStore] serves tests. [Scheduler] repeats cycles on a fixed
// interval until its context is cancelled.
package orchestrator
