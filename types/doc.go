// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package types defines the shared kernel of the agentops module: agent
// registry records and usage statistics, reasoning traces and cost
// estimates, token accounting results, orchestrator snapshots and cycle
// reports, the Tool capability interface, and the typed errors every
// service reports through.
//
// All services and agents in this module exchange these types; nothing in
// this package performs I/O.
package types
