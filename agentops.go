// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package agentops is an operations plane for fleets of LLM agents: MCP tool
// services for inventory, reasoning-cost and token accounting, agent wrappers
// exposing them as capabilities, and a polling orchestrator that detects
// agent changes and dispatches regression evaluation.
package agentops

// Version is the version of the agentops module.
var Version = "v0.0.0"
