// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent provides the operational agents of the fleet: named tool
// bundles that wrap the platform services behind an LLM-callable
// interface.
//
// An [Agent] pairs a model and instruction with a set of [types.Tool]
// capabilities. The wrapper constructors build the concrete agents:
//
//   - [NewMetricsAgent] reports per-agent and fleet usage statistics
//     from the inventory service.
//   - [NewReasoningCostAgent] scores reasoning traces through the
//     reasoning-cost service.
//   - [NewTokenCostAgent] counts tokens through the Gemini API and
//     prices them with the static table.
//   - [NewAutoEvalAgent] generates evaluation sets and runs regression
//     suites.
//
// Wrapper tools never fail the tool call on a downstream error. They
// report a result map with "status" set to "error" and an operator-facing
// "error_message", so the model can relay the problem instead of
// aborting the conversation.
package agent
