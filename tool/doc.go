// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package tool provides the generic capability dispatcher and the
// FunctionTool adapter that turns plain Go functions into [types.Tool]
// values.
//
// Services build their tools once at startup and register them with a
// Dispatcher; the MCP server and the agent wrappers then advertise and
// invoke them purely through the [types.Tool] interface, so orchestration
// code never depends on a concrete service implementation.
//
//	dispatcher := tool.NewDispatcher()
//	dispatcher.Register(tool.NewFunctionTool("get_agent_usage", "Aggregate usage for one agent", schema, fn))
//	out, err := dispatcher.Dispatch(ctx, "get_agent_usage", map[string]any{"agent_id": "retriever"})
package tool
