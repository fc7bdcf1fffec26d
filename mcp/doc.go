// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcp implements the Model Control Protocol surface shared by every
// service in this module: a JSON-RPC 2.0 server served over HTTP POST and a
// matching client.
//
// # Server
//
// A Server advertises registered [types.Tool] capabilities and dispatches
// calls to them:
//
//	srv := mcp.NewServer("agent-inventory", agentops.Version)
//	srv.Register(inventory.Tools(svc)...)
//	http.ListenAndServe(":8000", srv)
//
// The server answers three JSON-RPC methods on POST /:
//
//   - initialize: protocol handshake with server info and capabilities
//   - tools/list: the registered tool names, descriptions and schemas
//   - tools/call: invoke one tool with a JSON arguments object
//
// notifications/initialized is acknowledged without a body. GET / returns
// plain service info and GET /health a liveness probe, so the services stay
// curl-friendly.
//
// Tool execution failures are reported inside the tools/call result with
// isError set, per MCP convention; protocol-level failures (unparseable
// envelope, unknown method, malformed params) are reported as JSON-RPC
// error objects.
//
// # Client
//
// Client speaks the same protocol from the caller side:
//
//	cli := mcp.NewClient("agent-inventory", "http://localhost:8000")
//	out, err := cli.CallTool(ctx, "get_agent_usage", map[string]any{"agent_id": "retriever"})
//
// Transport failures surface as [*types.UnavailableError] ("cannot
// connect"), upstream JSON-RPC errors and isError results as
// [*types.UpstreamError] with the original message passed through.
package mcp
