// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package inventory implements the AgentInventory service: a registry of
// agents and their execution records, with usage statistics aggregated on
// demand rather than stored.
//
// [Service] carries the business logic; [Tools] binds it to MCP tool
// handlers and [NewServer] wires those onto a ready-to-serve [mcp.Server].
// Persistence sits behind the [Store] interface, with [MemoryStore] as the
// default implementation.
package inventory
