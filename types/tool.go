// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"context"
)

// Tool is the capability interface every service operation and agent
// function is exposed through. A Tool carries its own JSON schema so a
// dispatcher can advertise it over the MCP tools/list method without
// knowing anything about the implementation.
type Tool interface {
	// Name returns the name of the tool.
	Name() string

	// Description returns the description of the tool.
	Description() string

	// InputSchema returns the JSON-schema object describing the tool's
	// arguments, in the shape MCP clients expect
	// ({"type":"object","properties":{...},"required":[...]}).
	InputSchema() map[string]any

	// Call runs the tool with the given arguments.
	Call(ctx context.Context, args map[string]any) (any, error)
}
