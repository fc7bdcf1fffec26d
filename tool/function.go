// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"maps"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-a2a/agentops/types"
)

// Function is a user-defined function that can be exposed as a tool.
type Function func(ctx context.Context, args map[string]any) (any, error)

// FunctionTool wraps a [Function] with the metadata MCP clients need.
type FunctionTool struct {
	name        string
	description string
	schema      map[string]any
	fn          Function
}

var _ types.Tool = (*FunctionTool)(nil)

// NewFunctionTool returns a FunctionTool with the given name, description,
// input schema and function. An empty name is derived from the function's
// symbol name.
func NewFunctionTool(name, description string, schema map[string]any, fn Function) *FunctionTool {
	if name == "" {
		name = funcName(fn)
	}
	if schema == nil {
		schema = ObjectSchema(nil)
	}
	return &FunctionTool{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// funcName derives a tool name from the function's symbol name.
func funcName(fn Function) string {
	if fn == nil {
		return ""
	}
	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	if idx := strings.LastIndex(name, "."); idx > -1 {
		name = name[idx+1:]
	}
	return name
}

// Name implements [types.Tool].
func (t *FunctionTool) Name() string {
	return t.name
}

// Description implements [types.Tool].
func (t *FunctionTool) Description() string {
	return t.description
}

// InputSchema implements [types.Tool].
func (t *FunctionTool) InputSchema() map[string]any {
	return t.schema
}

// Call implements [types.Tool]. The arguments map is cloned before the
// wrapped function sees it, so tools can mutate their view freely.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, maps.Clone(args))
}

// ObjectSchema builds the {"type":"object"} JSON schema MCP clients expect,
// with the given property definitions and required property names.
func ObjectSchema(properties map[string]any, required ...string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
