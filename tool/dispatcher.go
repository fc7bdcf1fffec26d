// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-a2a/agentops/internal/xmaps"
	"github.com/go-a2a/agentops/types"
)

// Dispatcher is a name-indexed registry of [types.Tool] capabilities.
// It is safe for concurrent use.
type Dispatcher struct {
	mu    sync.RWMutex
	tools map[string]types.Tool
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		tools: make(map[string]types.Tool),
	}
}

// Register adds tools to the dispatcher. Registering a name twice is an
// error; tool names are a public API surface and silent replacement would
// hide wiring mistakes.
func (d *Dispatcher) Register(tools ...types.Tool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return fmt.Errorf("register tool: empty name")
		}
		if xmaps.Contains(d.tools, name) {
			return fmt.Errorf("register tool %q: already registered", name)
		}
		d.tools[name] = t
	}
	return nil
}

// Get returns the tool registered under name.
func (d *Dispatcher) Get(name string) (types.Tool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	t, ok := d.tools[name]
	if !ok {
		return nil, &types.ToolNotFoundError{Name: name}
	}
	return t, nil
}

// Tools returns the registered tools sorted by name.
func (d *Dispatcher) Tools() []types.Tool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]types.Tool, 0, len(d.tools))
	for _, name := range xmaps.SortedKeys(d.tools) {
		out = append(out, d.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.tools)
}

// Dispatch invokes the named tool with args.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (any, error) {
	t, err := d.Get(name)
	if err != nil {
		return nil, err
	}
	return t.Call(ctx, args)
}
