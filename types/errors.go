// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
)

// AgentNotFoundError is returned when an operation references an agent id
// that has no record in the inventory.
type AgentNotFoundError struct {
	AgentID string
}

func (e *AgentNotFoundError) Error() string {
	return fmt.Sprintf("agent '%s' not found in inventory", e.AgentID)
}

// ToolNotFoundError is returned when a dispatcher is asked for a tool name
// it has no registration for.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}

// ValidationError is returned when a request payload fails boundary
// validation before any work is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// UnavailableError is returned when a downstream MCP service cannot be
// reached at all, as opposed to reaching it and receiving an error.
type UnavailableError struct {
	Service string
	URL     string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cannot connect to %s at %s: %v", e.Service, e.URL, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// UpstreamError represents an error reported by an upstream provider or
// service. The original message is passed through unchanged.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

// ConfigurationError is returned when required configuration is missing or
// malformed.
type ConfigurationError struct {
	Parameter string
	Message   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Parameter, e.Message)
}
