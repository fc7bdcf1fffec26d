// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func reverseText(ctx context.Context, args map[string]any) (any, error) {
	s, _ := args["text"].(string)
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes), nil
}

func TestNewFunctionToolDerivesName(t *testing.T) {
	tl := NewFunctionTool("", "reverses text", nil, reverseText)

	if got, want := tl.Name(), "reverseText"; got != want {
		t.Errorf("Name() = %q, want %q", got, want)
	}
	if tl.InputSchema() == nil {
		t.Error("InputSchema() = nil, want default object schema")
	}
}

func TestFunctionToolCallClonesArgs(t *testing.T) {
	var seen map[string]any
	tl := NewFunctionTool("mutate", "", nil, func(ctx context.Context, args map[string]any) (any, error) {
		args["injected"] = true
		seen = args
		return nil, nil
	})

	in := map[string]any{"text": "abc"}
	if _, err := tl.Call(t.Context(), in); err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if _, ok := in["injected"]; ok {
		t.Error("Call() mutated the caller's arguments map")
	}
	if seen["injected"] != true {
		t.Error("wrapped function did not observe its own mutation")
	}
}

func TestObjectSchema(t *testing.T) {
	tests := []struct {
		name       string
		properties map[string]any
		required   []string
		want       map[string]any
	}{
		{
			name: "properties with required",
			properties: map[string]any{
				"agent_id": map[string]any{"type": "string"},
			},
			required: []string{"agent_id"},
			want: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"agent_id": map[string]any{"type": "string"},
				},
				"required": []string{"agent_id"},
			},
		},
		{
			name:       "nil properties",
			properties: nil,
			required:   nil,
			want: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ObjectSchema(tt.properties, tt.required...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ObjectSchema() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeArgs(t *testing.T) {
	type usageArgs struct {
		AgentID string `json:"agent_id"`
		Limit   int    `json:"limit"`
	}

	tests := []struct {
		name    string
		args    map[string]any
		want    usageArgs
		wantErr bool
	}{
		{
			name: "typed fields",
			args: map[string]any{"agent_id": "retriever", "limit": float64(5)},
			want: usageArgs{AgentID: "retriever", Limit: 5},
		},
		{
			name: "missing fields zeroed",
			args: map[string]any{"agent_id": "summarizer"},
			want: usageArgs{AgentID: "summarizer"},
		},
		{
			name:    "type mismatch",
			args:    map[string]any{"limit": "not a number"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeArgs[usageArgs](tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeArgs() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("DecodeArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
