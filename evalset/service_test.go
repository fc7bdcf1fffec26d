// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package evalset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/agentops/types"
)

// fakeDirectory scripts agent-description lookups.
type fakeDirectory struct {
	record *types.AgentRecord
	err    error
}

var _ AgentDirectory = (*fakeDirectory)(nil)

func (f *fakeDirectory) Get(ctx context.Context, id string) (*types.AgentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

// failStore wraps a Store and fails writes for selected categories.
type failStore struct {
	Store
	failing map[types.EvalCategory]bool
}

func (f *failStore) Write(ctx context.Context, agentID string, category types.EvalCategory, cases []*types.EvalCase) (string, error) {
	if f.failing[category] {
		return "", errors.New("disk full")
	}
	return f.Store.Write(ctx, agentID, category, cases)
}

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	gen := NewGenerator(&fakeModel{
		tokens: 9000,
		reply:  `{"task": "qa", "input": "hello", "expected_output": "world"}`,
	})
	opts = append([]ServiceOption{WithStore(NewDirStore(t.TempDir()))}, opts...)
	return NewService(gen, opts...)
}

func TestGenerateSetSkipsExisting(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	ctx := t.Context()
	req := &GenerateRequest{AgentID: "demo", Category: types.EvalAdversarial, Count: 3}

	first, err := s.GenerateSet(ctx, req)
	if err != nil {
		t.Fatalf("GenerateSet() error = %v", err)
	}
	if first.Status != StatusSuccess || first.Generated != 3 {
		t.Fatalf("GenerateSet() = %+v, want success with 3 cases", first)
	}

	second, err := s.GenerateSet(ctx, req)
	if err != nil {
		t.Fatalf("GenerateSet() second call error = %v", err)
	}
	if second.Status != StatusSkipped {
		t.Errorf("Status = %q, want %q", second.Status, StatusSkipped)
	}
	if !strings.Contains(second.Message, "already exists") {
		t.Errorf("Message = %q, want a skip explanation", second.Message)
	}
	if second.OutputFile == "" {
		t.Error("OutputFile is empty on skip")
	}

	forced, err := s.GenerateSet(ctx, &GenerateRequest{AgentID: "demo", Category: types.EvalAdversarial, Count: 3, ForceRegenerate: true})
	if err != nil {
		t.Fatalf("GenerateSet() forced error = %v", err)
	}
	if forced.Status != StatusSuccess {
		t.Errorf("forced Status = %q, want %q", forced.Status, StatusSuccess)
	}
}

func TestGenerateSetDefaultCount(t *testing.T) {
	t.Parallel()

	s := newTestService(t)

	result, err := s.GenerateSet(t.Context(), &GenerateRequest{AgentID: "demo", Category: types.EvalAdversarial})
	if err != nil {
		t.Fatalf("GenerateSet() error = %v", err)
	}
	if result.Generated != 400 {
		t.Errorf("Generated = %d, want the adversarial default 400", result.Generated)
	}
	if result.Method != MethodDynamicLLM {
		t.Errorf("Method = %q, want %q", result.Method, MethodDynamicLLM)
	}
}

func TestGenerateSetValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       *GenerateRequest
		wantField string
	}{
		{
			name:      "nil request",
			req:       nil,
			wantField: "request",
		},
		{
			name:      "missing agent id",
			req:       &GenerateRequest{Category: types.EvalPositive},
			wantField: "agent_id",
		},
		{
			name:      "unknown category",
			req:       &GenerateRequest{AgentID: "demo", Category: "bogus"},
			wantField: "set_type",
		},
		{
			name:      "negative count",
			req:       &GenerateRequest{AgentID: "demo", Category: types.EvalPositive, Count: -1},
			wantField: "count",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestService(t)
			_, err := s.GenerateSet(t.Context(), tt.req)
			var verr *types.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("GenerateSet() error = %v, want *types.ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestCreateForAgent(t *testing.T) {
	t.Parallel()

	s := newTestService(t)

	result, err := s.CreateForAgent(t.Context(), "fresh", false)
	if err != nil {
		t.Fatalf("CreateForAgent() error = %v", err)
	}
	if result.Status != StatusSuccess {
		t.Errorf("Status = %q, want %q", result.Status, StatusSuccess)
	}
	if result.Method != MethodDynamicLLM {
		t.Errorf("Method = %q, want %q", result.Method, MethodDynamicLLM)
	}
	if len(result.SetsSkipped) != 0 || len(result.Errors) != 0 {
		t.Errorf("SetsSkipped = %v, Errors = %v, want both empty", result.SetsSkipped, result.Errors)
	}

	var categories []types.EvalCategory
	var counts []int
	for _, created := range result.SetsCreated {
		categories = append(categories, created.Category)
		counts = append(counts, created.Count)
	}
	if diff := cmp.Diff(types.EvalCategories(), categories); diff != "" {
		t.Errorf("created categories mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1000, 600, 400, 1000}, counts); diff != "" {
		t.Errorf("created counts mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateForAgentSkipsExistingSuite(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	ctx := t.Context()

	if _, err := s.CreateForAgent(ctx, "demo", false); err != nil {
		t.Fatalf("CreateForAgent() error = %v", err)
	}

	second, err := s.CreateForAgent(ctx, "demo", false)
	if err != nil {
		t.Fatalf("CreateForAgent() second call error = %v", err)
	}
	if second.Status != StatusSkipped {
		t.Errorf("Status = %q, want %q", second.Status, StatusSkipped)
	}
	if len(second.SetsSkipped) != 4 || len(second.SetsCreated) != 0 {
		t.Errorf("SetsSkipped = %d, SetsCreated = %d, want 4 and 0", len(second.SetsSkipped), len(second.SetsCreated))
	}
}

func TestCreateForAgentPartialFailure(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(&fakeModel{tokens: 9000, reply: `{"task": "qa", "input": "hi"}`})
	store := &failStore{
		Store:   NewDirStore(t.TempDir()),
		failing: map[types.EvalCategory]bool{types.EvalStress: true},
	}
	s := NewService(gen, WithStore(store))

	result, err := s.CreateForAgent(t.Context(), "demo", false)
	if err != nil {
		t.Fatalf("CreateForAgent() error = %v", err)
	}
	if result.Status != StatusPartialSuccess {
		t.Errorf("Status = %q, want %q", result.Status, StatusPartialSuccess)
	}
	if len(result.SetsCreated) != 3 {
		t.Errorf("SetsCreated = %d, want 3", len(result.SetsCreated))
	}
	if len(result.Errors) != 1 || result.Errors[0].Category != types.EvalStress {
		t.Errorf("Errors = %+v, want one stress failure", result.Errors)
	}
}

func TestCreateForAgentAllFailing(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(&fakeModel{tokens: 9000, reply: `{"task": "qa", "input": "hi"}`})
	store := &failStore{
		Store: NewDirStore(t.TempDir()),
		failing: map[types.EvalCategory]bool{
			types.EvalPositive:    true,
			types.EvalNegative:    true,
			types.EvalAdversarial: true,
			types.EvalStress:      true,
		},
	}
	s := NewService(gen, WithStore(store))

	result, err := s.CreateForAgent(t.Context(), "demo", false)
	if err != nil {
		t.Fatalf("CreateForAgent() error = %v", err)
	}
	if result.Status != StatusError {
		t.Errorf("Status = %q, want %q", result.Status, StatusError)
	}
	if len(result.Errors) != 4 {
		t.Errorf("Errors = %d, want 4", len(result.Errors))
	}
}

func TestGenerateSetDescriptionGrounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		directory AgentDirectory
		want      string
	}{
		{
			name:      "directory description flows into the prompt",
			directory: &fakeDirectory{record: &types.AgentRecord{ID: "demo", Description: "Summarizes legal documents"}},
			want:      "Summarizes legal documents",
		},
		{
			name:      "lookup failure falls back to a generic description",
			directory: &fakeDirectory{err: errors.New("inventory down")},
			want:      "Agent demo",
		},
		{
			name:      "no directory configured",
			directory: nil,
			want:      "Agent demo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			model := &fakeModel{tokens: 9000, reply: `{"task": "qa", "input": "hi"}`}
			gen := NewGenerator(model, WithConcurrency(1))
			opts := []ServiceOption{WithStore(NewDirStore(t.TempDir()))}
			if tt.directory != nil {
				opts = append(opts, WithDirectory(tt.directory))
			}
			s := NewService(gen, opts...)

			if _, err := s.GenerateSet(t.Context(), &GenerateRequest{AgentID: "demo", Category: types.EvalPositive, Count: 1}); err != nil {
				t.Fatalf("GenerateSet() error = %v", err)
			}

			model.mu.Lock()
			defer model.mu.Unlock()
			if len(model.prompts) != 1 {
				t.Fatalf("model saw %d prompts, want 1", len(model.prompts))
			}
			if !strings.Contains(model.prompts[0], tt.want) {
				t.Errorf("prompt does not mention %q:\n%s", tt.want, model.prompts[0])
			}
		})
	}
}
