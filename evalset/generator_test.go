// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package evalset

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/agentops/tokenstats"
	"github.com/go-a2a/agentops/types"
)

// fakeModel scripts the synthesis model for tests. GenerateSet calls it
// from several goroutines, so recorded prompts are mutex-guarded.
type fakeModel struct {
	reply    string
	genErr   error
	tokens   int
	countErr error

	mu      sync.Mutex
	prompts []string
}

var _ tokenstats.Counter = (*fakeModel)(nil)

func (f *fakeModel) CountTokens(ctx context.Context, model, prompt string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.tokens, nil
}

func (f *fakeModel) GenerateContent(ctx context.Context, model, prompt string) (*tokenstats.GenerateResult, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.genErr != nil {
		return nil, f.genErr
	}
	return &tokenstats.GenerateResult{Text: f.reply}, nil
}

func TestGenerateSetFromModelReply(t *testing.T) {
	t.Parallel()

	model := &fakeModel{
		tokens: 9000,
		reply: `Here is the test case:
{"task": "summarization", "input": {"text": "Summarize this article"}, "expected_output": {"type": "summary", "value": "A short summary"}}
Let me know if you need more.`,
	}
	g := NewGenerator(model, WithConcurrency(2))

	cases, err := g.GenerateSet(t.Context(), "summarizer", "Summarizes documents", types.EvalPositive, 5)
	if err != nil {
		t.Fatalf("GenerateSet() error = %v", err)
	}
	if len(cases) != 5 {
		t.Fatalf("GenerateSet() returned %d cases, want 5", len(cases))
	}

	for _, c := range cases {
		if c.ID == "" {
			t.Error("case ID is empty")
		}
		if c.Category != types.EvalPositive {
			t.Errorf("Category = %q, want %q", c.Category, types.EvalPositive)
		}
		if c.Task != "summarization" {
			t.Errorf("Task = %q, want summarization", c.Task)
		}
		if c.ExpectedBehavior != types.BehaviorPass {
			t.Errorf("ExpectedBehavior = %q, want %q", c.ExpectedBehavior, types.BehaviorPass)
		}
		if c.Metadata.AgentID != "summarizer" {
			t.Errorf("Metadata.AgentID = %q, want summarizer", c.Metadata.AgentID)
		}
		if !slices.Contains(PositiveTaskTypes, c.Metadata.TaskType) {
			t.Errorf("Metadata.TaskType = %q, not in positive pool", c.Metadata.TaskType)
		}
		input, ok := c.Input.(map[string]any)
		if !ok || input["text"] != "Summarize this article" {
			t.Errorf("Input = %#v, want parsed reply object", c.Input)
		}
	}
}

func TestGenerateSetFallsBackToStubs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		model *fakeModel
	}{
		{
			name:  "model call fails",
			model: &fakeModel{genErr: errors.New("quota exhausted"), tokens: 9000},
		},
		{
			name:  "reply holds no json",
			model: &fakeModel{reply: "I cannot help with that.", tokens: 9000},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := NewGenerator(tt.model)
			cases, err := g.GenerateSet(t.Context(), "demo", "Agent demo", types.EvalPositive, 3)
			if err != nil {
				t.Fatalf("GenerateSet() error = %v", err)
			}
			if len(cases) != 3 {
				t.Fatalf("GenerateSet() returned %d cases, want 3", len(cases))
			}

			wantInput := map[string]any{"text": "Test input for agent"}
			for _, c := range cases {
				if diff := cmp.Diff(wantInput, c.Input); diff != "" {
					t.Errorf("stub Input mismatch (-want +got):\n%s", diff)
				}
				if c.ExpectedBehavior != types.BehaviorPass {
					t.Errorf("ExpectedBehavior = %q, want %q", c.ExpectedBehavior, types.BehaviorPass)
				}
			}
		})
	}
}

func TestGenerateSetUnknownCategory(t *testing.T) {
	t.Parallel()

	g := NewGenerator(&fakeModel{tokens: 9000})
	_, err := g.GenerateSet(t.Context(), "demo", "Agent demo", types.EvalCategory("bogus"), 3)
	if err == nil {
		t.Fatal("GenerateSet() succeeded for unknown category")
	}
	var verr *types.ValidationError
	if !errors.As(err, &verr) || verr.Field != "category" {
		t.Errorf("error = %v, want validation error for category", err)
	}
}

func TestGenerateNegativeCase(t *testing.T) {
	t.Parallel()

	model := &fakeModel{
		tokens: 9000,
		reply:  `{"task": "extraction", "input": "{broken json, no closing brace", "expected_output": null}`,
	}
	g := NewGenerator(model)

	c, err := g.GenerateCase(t.Context(), "extractor", "Extracts fields", types.EvalNegative, "corrupt_json")
	if err != nil {
		t.Fatalf("GenerateCase() error = %v", err)
	}
	if c.Category != types.EvalNegative {
		t.Errorf("Category = %q, want %q", c.Category, types.EvalNegative)
	}
	if c.ExpectedBehavior != types.BehaviorFail {
		t.Errorf("ExpectedBehavior = %q, want %q", c.ExpectedBehavior, types.BehaviorFail)
	}
	if !c.Metadata.ShouldFail {
		t.Error("Metadata.ShouldFail = false, want true")
	}
	if c.Metadata.TaskType != "corrupt_json" {
		t.Errorf("Metadata.TaskType = %q, want corrupt_json", c.Metadata.TaskType)
	}
}

func TestGenerateNegativeTokenOverflowPadsInput(t *testing.T) {
	t.Parallel()

	// The counter reports the input far below the overflow threshold, so
	// the generator must pad it.
	model := &fakeModel{
		tokens: 100,
		reply:  `{"task": "qa", "input": "short input", "expected_output": null}`,
	}
	g := NewGenerator(model)

	c, err := g.GenerateCase(t.Context(), "demo", "Agent demo", types.EvalNegative, "token_overflow")
	if err != nil {
		t.Fatalf("GenerateCase() error = %v", err)
	}
	input, ok := c.Input.(string)
	if !ok {
		t.Fatalf("Input = %#v, want padded string", c.Input)
	}
	if want := strings.Repeat("short input", 5); input != want {
		t.Errorf("Input length = %d, want the original repeated 5 times (%d)", len(input), len(want))
	}
}

func TestGenerateStressCase(t *testing.T) {
	t.Parallel()

	t.Run("stub carries target tokens", func(t *testing.T) {
		t.Parallel()

		g := NewGenerator(&fakeModel{genErr: errors.New("unavailable")})
		c, err := g.GenerateCase(t.Context(), "demo", "Agent demo", types.EvalStress, "long_context")
		if err != nil {
			t.Fatalf("GenerateCase() error = %v", err)
		}
		if c.Metadata.TargetTokens < stressMinTokens || c.Metadata.TargetTokens > stressMaxTokens {
			t.Errorf("Metadata.TargetTokens = %d, want within [%d, %d]", c.Metadata.TargetTokens, stressMinTokens, stressMaxTokens)
		}
		if c.ExpectedBehavior != types.BehaviorPass {
			t.Errorf("ExpectedBehavior = %q, want %q", c.ExpectedBehavior, types.BehaviorPass)
		}
		input, ok := c.Input.(map[string]any)
		if !ok || input["question"] == nil {
			t.Errorf("Input = %#v, want long-context stub object", c.Input)
		}
	})

	t.Run("undersized reply is inflated", func(t *testing.T) {
		t.Parallel()

		// 100 tokens is below 80% of even the smallest possible target.
		model := &fakeModel{
			tokens: 100,
			reply:  `{"task": "qa", "input": "tiny", "expected_output": {"type": "answer"}}`,
		}
		g := NewGenerator(model)

		c, err := g.GenerateCase(t.Context(), "demo", "Agent demo", types.EvalStress, "long_context")
		if err != nil {
			t.Fatalf("GenerateCase() error = %v", err)
		}
		input, ok := c.Input.(string)
		if !ok {
			t.Fatalf("Input = %#v, want inflated string", c.Input)
		}
		if !strings.HasPrefix(input, "tinytiny") {
			t.Errorf("Input = %.20q..., want the reply input repeated", input)
		}
	})
}

func TestExtractCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "json embedded in prose",
			text: `Sure! {"task": "qa", "input": "hello"} Done.`,
			want: true,
		},
		{
			name: "bare json",
			text: `{"task": "qa", "input": {"question": "why"}}`,
			want: true,
		},
		{
			name: "no braces",
			text: "I cannot produce JSON.",
			want: false,
		},
		{
			name: "unbalanced braces",
			text: `{"task": "qa"`,
			want: false,
		},
		{
			name: "invalid json between braces",
			text: `{task: qa}`,
			want: false,
		},
		{
			name: "empty object",
			text: `{}`,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, ok := extractCase(tt.text)
			if ok != tt.want {
				t.Fatalf("extractCase(%q) ok = %t, want %t", tt.text, ok, tt.want)
			}
			if ok && c.Task == "" && c.Input == nil {
				t.Error("extractCase() returned an empty case")
			}
		})
	}
}
