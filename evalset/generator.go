// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package evalset

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/go-a2a/agentops/internal/pool"
	"github.com/go-a2a/agentops/pkg/logging"
	"github.com/go-a2a/agentops/tokenstats"
	"github.com/go-a2a/agentops/types"
)

// DefaultModel is the model used for case synthesis unless overridden.
const DefaultModel = "gemini-2.5-flash-lite"

// Variant pools cases are drawn from, per category.
var (
	// PositiveTaskTypes are the valid task shapes of a positive set.
	PositiveTaskTypes = []string{"multi_doc_qa", "summarization", "classification", "extraction"}

	// NegativeTaskTypes are the corruption shapes of a negative set.
	NegativeTaskTypes = []string{"corrupt_json", "reversed_instructions", "misleading_labels", "missing_fields", "token_overflow"}

	// AdversarialTaskTypes are the challenge shapes of an adversarial set.
	AdversarialTaskTypes = []string{"contradictory_facts", "distractor_paragraphs", "random_noise", "unicode_edge_cases"}

	// StressTaskTypes are the load shapes of a stress set.
	StressTaskTypes = []string{"long_context", "deep_reasoning", "chain_tests"}
)

const (
	// Stress prompts aim for a size inside these bounds.
	stressMinTokens = 512
	stressMaxTokens = 4096

	// overflowTokens is the size a token_overflow input must reach before
	// it counts as an overflow.
	overflowTokens = 4096

	// defaultConcurrency bounds parallel case synthesis.
	defaultConcurrency = 8
)

// TaskTypesFor returns the variant pool for the category, or nil for an
// unknown category.
func TaskTypesFor(category types.EvalCategory) []string {
	switch category {
	case types.EvalPositive:
		return PositiveTaskTypes
	case types.EvalNegative:
		return NegativeTaskTypes
	case types.EvalAdversarial:
		return AdversarialTaskTypes
	case types.EvalStress:
		return StressTaskTypes
	default:
		return nil
	}
}

// Generator synthesizes evaluation cases through a text model. The model
// surface is the tokenstats [tokenstats.Counter]: generation produces the
// case bodies and token counting sizes stress and overflow inputs.
type Generator struct {
	counter     tokenstats.Counter
	model       string
	concurrency int
}

// GeneratorOption configures a [Generator].
type GeneratorOption func(*Generator)

// WithModel sets the model used for case synthesis.
func WithModel(model string) GeneratorOption {
	return func(g *Generator) {
		g.model = model
	}
}

// WithConcurrency bounds how many cases are synthesized in parallel.
func WithConcurrency(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// NewGenerator creates a [Generator] backed by the given counter.
func NewGenerator(counter tokenstats.Counter, opts ...GeneratorOption) *Generator {
	g := &Generator{
		counter:     counter,
		model:       DefaultModel,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateSet synthesizes count cases of the given category for an agent.
// Individual synthesis failures degrade to deterministic stub cases, so the
// returned slice always holds count cases unless the context is canceled.
func (g *Generator) GenerateSet(ctx context.Context, agentID, description string, category types.EvalCategory, count int) ([]*types.EvalCase, error) {
	if !category.Valid() {
		return nil, &types.ValidationError{Field: "category", Message: fmt.Sprintf("unknown eval category %q", category)}
	}
	if count <= 0 {
		count = category.DefaultCount()
	}

	variants := TaskTypesFor(category)
	cases := make([]*types.EvalCase, count)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i := range count {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			taskType := variants[rand.IntN(len(variants))]
			cases[i] = g.generateCase(gctx, agentID, description, category, taskType)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("generate %s eval set for %s: %w", category, agentID, err)
	}

	logging.FromContext(ctx).InfoContext(ctx, "generated eval set",
		"agent_id", agentID,
		"category", string(category),
		"count", len(cases),
	)
	return cases, nil
}

// GenerateCase synthesizes a single case. A zero taskType picks a random
// variant from the category's pool.
func (g *Generator) GenerateCase(ctx context.Context, agentID, description string, category types.EvalCategory, taskType string) (*types.EvalCase, error) {
	if !category.Valid() {
		return nil, &types.ValidationError{Field: "category", Message: fmt.Sprintf("unknown eval category %q", category)}
	}
	if taskType == "" {
		variants := TaskTypesFor(category)
		taskType = variants[rand.IntN(len(variants))]
	}
	return g.generateCase(ctx, agentID, description, category, taskType), nil
}

func (g *Generator) generateCase(ctx context.Context, agentID, description string, category types.EvalCategory, taskType string) *types.EvalCase {
	switch category {
	case types.EvalNegative:
		return g.negativeCase(ctx, agentID, description, taskType)
	case types.EvalAdversarial:
		return g.adversarialCase(ctx, agentID, description, taskType)
	case types.EvalStress:
		return g.stressCase(ctx, agentID, description, taskType)
	default:
		return g.positiveCase(ctx, agentID, description, taskType)
	}
}

func (g *Generator) positiveCase(ctx context.Context, agentID, description, taskType string) *types.EvalCase {
	prompt := heredoc.Docf(`
		Generate a realistic positive test case for an agent with the following description: %q

		Task type: %s

		Generate a JSON object with:
		- task: the task type
		- input: a realistic input for this agent (can be text or structured data)
		- expected_output: the expected output/response from the agent

		Make it realistic and practical. Return ONLY the JSON object, no other text.
	`, description, taskType)

	c := g.synthesize(ctx, prompt)
	if c == nil {
		c = &replyCase{
			Task:           taskType,
			Input:          map[string]any{"text": "Test input for agent"},
			ExpectedOutput: map[string]any{"type": "response", "value": "Expected output"},
		}
	}
	return &types.EvalCase{
		ID:               uuid.New().String(),
		Category:         types.EvalPositive,
		Task:             c.Task,
		Input:            c.Input,
		ExpectedOutput:   c.ExpectedOutput,
		ExpectedBehavior: types.BehaviorPass,
		Metadata: types.EvalCaseMetadata{
			TaskType: taskType,
			AgentID:  agentID,
		},
	}
}

func (g *Generator) negativeCase(ctx context.Context, agentID, description, taskType string) *types.EvalCase {
	prompt := heredoc.Docf(`
		Generate a negative test case for an agent with the following description: %q

		Negative type: %s

		Generate a JSON object with a CORRUPT or INVALID input that should cause the agent to fail:
		- task: the task type
		- input: a corrupt/invalid input (corrupt JSON, missing fields, reversed instructions, misleading labels, or token overflow)
		- expected_output: null (should fail)

		The input should be specifically designed to cause failure. Return ONLY the JSON object, no other text.
	`, description, taskType)

	c := g.synthesize(ctx, prompt)
	if c == nil {
		c = &replyCase{
			Task:  "extract_customer_id",
			Input: "{This is broken JSON and missing id}",
		}
	}

	// Overflow inputs below the limit are still valid prompts, so pad them
	// until they actually overflow.
	if taskType == "token_overflow" {
		text := renderInput(c.Input)
		if g.countTokens(ctx, text) < overflowTokens {
			c.Input = strings.Repeat(text, 5)
		}
	}

	return &types.EvalCase{
		ID:               uuid.New().String(),
		Category:         types.EvalNegative,
		Task:             c.Task,
		Input:            c.Input,
		ExpectedOutput:   c.ExpectedOutput,
		ExpectedBehavior: types.BehaviorFail,
		Metadata: types.EvalCaseMetadata{
			TaskType:   taskType,
			AgentID:    agentID,
			ShouldFail: true,
		},
	}
}

func (g *Generator) adversarialCase(ctx context.Context, agentID, description, taskType string) *types.EvalCase {
	prompt := heredoc.Docf(`
		Generate an adversarial test case for an agent with the following description: %q

		Adversarial type: %s

		Generate a JSON object with challenging input that tests consistency and hallucination-freeness:
		- task: the task type
		- input: adversarial input (contradictory facts, distractor paragraphs, random noise, or unicode edge cases)
		- expected_output: the response a consistent, hallucination-free agent would give

		The agent should respond consistently and without hallucination despite the challenging input. Return ONLY the JSON object, no other text.
	`, description, taskType)

	c := g.synthesize(ctx, prompt)
	if c == nil {
		c = &replyCase{
			Task: "qa",
			Input: map[string]any{
				"question": "What is the capital of France?",
				"context":  "The capital of France is Paris. However, some sources incorrectly state that Lyon is the capital.",
			},
			ExpectedOutput: map[string]any{"type": "answer", "value": "Paris", "consistent": true},
		}
	}
	return &types.EvalCase{
		ID:               uuid.New().String(),
		Category:         types.EvalAdversarial,
		Task:             c.Task,
		Input:            c.Input,
		ExpectedOutput:   c.ExpectedOutput,
		ExpectedBehavior: types.BehaviorFail,
		Metadata: types.EvalCaseMetadata{
			TaskType:           taskType,
			AgentID:            agentID,
			ShouldBeConsistent: true,
		},
	}
}

func (g *Generator) stressCase(ctx context.Context, agentID, description, taskType string) *types.EvalCase {
	targetTokens := stressMinTokens + rand.IntN(stressMaxTokens-stressMinTokens+1)

	prompt := heredoc.Docf(`
		Generate a stress test case for an agent with the following description: %q

		Stress type: %s
		Target tokens: %d

		Generate a JSON object with a stress test that uses approximately %d tokens:
		- task: the task type
		- input: a stress test input (long context, deep reasoning with 10+ steps, or chain of tasks)
		- expected_output: the expected response

		Make the input use approximately %d tokens. Return ONLY the JSON object, no other text.
	`, description, taskType, targetTokens, targetTokens, targetTokens)

	c := g.synthesize(ctx, prompt)
	if c == nil {
		c = stressStub(taskType, targetTokens)
	} else {
		// Models routinely undershoot the requested size, so measure and
		// inflate inputs that land below 80% of the target.
		text := renderInput(c.Input)
		if actual := g.countTokens(ctx, text); actual > 0 && actual < targetTokens*8/10 {
			multiplier := int(float64(targetTokens) / float64(actual) * 1.5)
			c.Input = inflateInput(c.Input, multiplier)
		}
	}

	return &types.EvalCase{
		ID:               uuid.New().String(),
		Category:         types.EvalStress,
		Task:             c.Task,
		Input:            c.Input,
		ExpectedOutput:   c.ExpectedOutput,
		ExpectedBehavior: types.BehaviorPass,
		Metadata: types.EvalCaseMetadata{
			TaskType:     taskType,
			AgentID:      agentID,
			TargetTokens: targetTokens,
		},
	}
}

// replyCase is the shape a synthesis reply is parsed into.
type replyCase struct {
	Task           string `json:"task"`
	Input          any    `json:"input"`
	ExpectedOutput any    `json:"expected_output"`
}

// synthesize asks the model for one case and parses the first JSON object
// out of the reply. It returns nil when the model call fails or the reply
// holds no usable JSON.
func (g *Generator) synthesize(ctx context.Context, prompt string) *replyCase {
	result, err := g.counter.GenerateContent(ctx, g.model, prompt)
	if err != nil {
		logging.FromContext(ctx).DebugContext(ctx, "case synthesis failed, using stub", "error", err.Error())
		return nil
	}
	c, ok := extractCase(result.Text)
	if !ok {
		return nil
	}
	return c
}

// extractCase pulls the first balanced-looking JSON object out of text by
// slicing from the first "{" to the last "}".
func extractCase(text string) (*replyCase, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	var c replyCase
	if err := sonic.Unmarshal([]byte(text[start:end+1]), &c); err != nil {
		return nil, false
	}
	if c.Task == "" && c.Input == nil {
		return nil, false
	}
	return &c, true
}

// stressStub builds the deterministic fallback for a stress variant.
func stressStub(taskType string, targetTokens int) *replyCase {
	switch taskType {
	case "deep_reasoning":
		steps := 10 + rand.IntN(11)
		return &replyCase{
			Task:           "reasoning",
			Input:          map[string]any{"problem": "Solve this multi-step problem", "reasoning_steps": steps},
			ExpectedOutput: map[string]any{"type": "reasoning", "steps": steps},
		}
	case "chain_tests":
		chainLength := 5 + rand.IntN(11)
		tasks := make([]any, chainLength)
		for i := range tasks {
			tasks[i] = fmt.Sprintf("Task %d", i)
		}
		return &replyCase{
			Task:           "chain",
			Input:          map[string]any{"tasks": tasks},
			ExpectedOutput: map[string]any{"type": "chain_result", "length": chainLength},
		}
	default: // long_context
		n := max(targetTokens/500, 1)
		filler := strings.Repeat("Lorem ipsum ", 100)
		sb := pool.String.Get()
		sb.Reset()
		for i := range n {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "Paragraph %d: %s", i, filler)
		}
		context := sb.String()
		pool.String.Put(sb)
		return &replyCase{
			Task:           "qa",
			Input:          map[string]any{"context": context, "question": "What is mentioned in paragraph 5?"},
			ExpectedOutput: map[string]any{"type": "answer"},
		}
	}
}

// countTokens sizes text through the counter, estimating four tokens per
// word when the counter is unavailable.
func (g *Generator) countTokens(ctx context.Context, text string) int {
	n, err := g.counter.CountTokens(ctx, g.model, text)
	if err != nil || n <= 0 {
		return len(strings.Fields(text)) * 4
	}
	return n
}

// renderInput flattens a case input to the text that would be prompted.
func renderInput(input any) string {
	switch v := input.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		b, err := sonic.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// inflateInput repeats the string content of input multiplier times.
// Non-string leaves are left alone.
func inflateInput(input any, multiplier int) any {
	if multiplier <= 1 {
		return input
	}
	switch v := input.(type) {
	case string:
		return strings.Repeat(v, multiplier)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			if s, ok := value.(string); ok {
				out[key] = strings.Repeat(s, multiplier)
				continue
			}
			out[key] = value
		}
		return out
	default:
		return input
	}
}
