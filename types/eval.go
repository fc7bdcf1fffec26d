// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package types

// EvalCategory names one of the four evaluation-set categories.
type EvalCategory string

const (
	// EvalPositive holds valid tasks the agent is expected to complete.
	EvalPositive EvalCategory = "positive"

	// EvalNegative holds corrupt or invalid inputs the agent is expected
	// to fail on.
	EvalNegative EvalCategory = "negative"

	// EvalAdversarial holds challenging inputs probing consistency and
	// hallucination-freeness; a refusal counts as the correct outcome.
	EvalAdversarial EvalCategory = "adversarial"

	// EvalStress holds long prompts between 512 and 4096 tokens.
	EvalStress EvalCategory = "stress"
)

// EvalCategories lists all categories in generation order.
func EvalCategories() []EvalCategory {
	return []EvalCategory{EvalPositive, EvalNegative, EvalAdversarial, EvalStress}
}

// DefaultCount returns the default number of cases generated for the
// category. Unknown categories fall back to 100.
func (c EvalCategory) DefaultCount() int {
	switch c {
	case EvalPositive:
		return 1000
	case EvalNegative:
		return 600
	case EvalAdversarial:
		return 400
	case EvalStress:
		return 1000
	default:
		return 100
	}
}

// ExpectsFailure reports whether cases of this category count an executor
// failure as the expected outcome.
func (c EvalCategory) ExpectsFailure() bool {
	return c == EvalNegative || c == EvalAdversarial
}

// Valid reports whether c is one of the four known categories.
func (c EvalCategory) Valid() bool {
	switch c {
	case EvalPositive, EvalNegative, EvalAdversarial, EvalStress:
		return true
	default:
		return false
	}
}

// Expected behavior values carried on an [EvalCase].
const (
	// BehaviorPass marks a case whose execution is expected to succeed.
	BehaviorPass = "pass"

	// BehaviorFail marks a case whose execution is expected to fail.
	BehaviorFail = "fail"
)

// EvalCaseMetadata annotates an eval case with its provenance.
type EvalCaseMetadata struct {
	// TaskType is the variant within the category, for example
	// "multi_doc_qa" or "corrupt_json".
	TaskType string `json:"task_type,omitempty"`

	// AgentID is the agent the case was generated for.
	AgentID string `json:"agent_id"`

	// TargetTokens is the prompt size a stress case aims for.
	TargetTokens int `json:"target_tokens,omitempty"`

	// ShouldFail marks negative cases whose input is designed to break
	// the agent.
	ShouldFail bool `json:"should_fail,omitempty"`

	// ShouldBeConsistent marks adversarial cases that probe for
	// hallucination under misleading context.
	ShouldBeConsistent bool `json:"should_be_consistent,omitempty"`
}

// EvalCase is one generated evaluation example. Input and ExpectedOutput
// are free-form, either plain strings or structured objects, matching
// whatever the generating model produced.
type EvalCase struct {
	// ID uniquely identifies the case within its set.
	ID string `json:"id"`

	// Category is the evaluation-set category the case belongs to.
	Category EvalCategory `json:"category"`

	// Task names what the agent is asked to do.
	Task string `json:"task"`

	// Input is the prompt or structured payload handed to the agent.
	Input any `json:"input"`

	// ExpectedOutput is the reference output; nil for cases that are
	// expected to fail.
	ExpectedOutput any `json:"expected_output"`

	// ExpectedBehavior is [BehaviorPass] or [BehaviorFail].
	ExpectedBehavior string `json:"expected_behavior"`

	// Metadata carries the case provenance.
	Metadata EvalCaseMetadata `json:"metadata"`
}
