// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package evalset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-a2a/agentops/types"
)

// Status summarizes a set-level operation.
type Status string

const (
	// StatusSuccess means every requested set was generated.
	StatusSuccess Status = "success"

	// StatusPartialSuccess means some sets were generated and some failed.
	StatusPartialSuccess Status = "partial_success"

	// StatusSkipped means nothing was generated because every requested
	// set already existed.
	StatusSkipped Status = "skipped"

	// StatusError means nothing was generated and at least one set failed.
	StatusError Status = "error"
)

// MethodDynamicLLM names the LLM-backed generation method on results.
const MethodDynamicLLM = "dynamic_llm"

// AgentDirectory resolves agent descriptions so generation prompts can be
// grounded in what the agent actually does. An inventory store satisfies
// it.
type AgentDirectory interface {
	Get(ctx context.Context, id string) (*types.AgentRecord, error)
}

// Service implements the set-level evaluation operations: generation with
// skip-if-exists semantics and whole-suite creation for a new agent.
type Service struct {
	gen       *Generator
	store     Store
	directory AgentDirectory
	logger    *slog.Logger
}

// ServiceOption configures a [Service].
type ServiceOption func(*Service)

// WithStore sets the suite store. Defaults to a [DirStore] under
// [DefaultSuiteDir].
func WithStore(store Store) ServiceOption {
	return func(s *Service) {
		s.store = store
	}
}

// WithDirectory sets the agent-description source. Without one, prompts
// fall back to a generic description.
func WithDirectory(directory AgentDirectory) ServiceOption {
	return func(s *Service) {
		s.directory = directory
	}
}

// WithLogger sets the logger used by the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a [Service] around the given generator.
func NewService(gen *Generator, opts ...ServiceOption) *Service {
	s := &Service{
		gen:    gen,
		store:  NewDirStore(""),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateRequest asks for one evaluation set.
type GenerateRequest struct {
	// AgentID is the agent to generate for.
	AgentID string `json:"agent_id"`

	// Category is the set category to generate.
	Category types.EvalCategory `json:"set_type"`

	// Count overrides the category's default size when positive.
	Count int `json:"count,omitempty"`

	// ForceRegenerate overwrites an existing set instead of skipping.
	ForceRegenerate bool `json:"force_regenerate,omitempty"`
}

// GenerateResult reports one set generation.
type GenerateResult struct {
	Status   Status             `json:"status"`
	AgentID  string             `json:"agent_id"`
	Category types.EvalCategory `json:"set_type"`

	// Generated is how many cases were produced and stored.
	Generated int `json:"generated,omitempty"`

	// Method is [MethodDynamicLLM] for generated sets.
	Method string `json:"method,omitempty"`

	// OutputFile is where the set is stored.
	OutputFile string `json:"output_file,omitempty"`

	// Message explains a skipped generation.
	Message string `json:"message,omitempty"`
}

// GenerateSet generates and stores one evaluation set. An existing set is
// skipped, not overwritten, unless the request forces regeneration.
func (s *Service) GenerateSet(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	switch {
	case req == nil:
		return nil, &types.ValidationError{Field: "request", Message: "request is required"}
	case req.AgentID == "":
		return nil, &types.ValidationError{Field: "agent_id", Message: "agent_id is required"}
	case !req.Category.Valid():
		return nil, &types.ValidationError{Field: "set_type", Message: fmt.Sprintf("unknown eval category %q", req.Category)}
	case req.Count < 0:
		return nil, &types.ValidationError{Field: "count", Message: "count must not be negative"}
	}

	count := req.Count
	if count == 0 {
		count = req.Category.DefaultCount()
	}

	if !req.ForceRegenerate {
		exists, err := s.store.Exists(ctx, req.AgentID, req.Category)
		if err != nil {
			return nil, fmt.Errorf("check for existing eval set: %w", err)
		}
		if exists {
			s.logger.InfoContext(ctx, "eval set exists, skipping generation",
				slog.String("agent_id", req.AgentID),
				slog.String("set_type", string(req.Category)),
			)
			return &GenerateResult{
				Status:     StatusSkipped,
				AgentID:    req.AgentID,
				Category:   req.Category,
				OutputFile: s.store.Location(req.AgentID, req.Category),
				Message:    fmt.Sprintf("eval set already exists for %s/%s; set force_regenerate to regenerate", req.AgentID, req.Category),
			}, nil
		}
	}

	cases, err := s.gen.GenerateSet(ctx, req.AgentID, s.description(ctx, req.AgentID), req.Category, count)
	if err != nil {
		return nil, err
	}

	path, err := s.store.Write(ctx, req.AgentID, req.Category, cases)
	if err != nil {
		return nil, fmt.Errorf("store eval set: %w", err)
	}

	s.logger.InfoContext(ctx, "eval set generated",
		slog.String("agent_id", req.AgentID),
		slog.String("set_type", string(req.Category)),
		slog.Int("generated", len(cases)),
		slog.String("output_file", path),
	)
	return &GenerateResult{
		Status:     StatusSuccess,
		AgentID:    req.AgentID,
		Category:   req.Category,
		Generated:  len(cases),
		Method:     MethodDynamicLLM,
		OutputFile: path,
	}, nil
}

// CreatedSet reports one generated category of a suite creation.
type CreatedSet struct {
	Category types.EvalCategory `json:"set_type"`
	Count    int                `json:"count"`
	File     string             `json:"file"`
}

// SkippedSet reports one category that already existed.
type SkippedSet struct {
	Category types.EvalCategory `json:"set_type"`
	Message  string             `json:"message"`
}

// SetError reports one category that failed to generate.
type SetError struct {
	Category types.EvalCategory `json:"set_type"`
	Error    string             `json:"error"`
}

// CreateResult reports a whole-suite creation.
type CreateResult struct {
	Status      Status       `json:"status"`
	AgentID     string       `json:"agent_id"`
	Method      string       `json:"method"`
	SetsCreated []CreatedSet `json:"sets_created"`
	SetsSkipped []SkippedSet `json:"sets_skipped"`
	Errors      []SetError   `json:"errors"`
}

// CreateForAgent generates all four category sets for an agent at their
// default sizes. Per-category failures do not stop the remaining
// categories; they are reported on the result instead, with the overall
// status degrading to partial_success, skipped or error accordingly.
func (s *Service) CreateForAgent(ctx context.Context, agentID string, forceRegenerate bool) (*CreateResult, error) {
	if agentID == "" {
		return nil, &types.ValidationError{Field: "agent_id", Message: "agent_id is required"}
	}

	result := &CreateResult{
		Status:      StatusSuccess,
		AgentID:     agentID,
		Method:      MethodDynamicLLM,
		SetsCreated: []CreatedSet{},
		SetsSkipped: []SkippedSet{},
		Errors:      []SetError{},
	}

	for _, category := range types.EvalCategories() {
		setResult, err := s.GenerateSet(ctx, &GenerateRequest{
			AgentID:         agentID,
			Category:        category,
			ForceRegenerate: forceRegenerate,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "eval set generation failed",
				slog.String("agent_id", agentID),
				slog.String("set_type", string(category)),
				slog.String("error", err.Error()),
			)
			result.Errors = append(result.Errors, SetError{Category: category, Error: err.Error()})
			continue
		}
		if setResult.Status == StatusSkipped {
			result.SetsSkipped = append(result.SetsSkipped, SkippedSet{Category: category, Message: setResult.Message})
			continue
		}
		result.SetsCreated = append(result.SetsCreated, CreatedSet{
			Category: category,
			Count:    setResult.Generated,
			File:     setResult.OutputFile,
		})
	}

	switch {
	case len(result.Errors) > 0 && len(result.SetsCreated) == 0:
		result.Status = StatusError
	case len(result.Errors) > 0:
		result.Status = StatusPartialSuccess
	case len(result.SetsSkipped) > 0 && len(result.SetsCreated) == 0:
		result.Status = StatusSkipped
	}
	return result, nil
}

// description resolves the agent's inventory description, falling back to
// a generic one for agents the directory does not know.
func (s *Service) description(ctx context.Context, agentID string) string {
	if s.directory != nil {
		if record, err := s.directory.Get(ctx, agentID); err == nil && record.Description != "" {
			return record.Description
		}
	}
	return fmt.Sprintf("Agent %s", agentID)
}
