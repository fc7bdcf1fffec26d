// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tokenstats

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Counter is the slice of the Gemini API the service needs.
type Counter interface {
	// CountTokens returns the token count of prompt for model.
	CountTokens(ctx context.Context, model, prompt string) (int, error)

	// GenerateContent runs prompt through model and reports the result
	// with its usage counts.
	GenerateContent(ctx context.Context, model, prompt string) (*GenerateResult, error)
}

// GenerateResult is the outcome of one generation call.
type GenerateResult struct {
	// Text is the generated response text.
	Text string

	// InputTokens is the prompt token count from usage metadata.
	InputTokens int

	// OutputTokens is the candidate token count from usage metadata.
	OutputTokens int
}

// genaiCounter adapts a [genai.Client] to [Counter].
type genaiCounter struct {
	client *genai.Client
}

var _ Counter = (*genaiCounter)(nil)

// NewCounter wraps client in the [Counter] interface.
func NewCounter(client *genai.Client) Counter {
	return &genaiCounter{client: client}
}

// CountTokens implements [Counter].
func (c *genaiCounter) CountTokens(ctx context.Context, model, prompt string) (int, error) {
	resp, err := c.client.Models.CountTokens(ctx, model, textContents(prompt), nil)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return int(resp.TotalTokens), nil
}

// GenerateContent implements [Counter].
func (c *genaiCounter) GenerateContent(ctx context.Context, model, prompt string) (*GenerateResult, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, textContents(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	result := &GenerateResult{Text: resp.Text()}
	if um := resp.UsageMetadata; um != nil {
		result.InputTokens = int(um.PromptTokenCount)
		result.OutputTokens = int(um.CandidatesTokenCount)
	}
	return result, nil
}

func textContents(prompt string) []*genai.Content {
	return []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
	}}
}

// offlineCounter is a [Counter] with no API client behind it.
type offlineCounter struct {
	err error
}

var _ Counter = (*offlineCounter)(nil)

// NewOfflineCounter returns a [Counter] that fails every call with the
// given reason. It keeps servers and generators constructible when no
// Gemini credentials are configured; callers degrade per request instead
// of failing at startup.
func NewOfflineCounter(reason string) Counter {
	return &offlineCounter{err: fmt.Errorf("gemini api not configured: %s", reason)}
}

// CountTokens implements [Counter].
func (c *offlineCounter) CountTokens(ctx context.Context, model, prompt string) (int, error) {
	return 0, c.err
}

// GenerateContent implements [Counter].
func (c *offlineCounter) GenerateContent(ctx context.Context, model, prompt string) (*GenerateResult, error) {
	return nil, c.err
}
