// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/go-a2a/agentops/types"
)

// defaultTimeout bounds one MCP round trip when the caller supplies no
// http.Client of its own.
const defaultTimeout = 30 * time.Second

// Client calls an MCP server over HTTP JSON-RPC 2.0.
type Client struct {
	service string
	baseURL string
	hc      *http.Client
	ts      oauth2.TokenSource
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithTimeout sets the per-call timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// WithTokenSource attaches OAuth2 bearer tokens to every request, for MCP
// services deployed behind authenticated endpoints.
func WithTokenSource(ts oauth2.TokenSource) ClientOption {
	return func(c *Client) {
		c.ts = ts
	}
}

// NewClient returns a client for the MCP service at baseURL. The service
// name only labels errors; it does not affect routing.
func NewClient(service, baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server URL this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Service returns the service name this client was built with.
func (c *Client) Service() string {
	return c.service
}

// Initialize performs the MCP handshake.
func (c *Client) Initialize(ctx context.Context) (*InitializeResult, error) {
	raw, err := c.call(ctx, "initialize", nil)
	if err != nil {
		return nil, err
	}
	var result InitializeResult
	if err := sonic.ConfigFastest.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode initialize result: %w", err)
	}
	return &result, nil
}

// ListTools returns the tools the server advertises.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	raw, err := c.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}
	var result ListToolsResult
	if err := sonic.ConfigFastest.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode tools/list result: %w", err)
	}
	return result.Tools, nil
}

// CallTool invokes one tool and decodes its JSON text content back into a
// map. Results that are not JSON objects are returned under a "text" key.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	raw, err := c.call(ctx, "tools/call", &CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, err
	}

	var result CallToolResult
	if err := sonic.ConfigFastest.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode tools/call result: %w", err)
	}
	if len(result.Content) == 0 {
		return map[string]any{}, nil
	}

	text := result.Content[0].Text
	if result.IsError {
		return nil, &types.UpstreamError{Provider: c.service, Message: text}
	}

	var out map[string]any
	if err := sonic.ConfigFastest.Unmarshal([]byte(text), &out); err != nil {
		return map[string]any{"text": text}, nil
	}
	return out, nil
}

// Health probes the server's GET /health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return &types.UnavailableError{Service: c.service, URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &types.UpstreamError{Provider: c.service, StatusCode: resp.StatusCode, Message: "unhealthy"}
	}
	return nil
}

// call performs one JSON-RPC round trip and returns the raw result.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	req := Request{
		JSONRPC: Version,
		Method:  method,
		ID:      uuid.NewString(),
	}
	if params != nil {
		data, err := sonic.ConfigFastest.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode params: %w", err)
		}
		req.Params = data
	}

	body, err := sonic.ConfigFastest.Marshal(&req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if err := c.authorize(httpReq); err != nil {
		return nil, err
	}

	httpResp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, &types.UnavailableError{Service: c.service, URL: c.baseURL, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &types.UpstreamError{
			Provider:   c.service,
			StatusCode: httpResp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	var resp struct {
		JSONRPC string          `json:"jsonrpc"`
		Result  json.RawMessage `json:"result"`
		Error   *Error          `json:"error"`
		ID      any             `json:"id"`
	}
	if err := sonic.ConfigFastest.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, &types.UpstreamError{
			Provider: c.service,
			Message:  fmt.Sprintf("rpc error %d: %s", resp.Error.Code, resp.Error.Message),
		}
	}
	return resp.Result, nil
}

// authorize attaches a bearer token when a token source is configured.
func (c *Client) authorize(req *http.Request) error {
	if c.ts == nil {
		return nil
	}
	token, err := c.ts.Token()
	if err != nil {
		return fmt.Errorf("fetch access token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}
