// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/go-a2a/agentops/internal/pool"
	"github.com/go-a2a/agentops/tool"
	"github.com/go-a2a/agentops/types"
)

// Server serves registered tools over the MCP JSON-RPC 2.0 convention.
type Server struct {
	name       string
	version    string
	dispatcher *tool.Dispatcher
	logger     *slog.Logger
}

var _ http.Handler = (*Server)(nil)

// ServerOption configures a [Server].
type ServerOption func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDispatcher serves an existing dispatcher instead of a fresh one, so
// an agent and its MCP surface can share tool registrations.
func WithDispatcher(d *tool.Dispatcher) ServerOption {
	return func(s *Server) {
		s.dispatcher = d
	}
}

// NewServer returns an MCP server identifying itself with the given
// service name and version.
func NewServer(name, version string, opts ...ServerOption) *Server {
	s := &Server{
		name:       name,
		version:    version,
		dispatcher: tool.NewDispatcher(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds tools to the server's dispatcher.
func (s *Server) Register(tools ...types.Tool) error {
	return s.dispatcher.Register(tools...)
}

// Tools returns the advertised tool metadata, sorted by name.
func (s *Server) Tools() []ToolInfo {
	registered := s.dispatcher.Tools()
	infos := make([]ToolInfo, 0, len(registered))
	for _, t := range registered {
		infos = append(infos, ToolInfo{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return infos
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/":
		s.handleRPC(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/":
		s.writeJSON(w, http.StatusOK, map[string]any{
			"service":  s.name,
			"version":  s.version,
			"protocol": ProtocolVersion,
			"tools":    s.dispatcher.Len(),
		})
	case r.Method == http.MethodGet && r.URL.Path == "/health":
		s.writeJSON(w, http.StatusOK, map[string]any{
			"status":  "healthy",
			"service": s.name,
		})
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, nil, CodeParseError, "read request body: "+err.Error())
		return
	}

	var req Request
	if err := sonic.ConfigFastest.Unmarshal(body, &req); err != nil {
		s.writeError(w, nil, CodeParseError, "parse request: "+err.Error())
		return
	}

	logger := s.logger.With(slog.String("service", s.name), slog.String("method", req.Method))

	switch req.Method {
	case "initialize":
		s.writeResult(w, req.ID, &InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities: map[string]any{
				"tools": map[string]any{},
			},
			ServerInfo: ServerInfo{Name: s.name, Version: s.version},
		})

	case "notifications/initialized":
		w.WriteHeader(http.StatusAccepted)

	case "tools/list":
		s.writeResult(w, req.ID, &ListToolsResult{Tools: s.Tools()})

	case "tools/call":
		var params CallToolParams
		if len(req.Params) > 0 {
			if err := sonic.ConfigFastest.Unmarshal(req.Params, &params); err != nil {
				s.writeError(w, req.ID, CodeInvalidParams, "parse params: "+err.Error())
				return
			}
		}
		if params.Name == "" {
			s.writeError(w, req.ID, CodeInvalidParams, "missing tool name")
			return
		}

		out, err := s.dispatcher.Dispatch(ctx, params.Name, params.Arguments)
		if err != nil {
			logger.WarnContext(ctx, "tool call failed",
				slog.String("tool", params.Name),
				slog.String("error", err.Error()),
			)
			s.writeResult(w, req.ID, errorResult(err))
			return
		}

		result, err := textResult(out)
		if err != nil {
			s.writeError(w, req.ID, CodeInternalError, "encode result: "+err.Error())
			return
		}
		logger.InfoContext(ctx, "tool call",
			slog.String("tool", params.Name),
			slog.Duration("took", time.Since(start)),
		)
		s.writeResult(w, req.ID, result)

	default:
		s.writeError(w, req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}
}

// errorResult maps a tool execution failure into an isError tools/call
// result carrying the message, per MCP convention.
func errorResult(err error) *CallToolResult {
	return &CallToolResult{
		Content: []Content{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}

// textResult wraps a tool's return value as a single JSON text content
// block.
func textResult(out any) (*CallToolResult, error) {
	text, ok := out.(string)
	if !ok {
		data, err := sonic.ConfigFastest.Marshal(out)
		if err != nil {
			return nil, err
		}
		text = string(data)
	}
	return &CallToolResult{
		Content: []Content{{Type: "text", Text: text}},
	}, nil
}

func (s *Server) writeResult(w http.ResponseWriter, id, result any) {
	s.writeJSON(w, http.StatusOK, &Response{
		JSONRPC: Version,
		Result:  result,
		ID:      id,
	})
}

func (s *Server) writeError(w http.ResponseWriter, id any, code int, message string) {
	s.writeJSON(w, http.StatusOK, &Response{
		JSONRPC: Version,
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	buf := pool.Buffer.Get()
	buf.Reset()
	defer pool.Buffer.Put(buf)

	if err := sonic.ConfigFastest.NewEncoder(buf).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		s.logger.Warn("write response", slog.String("error", err.Error()))
	}
}
