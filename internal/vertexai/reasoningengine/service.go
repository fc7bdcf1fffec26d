// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package reasoningengine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	aiplatform "cloud.google.com/go/aiplatform/apiv1beta1"
	"cloud.google.com/go/aiplatform/apiv1beta1/aiplatformpb"
	"cloud.google.com/go/auth/credentials"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/go-a2a/agentops/inventory"
	"github.com/go-a2a/agentops/pkg/logging"
	"github.com/go-a2a/agentops/types"
)

// Service lists reasoning engines deployed in one Vertex AI project
// location.
type Service struct {
	client    *aiplatform.ReasoningEngineClient
	projectID string
	location  string
	logger    *slog.Logger
}

var _ inventory.Discoverer = (*Service)(nil)

// NewService creates a reasoning engine discovery service.
//
// Authentication uses Application Default Credentials; additional client
// options are appended after the defaults so callers can override the
// endpoint in tests.
func NewService(ctx context.Context, projectID, location string, opts ...option.ClientOption) (*Service, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required")
	}
	if location == "" {
		return nil, fmt.Errorf("location is required")
	}

	s := &Service{
		projectID: projectID,
		location:  location,
		logger:    logging.FromContext(ctx),
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{
			"https://www.googleapis.com/auth/cloud-platform",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to detect credentials: %w", err)
	}

	clientOpts := append([]option.ClientOption{
		option.WithAuthCredentials(creds),
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)),
	}, opts...)

	client, err := aiplatform.NewReasoningEngineClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning engine client: %w", err)
	}
	s.client = client

	s.logger.InfoContext(ctx, "Reasoning engine discovery initialized",
		slog.String("project_id", projectID),
		slog.String("location", location),
	)

	return s, nil
}

// List returns all reasoning engines deployed in the project location.
func (s *Service) List(ctx context.Context) ([]*types.DeployedAgent, error) {
	parent := fmt.Sprintf("projects/%s/locations/%s", s.projectID, s.location)

	it := s.client.ListReasoningEngines(ctx, &aiplatformpb.ListReasoningEnginesRequest{
		Parent: parent,
	})

	var agents []*types.DeployedAgent
	for {
		engine, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list reasoning engines: %w", err)
		}
		agents = append(agents, fromPb(engine))
	}

	s.logger.InfoContext(ctx, "Listed deployed agents",
		slog.Int("count", len(agents)),
	)

	return agents, nil
}

// Get returns one reasoning engine by resource name. Bare engine IDs are
// expanded to the full resource name in the service's project location.
func (s *Service) Get(ctx context.Context, name string) (*types.DeployedAgent, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !strings.HasPrefix(name, "projects/") {
		name = fmt.Sprintf("projects/%s/locations/%s/reasoningEngines/%s", s.projectID, s.location, name)
	}

	engine, err := s.client.GetReasoningEngine(ctx, &aiplatformpb.GetReasoningEngineRequest{
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get reasoning engine: %w", err)
	}

	return fromPb(engine), nil
}

// Close releases the underlying API client.
func (s *Service) Close() error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close reasoning engine client: %w", err)
	}
	return nil
}

// fromPb converts the API representation into the inventory's.
func fromPb(engine *aiplatformpb.ReasoningEngine) *types.DeployedAgent {
	if engine == nil {
		return nil
	}

	agent := &types.DeployedAgent{
		Name:        engine.GetName(),
		DisplayName: engine.GetDisplayName(),
	}
	if ct := engine.GetCreateTime(); ct != nil {
		agent.CreateTime = ct.AsTime()
	}
	if ut := engine.GetUpdateTime(); ut != nil {
		agent.UpdateTime = ut.AsTime()
	}

	return agent
}
