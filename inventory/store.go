// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/go-a2a/agentops/internal/xmaps"
	"github.com/go-a2a/agentops/types"
)

// Store persists agent records and their executions.
//
// Implementations must be safe for concurrent use. Read methods return
// copies, so callers may mutate results freely.
type Store interface {
	// Get returns the record for agentID, or a [types.AgentNotFoundError]
	// when the agent is unknown.
	Get(ctx context.Context, agentID string) (*types.AgentRecord, error)

	// Upsert inserts or updates a record and returns the stored state.
	// RegisteredAt is set on first insert and preserved on update.
	Upsert(ctx context.Context, record *types.AgentRecord) (*types.AgentRecord, error)

	// AppendExecution appends an execution record. Records are immutable
	// once appended.
	AppendExecution(ctx context.Context, record *types.ExecutionRecord) error

	// Executions returns all executions recorded for agentID, in append
	// order. An agent with no executions yields an empty slice, not an
	// error.
	Executions(ctx context.Context, agentID string) ([]*types.ExecutionRecord, error)

	// List returns all agent records sorted by ID.
	List(ctx context.Context) ([]*types.AgentRecord, error)

	// Delete removes the record and all executions for agentID, or a
	// [types.AgentNotFoundError] when the agent is unknown.
	Delete(ctx context.Context, agentID string) error
}

// MemoryStore is an in-memory implementation of [Store].
type MemoryStore struct {
	mu         sync.RWMutex
	agents     map[string]*types.AgentRecord
	executions map[string][]*types.ExecutionRecord
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		agents:     make(map[string]*types.AgentRecord),
		executions: make(map[string][]*types.ExecutionRecord),
	}
}

// Get implements [Store].
func (s *MemoryStore) Get(ctx context.Context, agentID string) (*types.AgentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.agents[agentID]
	if !ok {
		return nil, &types.AgentNotFoundError{AgentID: agentID}
	}

	recordCopy := *record
	return &recordCopy, nil
}

// Upsert implements [Store].
func (s *MemoryStore) Upsert(ctx context.Context, record *types.AgentRecord) (*types.AgentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := &types.AgentRecord{
		ID:           record.ID,
		Description:  record.Description,
		RegisteredAt: time.Now().UTC(),
	}
	if prev, ok := s.agents[record.ID]; ok {
		stored.RegisteredAt = prev.RegisteredAt
	}
	s.agents[record.ID] = stored

	storedCopy := *stored
	return &storedCopy, nil
}

// AppendExecution implements [Store].
func (s *MemoryStore) AppendExecution(ctx context.Context, record *types.ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	s.executions[record.AgentID] = append(s.executions[record.AgentID], &stored)
	return nil
}

// Executions implements [Store].
func (s *MemoryStore) Executions(ctx context.Context, agentID string) ([]*types.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.executions[agentID]
	if len(records) == 0 {
		return nil, nil
	}

	// The slice elements are pointers, so a shallow clone would alias the
	// stored records.
	var out []*types.ExecutionRecord
	if err := deepcopy.Copy(&out, records); err != nil {
		return nil, err
	}
	return out, nil
}

// List implements [Store].
func (s *MemoryStore) List(ctx context.Context) ([]*types.AgentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.AgentRecord, 0, len(s.agents))
	for _, id := range xmaps.SortedKeys(s.agents) {
		recordCopy := *s.agents[id]
		out = append(out, &recordCopy)
	}
	return out, nil
}

// Delete implements [Store].
func (s *MemoryStore) Delete(ctx context.Context, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.agents[agentID]; !ok {
		return &types.AgentNotFoundError{AgentID: agentID}
	}
	delete(s.agents, agentID)
	delete(s.executions, agentID)
	return nil
}
