// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/go-a2a/agentops/types"
)

// DefaultCacheFile is where [FileStore] persists the snapshot unless
// told otherwise.
const DefaultCacheFile = ".agent_state_cache.json"

// SnapshotStore persists the last observed fleet snapshot between
// cycles.
type SnapshotStore interface {
	// Load returns the stored snapshot, or an empty one when nothing has
	// been stored yet.
	Load(ctx context.Context) (types.Snapshot, error)

	// Save replaces the stored snapshot wholesale.
	Save(ctx context.Context, snap types.Snapshot) error
}

// FileStore is a [SnapshotStore] over a single JSON file. Writes replace
// the whole file; the loop assumes it is the only process touching it,
// so there is no locking.
type FileStore struct {
	path string
}

var _ SnapshotStore = (*FileStore)(nil)

// NewFileStore creates a [FileStore] at path, defaulting to
// [DefaultCacheFile].
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultCacheFile
	}
	return &FileStore{path: path}
}

// Path returns where the snapshot is stored.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements [SnapshotStore]. A missing file is an empty snapshot,
// not an error.
func (s *FileStore) Load(_ context.Context) (types.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		return types.Snapshot{}, nil
	case err != nil:
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	if snap == nil {
		snap = types.Snapshot{}
	}
	return snap, nil
}

// Save implements [SnapshotStore].
func (s *FileStore) Save(_ context.Context, snap types.Snapshot) error {
	data, err := json.Marshal(snap, jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// MemoryStore is a [SnapshotStore] that keeps the snapshot in memory.
// Loads and saves deep-copy, so callers never alias the stored state.
type MemoryStore struct {
	mu   sync.Mutex
	snap types.Snapshot
}

var _ SnapshotStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snap: types.Snapshot{}}
}

// Load implements [SnapshotStore].
func (s *MemoryStore) Load(_ context.Context) (types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Save implements [SnapshotStore].
func (s *MemoryStore) Save(_ context.Context, snap types.Snapshot) error {
	clone, err := snap.Clone()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = clone
	s.mu.Unlock()
	return nil
}
