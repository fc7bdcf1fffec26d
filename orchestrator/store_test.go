// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-a2a/agentops/types"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snap := types.Snapshot{
		"retriever": {
			ConfigHash:     "abc",
			LastDeployedAt: t0,
			LastRunTime:    t0.Add(time.Minute),
			LastCheckTime:  t0.Add(2 * time.Minute),
		},
		"summarizer": {ConfigHash: "def", LastCheckTime: t0},
	}
	if err := store.Save(t.Context(), snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(t.Context())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	got, err := store.Load(t.Context())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Load() = %v, want empty snapshot", got)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileStore(path).Load(t.Context())
	if err == nil {
		t.Fatal("Load() error = nil, want decode failure")
	}
	if !strings.Contains(err.Error(), "decode snapshot") {
		t.Errorf("Load() error = %v, want decode snapshot", err)
	}
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "cache", "state.json")
	store := NewFileStore(path)

	if err := store.Save(t.Context(), types.Snapshot{"a": {ConfigHash: "h1"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Stat(%s) error = %v", path, err)
	}
}

func TestFileStoreDefaultPath(t *testing.T) {
	t.Parallel()

	if got := NewFileStore("").Path(); got != DefaultCacheFile {
		t.Errorf("Path() = %q, want %q", got, DefaultCacheFile)
	}
}

// MemoryStore copies on both sides, so neither saved input nor loaded
// output aliases the stored snapshot.
func TestMemoryStoreIsolation(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	snap := types.Snapshot{"a": {ConfigHash: "h1"}}
	if err := store.Save(t.Context(), snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	snap["a"] = types.AgentState{ConfigHash: "mutated"}

	got, err := store.Load(t.Context())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got["a"].ConfigHash != "h1" {
		t.Errorf(`Load()["a"].ConfigHash = %q, want h1`, got["a"].ConfigHash)
	}

	got["b"] = types.AgentState{ConfigHash: "h2"}
	again, err := store.Load(t.Context())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(again) != 1 {
		t.Errorf("len(Load()) = %d, want 1", len(again))
	}
}

func TestMemoryStoreEmpty(t *testing.T) {
	t.Parallel()

	got, err := NewMemoryStore().Load(t.Context())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() = %v, want empty snapshot", got)
	}
}
