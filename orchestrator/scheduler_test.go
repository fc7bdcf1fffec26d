// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-a2a/agentops/inventory"
	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/types"
)

// countingStore counts completed cycles by their snapshot saves.
type countingStore struct {
	SnapshotStore
	saves atomic.Int32
}

func (s *countingStore) Save(ctx context.Context, snap types.Snapshot) error {
	s.saves.Add(1)
	return s.SnapshotStore.Save(ctx, snap)
}

func TestSchedulerDefaults(t *testing.T) {
	t.Parallel()

	_, client := startInventory(t)
	o, _, _ := newOrchestrator(t, client)

	if got := NewScheduler(o).Interval(); got != DefaultInterval {
		t.Errorf("Interval() = %v, want %v", got, DefaultInterval)
	}
	if got := NewScheduler(o, WithInterval(0)).Interval(); got != DefaultInterval {
		t.Errorf("Interval() = %v, want %v after rejecting zero", got, DefaultInterval)
	}
	if got := NewScheduler(o, WithInterval(30*time.Second)).Interval(); got != 30*time.Second {
		t.Errorf("Interval() = %v, want 30s", got)
	}
}

func TestSchedulerRunOnStart(t *testing.T) {
	t.Parallel()

	_, client := startInventory(t)
	counting := &countingStore{SnapshotStore: NewMemoryStore()}
	o, _, _ := newOrchestrator(t, client, WithStore(counting))

	s := NewScheduler(o, WithInterval(time.Hour), WithRunOnStart(true))

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}

	// One immediate cycle; the hour-long ticker never fires.
	if got := counting.saves.Load(); got != 1 {
		t.Errorf("saves = %d, want 1", got)
	}
}

func TestSchedulerTicks(t *testing.T) {
	t.Parallel()

	_, client := startInventory(t)
	counting := &countingStore{SnapshotStore: NewMemoryStore()}
	o, _, _ := newOrchestrator(t, client, WithStore(counting))

	s := NewScheduler(o, WithInterval(20*time.Millisecond), WithRunOnStart(false))

	ctx, cancel := context.WithTimeout(t.Context(), 150*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}

	if got := counting.saves.Load(); got < 1 {
		t.Errorf("saves = %d, want at least one ticked cycle", got)
	}
}

// Cycle failures are logged, not propagated: the loop runs until the
// context ends.
func TestSchedulerSurvivesCycleFailures(t *testing.T) {
	t.Parallel()

	o, _, _ := newOrchestrator(t, mcp.NewClient(inventory.ServiceName, deadServerURL(t)))

	s := NewScheduler(o, WithInterval(10*time.Millisecond), WithRunOnStart(true))

	ctx, cancel := context.WithTimeout(t.Context(), 80*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want deadline exceeded", err)
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	t.Parallel()

	_, client := startInventory(t)
	o, _, _ := newOrchestrator(t, client)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := NewScheduler(o, WithRunOnStart(false)).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want canceled", err)
	}
}
