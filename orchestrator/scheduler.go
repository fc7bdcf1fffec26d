// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the pause between scheduled react cycles.
const DefaultInterval = 15 * time.Minute

// Scheduler repeats full-fleet react cycles on a fixed interval.
type Scheduler struct {
	orch       *Orchestrator
	interval   time.Duration
	runOnStart bool
}

// SchedulerOption configures a [Scheduler].
type SchedulerOption func(*Scheduler)

// WithInterval sets the pause between cycles.
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithRunOnStart controls whether a cycle runs immediately instead of
// waiting a full interval first.
func WithRunOnStart(run bool) SchedulerOption {
	return func(s *Scheduler) {
		s.runOnStart = run
	}
}

// NewScheduler wraps an orchestrator in a periodic runner.
func NewScheduler(orch *Orchestrator, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		orch:       orch,
		interval:   DefaultInterval,
		runOnStart: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the pause between cycles.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run blocks, executing one react cycle per interval, until ctx is
// cancelled; it returns the context's error. Cycle failures are logged
// and never stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.orch.logger.InfoContext(ctx, "Scheduler started",
		slog.Duration("interval", s.interval),
		slog.Bool("run_on_start", s.runOnStart),
	)

	if s.runOnStart {
		s.cycle(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.orch.logger.InfoContext(ctx, "Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

// cycle runs one full-fleet react cycle, logging instead of propagating
// failures.
func (s *Scheduler) cycle(ctx context.Context) {
	report, err := s.orch.RunCycle(ctx, "")
	if err != nil {
		s.orch.logger.ErrorContext(ctx, "Scheduled cycle failed",
			slog.String("cycle_id", report.CycleID),
			slog.String("status", string(report.Status)),
			slog.String("error", err.Error()),
		)
		return
	}
	s.orch.logger.InfoContext(ctx, "Scheduled cycle completed",
		slog.String("cycle_id", report.CycleID),
		slog.String("status", string(report.Status)),
		slog.Int("changes", len(report.Changes)),
	)
}
