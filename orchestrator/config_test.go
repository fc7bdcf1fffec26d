// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "orchestrator.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Scheduler.IntervalMinutes != 15 {
		t.Errorf("IntervalMinutes = %d, want 15", cfg.Scheduler.IntervalMinutes)
	}
	if !cfg.Scheduler.RunOnStart {
		t.Error("RunOnStart = false, want true")
	}
	if cfg.Scheduler.IncludeDeployed {
		t.Error("IncludeDeployed = true, want false")
	}
	if cfg.Scheduler.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", cfg.Scheduler.Concurrency, DefaultConcurrency)
	}
	if cfg.CacheFile != DefaultCacheFile {
		t.Errorf("CacheFile = %q, want %q", cfg.CacheFile, DefaultCacheFile)
	}
	if cfg.Eval.NegativeCount != DefaultNegativeCount {
		t.Errorf("NegativeCount = %d, want %d", cfg.Eval.NegativeCount, DefaultNegativeCount)
	}
	if got := cfg.Interval(); got != 15*time.Minute {
		t.Errorf("Interval() = %v, want 15m", got)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, heredoc.Doc(`
		scheduler:
		  interval_minutes: 30
		  run_on_start: false
		  include_deployed: true
		  concurrency: 8
		cache_file: /var/run/agentops/state.json
		eval:
		  negative_count: 50
	`))

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Scheduler.IntervalMinutes != 30 {
		t.Errorf("IntervalMinutes = %d, want 30", cfg.Scheduler.IntervalMinutes)
	}
	if cfg.Scheduler.RunOnStart {
		t.Error("RunOnStart = true, want false")
	}
	if !cfg.Scheduler.IncludeDeployed {
		t.Error("IncludeDeployed = false, want true")
	}
	if cfg.Scheduler.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Scheduler.Concurrency)
	}
	if cfg.CacheFile != "/var/run/agentops/state.json" {
		t.Errorf("CacheFile = %q", cfg.CacheFile)
	}
	if cfg.Eval.NegativeCount != 50 {
		t.Errorf("NegativeCount = %d, want 50", cfg.Eval.NegativeCount)
	}
	if got := cfg.Interval(); got != 30*time.Minute {
		t.Errorf("Interval() = %v, want 30m", got)
	}
}

// Fields absent from the file keep their defaults.
func TestLoadConfigPartialFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, heredoc.Doc(`
		scheduler:
		  interval_minutes: 5
	`))

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Scheduler.IntervalMinutes != 5 {
		t.Errorf("IntervalMinutes = %d, want 5", cfg.Scheduler.IntervalMinutes)
	}
	if !cfg.Scheduler.RunOnStart {
		t.Error("RunOnStart = false, want default true")
	}
	if cfg.Scheduler.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want default %d", cfg.Scheduler.Concurrency, DefaultConcurrency)
	}
	if cfg.CacheFile != DefaultCacheFile {
		t.Errorf("CacheFile = %q, want default %q", cfg.CacheFile, DefaultCacheFile)
	}
	if cfg.Eval.NegativeCount != DefaultNegativeCount {
		t.Errorf("NegativeCount = %d, want default %d", cfg.Eval.NegativeCount, DefaultNegativeCount)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv(EnvIntervalMinutes, "45")
	t.Setenv(EnvRunOnStart, "false")
	t.Setenv(EnvCacheFile, "/tmp/env-cache.json")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Scheduler.IntervalMinutes != 45 {
		t.Errorf("IntervalMinutes = %d, want 45", cfg.Scheduler.IntervalMinutes)
	}
	if cfg.Scheduler.RunOnStart {
		t.Error("RunOnStart = true, want false")
	}
	if cfg.CacheFile != "/tmp/env-cache.json" {
		t.Errorf("CacheFile = %q", cfg.CacheFile)
	}
}

// The file overrides the environment for keys it carries; env values
// survive for keys it omits.
func TestLoadConfigFileOverridesEnv(t *testing.T) {
	t.Setenv(EnvIntervalMinutes, "45")
	t.Setenv(EnvCacheFile, "/tmp/env-cache.json")

	path := writeConfig(t, heredoc.Doc(`
		scheduler:
		  interval_minutes: 30
	`))

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Scheduler.IntervalMinutes != 30 {
		t.Errorf("IntervalMinutes = %d, want file value 30", cfg.Scheduler.IntervalMinutes)
	}
	if cfg.CacheFile != "/tmp/env-cache.json" {
		t.Errorf("CacheFile = %q, want env value", cfg.CacheFile)
	}
}

func TestLoadConfigIgnoresBadEnv(t *testing.T) {
	t.Setenv(EnvIntervalMinutes, "soon")
	t.Setenv(EnvRunOnStart, "maybe")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Scheduler.IntervalMinutes != 15 {
		t.Errorf("IntervalMinutes = %d, want default 15", cfg.Scheduler.IntervalMinutes)
	}
	if !cfg.Scheduler.RunOnStart {
		t.Error("RunOnStart = false, want default true")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want read failure")
	}
	if !strings.Contains(err.Error(), "read config") {
		t.Errorf("LoadConfig() error = %v, want read config", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "scheduler: [broken")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want parse failure")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("LoadConfig() error = %v, want parse config", err)
	}
}
