// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// Environment fallbacks for the scheduler configuration.
const (
	EnvIntervalMinutes = "ORCHESTRATOR_INTERVAL_MINUTES"
	EnvRunOnStart      = "ORCHESTRATOR_RUN_ON_START"
	EnvCacheFile       = "ORCHESTRATOR_CACHE_FILE"
)

// SchedulerConfig drives the periodic react loop.
type SchedulerConfig struct {
	// IntervalMinutes is the pause between cycles.
	IntervalMinutes int `yaml:"interval_minutes"`

	// RunOnStart runs one cycle immediately instead of waiting a full
	// interval first.
	RunOnStart bool `yaml:"run_on_start"`

	// IncludeDeployed folds cloud-deployed agents into observation.
	IncludeDeployed bool `yaml:"include_deployed"`

	// Concurrency bounds the per-cycle action fan-out.
	Concurrency int `yaml:"concurrency"`
}

// EvalConfig tunes the evaluation actions of a cycle.
type EvalConfig struct {
	// NegativeCount is how many negative cases to request per changed
	// agent.
	NegativeCount int `yaml:"negative_count"`
}

// Config is the orchestrator configuration, resolved from defaults, then
// ORCHESTRATOR_* environment variables, then a YAML file. Command-line
// flags are applied on top by the caller.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`

	// CacheFile is where the fleet snapshot persists between cycles.
	CacheFile string `yaml:"cache_file"`

	Eval EvalConfig `yaml:"eval"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			IntervalMinutes: int(DefaultInterval / time.Minute),
			RunOnStart:      true,
			Concurrency:     DefaultConcurrency,
		},
		CacheFile: DefaultCacheFile,
		Eval:      EvalConfig{NegativeCount: DefaultNegativeCount},
	}
}

// LoadConfig resolves the configuration. Environment variables override
// the defaults and the YAML file at path overrides both; a field absent
// from the file keeps its resolved value. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.applyEnv()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Interval returns the scheduler interval as a [time.Duration].
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Scheduler.IntervalMinutes) * time.Minute
}

// applyEnv overlays the ORCHESTRATOR_* environment variables. Unparsable
// values keep the resolved default.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvIntervalMinutes); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			c.Scheduler.IntervalMinutes = minutes
		}
	}
	if v := os.Getenv(EnvRunOnStart); v != "" {
		if run, err := strconv.ParseBool(v); err == nil {
			c.Scheduler.RunOnStart = run
		}
	}
	if v := os.Getenv(EnvCacheFile); v != "" {
		c.CacheFile = v
	}
}
