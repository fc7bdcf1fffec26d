// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command orchestrator drives the react loop over the agent fleet:
// observe the inventory, diff against the cached snapshot, and dispatch
// regression runs and negative-set generation for every changed agent.
//
// Run one cycle (also the default with no flags):
//
//	orchestrator --cycle-once
//	orchestrator --cycle-once --agent-id retriever
//
// Run periodically until interrupted:
//
//	orchestrator --scheduler --interval 30 --config config.yaml
//
// Probe the service fleet:
//
//	orchestrator --check-agents
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/go-a2a/agentops/agent"
	"github.com/go-a2a/agentops/config"
	"github.com/go-a2a/agentops/evalset"
	"github.com/go-a2a/agentops/inventory"
	"github.com/go-a2a/agentops/mcp"
	"github.com/go-a2a/agentops/orchestrator"
	"github.com/go-a2a/agentops/pkg/logging"
	"github.com/go-a2a/agentops/reasoningcost"
	"github.com/go-a2a/agentops/tokenstats"
	"github.com/go-a2a/agentops/types"
)

// options are the parsed command-line flags.
type options struct {
	scheduler   bool
	interval    int
	configPath  string
	cycleOnce   bool
	agentID     string
	checkAgents bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.scheduler, "scheduler", false, "run react cycles periodically until interrupted")
	flag.IntVar(&opts.interval, "interval", 0, "minutes between cycles (overrides the config file)")
	flag.StringVar(&opts.configPath, "config", "", "path to the orchestrator YAML config")
	flag.BoolVar(&opts.cycleOnce, "cycle-once", false, "run one react cycle and exit")
	flag.StringVar(&opts.agentID, "agent-id", "", "narrow the cycle to one agent")
	flag.BoolVar(&opts.checkAgents, "check-agents", false, "probe the service fleet and exit")
	flag.Parse()

	logger := logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := run(logger, opts); err != nil {
		logger.Error("orchestrator failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.NewContext(ctx, logger)

	env, err := config.NewFromEnv()
	if err != nil {
		return err
	}
	cfg, err := orchestrator.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.interval > 0 {
		cfg.Scheduler.IntervalMinutes = opts.interval
	}
	logger.InfoContext(ctx, "Workflow orchestrator starting",
		slog.Any("config", env),
		slog.Int("interval_minutes", cfg.Scheduler.IntervalMinutes),
	)

	orch, err := buildOrchestrator(ctx, logger, env, cfg)
	if err != nil {
		return err
	}

	switch {
	case opts.checkAgents:
		return checkFleet(ctx, orch)
	case opts.cycleOnce:
		return runOnce(ctx, orch, opts.agentID)
	case opts.scheduler:
		return runScheduler(ctx, logger, orch, cfg)
	default:
		// Bare invocation runs one cycle, same as --cycle-once.
		return runOnce(ctx, orch, opts.agentID)
	}
}

// buildOrchestrator assembles the react loop: MCP clients for the fleet,
// the in-process AutoEval agent with its evaluation stack, and the
// snapshot cache.
func buildOrchestrator(ctx context.Context, logger *slog.Logger, env *config.Config, cfg *orchestrator.Config) (*orchestrator.Orchestrator, error) {
	invClient := mcp.NewClient(inventory.ServiceName, env.InventoryURL)
	costClient := mcp.NewClient(reasoningcost.ServiceName, env.ReasoningCostURL)
	statsClient := mcp.NewClient(tokenstats.ServiceName, env.TokenStatsURL)

	counter := newCounter(ctx, logger, env)
	store := evalset.NewDirStore(env.EvalSuiteDir)
	gen := evalset.NewGenerator(counter, evalset.WithModel(env.AgentModel))
	svc := evalset.NewService(gen, evalset.WithStore(store), evalset.WithLogger(logger))
	runner := evalset.NewRunner(store, modelExecutor(counter, env.AgentModel))

	autoEval, err := agent.NewAutoEvalAgent(svc, runner, invClient,
		agent.WithModel(env.AgentModel),
		agent.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return orchestrator.New(invClient, autoEval,
		orchestrator.WithLogger(logger),
		orchestrator.WithStore(orchestrator.NewFileStore(cfg.CacheFile)),
		orchestrator.WithIncludeDeployed(cfg.Scheduler.IncludeDeployed),
		orchestrator.WithConcurrency(cfg.Scheduler.Concurrency),
		orchestrator.WithNegativeCount(cfg.Eval.NegativeCount),
		orchestrator.WithFleet(invClient, costClient, statsClient),
	)
}

// newCounter connects to the Gemini API, falling back to an offline
// counter when no usable credentials are configured. Cycles still run
// offline: generation degrades to stub cases and regression runs score
// every execution as a refusal.
func newCounter(ctx context.Context, logger *slog.Logger, cfg *config.Config) tokenstats.Counter {
	cc := &genai.ClientConfig{APIKey: cfg.APIKey}
	if cfg.UseVertexAI {
		cc = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.ProjectID,
			Location: cfg.Location,
		}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		logger.WarnContext(ctx, "Gemini API unavailable, running offline", slog.String("error", err.Error()))
		return tokenstats.NewOfflineCounter(err.Error())
	}
	return tokenstats.NewCounter(client)
}

// modelExecutor replays an eval case against the configured model. A
// failed call or an empty reply counts as a refusal, which is the
// passing outcome for negative and adversarial cases.
func modelExecutor(counter tokenstats.Counter, model string) evalset.CaseExecutorFunc {
	return func(ctx context.Context, c *types.EvalCase) error {
		input, ok := c.Input.(string)
		if !ok {
			data, err := sonic.ConfigFastest.Marshal(c.Input)
			if err != nil {
				return fmt.Errorf("encode case input: %w", err)
			}
			input = string(data)
		}
		result, err := counter.GenerateContent(ctx, model, fmt.Sprintf("Task: %s\n\n%s", c.Task, input))
		if err != nil {
			return err
		}
		if strings.TrimSpace(result.Text) == "" {
			return fmt.Errorf("model returned no answer for case %s", c.ID)
		}
		return nil
	}
}

// runOnce runs a single react cycle and prints the report.
func runOnce(ctx context.Context, orch *orchestrator.Orchestrator, agentID string) error {
	report, runErr := orch.RunCycle(ctx, agentID)
	if err := printJSON(report); err != nil {
		return err
	}
	return runErr
}

// checkFleet probes the fleet and prints the result. An unhealthy fleet
// makes the command exit non-zero so scripts can gate on it.
func checkFleet(ctx context.Context, orch *orchestrator.Orchestrator) error {
	check := orch.CheckAgents(ctx)
	if err := printJSON(check); err != nil {
		return err
	}
	if !check.Healthy {
		return errors.New("one or more services are unavailable")
	}
	return nil
}

// runScheduler drives periodic cycles until interrupted. Service outages
// are surfaced at startup but never fatal; every cycle retries the
// fleet.
func runScheduler(ctx context.Context, logger *slog.Logger, orch *orchestrator.Orchestrator, cfg *orchestrator.Config) error {
	if check := orch.CheckAgents(ctx); !check.Healthy {
		for _, probe := range check.Services {
			if !probe.Healthy {
				logger.WarnContext(ctx, "Service unavailable",
					slog.String("service", probe.Service),
					slog.String("url", probe.URL),
					slog.String("error", probe.Error),
				)
			}
		}
	}

	sched := orchestrator.NewScheduler(orch,
		orchestrator.WithInterval(cfg.Interval()),
		orchestrator.WithRunOnStart(cfg.Scheduler.RunOnStart),
	)
	logger.InfoContext(ctx, "Scheduler starting",
		slog.Duration("interval", sched.Interval()),
		slog.Bool("run_on_start", cfg.Scheduler.RunOnStart),
	)
	if err := sched.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	logger.InfoContext(ctx, "Scheduler stopped")
	return nil
}

// printJSON writes v to stdout for operators and scripts.
func printJSON(v any) error {
	data, err := sonic.ConfigFastest.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
