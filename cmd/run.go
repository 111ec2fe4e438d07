package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"samctl/internal/config"
	"samctl/internal/environment"
	"samctl/internal/report"
	"samctl/internal/script"
	"samctl/pkg/logging"
)

func newRunCmd() *cobra.Command {
	var (
		configPath  string
		scripts     []string
		keepRunning bool
		delay       string
		repeat      uint64
		filter      string
		skip        string
		resetOnce   bool
		reportPath  string
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the environment and run the configured test scenarios",
		Long: `Loads the environment config, starts every component marked
start_by_default (dependencies first), runs the selected test scenarios
against it and prints a summary report.

Scenarios are selected by name: the config's global.scripts list (or the
--scripts flag) names scenarios registered in this binary. The
environment is torn down when the run finishes unless --keep-running is
given, in which case samctl waits for an interrupt first.

The exit status is non-zero when any test failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitForCLI(logging.ParseLevel(logLevel), os.Stderr)

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			// Flags override the config's global section only when
			// explicitly given.
			flags := cmd.Flags()
			if flags.Changed("scripts") {
				cfg.Global.Scripts = scripts
			}
			if flags.Changed("keep-running") {
				cfg.Global.KeepRunning = keepRunning
			}
			if flags.Changed("delay") {
				cfg.Global.Delay = delay
			}
			if flags.Changed("repeat") {
				cfg.Global.Repeat = repeat
			}
			if flags.Changed("filter") {
				cfg.Global.Filter = filter
			}
			if flags.Changed("skip") {
				cfg.Global.Skip = skip
			}
			if resetOnce {
				cfg.Global.ResetOnce = true
			}

			return runScenarios(cmd, cfg, reportPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "sam.yaml", "Path to the environment config")
	cmd.Flags().StringSliceVarP(&scripts, "scripts", "s", nil, "Scenario names to run (overrides the config)")
	cmd.Flags().BoolVarP(&keepRunning, "keep-running", "k", false, "Keep the environment running after the scenarios finish, until interrupted")
	cmd.Flags().StringVarP(&delay, "delay", "d", "", "Sleep this long after startup before running scenarios (e.g. 5s)")
	cmd.Flags().Uint64VarP(&repeat, "repeat", "r", 0, "Repeat the scenarios this many additional times")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only run cases whose path matches this expression")
	cmd.Flags().StringVarP(&skip, "skip", "x", "", "Skip cases whose path matches this expression")
	cmd.Flags().BoolVar(&resetOnce, "reset-once", false, "Run the config's reset commands once before starting")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write the full report to this file (.json or .yaml)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	return cmd
}

func runScenarios(cmd *cobra.Command, cfg config.Config, reportPath string) error {
	if len(cfg.Global.Scripts) == 0 {
		return fmt.Errorf("no scenarios selected (set global.scripts or pass --scripts; registered: %v)", script.Names())
	}

	if cfg.Global.ResetOnce {
		if err := runResetCommands(cfg); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := environment.NewManager(cfg)
	if err := env.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start environment: %w", err)
	}
	defer func() {
		if err := env.StopAll(cmd.Context()); err != nil {
			logging.Error("Run", err, "Failed to stop environment")
		}
	}()

	if cfg.Global.Delay != "" {
		d, err := time.ParseDuration(cfg.Global.Delay)
		if err != nil {
			return fmt.Errorf("invalid delay %q: %w", cfg.Global.Delay, err)
		}
		logging.Info("Run", "Waiting %s before running scenarios", d)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}

	runner := script.NewRunner(ctx, env,
		script.WithFilter(cfg.Global.Filter),
		script.WithSkip(cfg.Global.Skip),
	)

	started := time.Now()
	iterations := cfg.Global.Repeat + 1
	for i := uint64(0); i < iterations; i++ {
		if iterations > 1 {
			logging.Info("Run", "Iteration %d of %d", i+1, iterations)
		}
		for _, name := range cfg.Global.Scripts {
			body, err := script.Lookup(name)
			if err != nil {
				return err
			}
			if err := runner.Run(body); err != nil {
				return fmt.Errorf("scenario %s: %w", name, err)
			}
		}
	}

	rep := report.FromAssertions(cfg.Name, runner.State().Assertions(), time.Since(started))
	report.WriteSummaryTable(os.Stdout, rep)
	if reportPath != "" {
		if err := report.WriteFile(reportPath, rep); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logging.Info("Run", "Report written to %s", reportPath)
	}

	if cfg.Global.KeepRunning {
		logging.Info("Run", "Environment kept running, press Ctrl+C to stop")
		<-ctx.Done()
	}

	if failed := rep.FailedCount(); failed > 0 {
		return fmt.Errorf("%d tests failed", failed)
	}
	return nil
}
