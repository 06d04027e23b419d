package main

import (
	"fmt"

	"github.com/mark3labs/stepper/internal/config"
	"github.com/mark3labs/stepper/internal/logger"
	"github.com/mark3labs/stepper/internal/orchestrator"
	"github.com/spf13/cobra"
)

var commonFlags struct {
	dataDir  string
	workDir  string
	runName  string
	logLevel string
	logFile  string
	journal  bool
	watch    bool
	linear   bool
	vertical bool
}

func registerCommonFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&commonFlags.dataDir, "data-dir", "", "Data directory for the journal and UI state (default: .stepper)")
	f.StringVar(&commonFlags.workDir, "work-dir", "", "Working directory for hooks (default: current directory)")
	f.StringVar(&commonFlags.runName, "run", "", "Journal run name (default: flow title and start time)")
	f.StringVar(&commonFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&commonFlags.logFile, "log-file", "", "Write logs to this file")
	f.BoolVar(&commonFlags.journal, "journal", false, "Record the run to the journal")
	f.BoolVar(&commonFlags.watch, "watch", false, "Reload the flow when the file changes")
	f.BoolVar(&commonFlags.linear, "linear", false, "Override the flow's linear setting")
	f.BoolVar(&commonFlags.vertical, "vertical", false, "Override the layout orientation")
}

// loadConfig resolves configuration with flags taking precedence, and
// configures the logger from it. A first positional argument names the
// flow file.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = commonFlags.dataDir
	}
	if flags.Changed("work-dir") {
		cfg.WorkDir = commonFlags.workDir
	}
	if flags.Changed("run") {
		cfg.RunName = commonFlags.runName
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = commonFlags.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = commonFlags.logFile
	}
	if flags.Changed("journal") {
		cfg.Journal = commonFlags.journal
	}
	if flags.Changed("watch") {
		cfg.Watch = commonFlags.watch
	}
	if flags.Changed("linear") {
		linear := commonFlags.linear
		cfg.Linear = &linear
	}
	if flags.Changed("vertical") {
		vertical := commonFlags.vertical
		cfg.Vertical = &vertical
	}
	if len(args) > 0 && args[0] != "" {
		cfg.Flow = args[0]
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	return cfg, nil
}

// newOrchestrator creates and starts an orchestrator for cfg.
func newOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	orch, err := orchestrator.New(orchestrator.Config{
		FlowPath: cfg.Flow,
		DataDir:  cfg.DataDir,
		WorkDir:  cfg.WorkDir,
		RunName:  cfg.RunName,
		Journal:  cfg.Journal,
		Watch:    cfg.Watch,
		Linear:   cfg.Linear,
		Vertical: cfg.Vertical,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	if err := orch.Start(); err != nil {
		_ = orch.Stop()
		return nil, fmt.Errorf("failed to start orchestrator: %w", err)
	}
	return orch, nil
}
