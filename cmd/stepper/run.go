package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/stepper/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flow]",
	Short: "Walk through a flow in the full-screen TUI",
	Long: `Open a flow in the full-screen TUI.

The flow file defaults to the configured one (stepper.flow.yml). Validation
hooks run when a step is continued, and lifecycle hooks run on cancel and
completion. Use --journal to record the run and --watch to pick up edits to
the flow file while it is open.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	orch, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := orch.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		}
	}()

	return wizard.Run(cmd.Context(), orch, cfg.Flow)
}
