package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/stepper/internal/nats"
	"github.com/mark3labs/stepper/internal/session"
	"github.com/spf13/cobra"
)

var historyFlags outputFlags

var historyCmd = &cobra.Command{
	Use:   "history [run]",
	Short: "Show journaled runs",
	Long: `Without arguments, list the runs recorded in the journal. With a run
name, print a summary of that run: visits, completions, errors and vetoed
activations per step, action counts and whether the flow completed.

Runs are recorded with --journal (or journal: true in the config).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyFlags.json, "json", false, "Print as JSON")
	historyCmd.Flags().BoolVar(&historyFlags.plain, "plain", false, "Disable syntax highlighting")
}

func runHistory(cmd *cobra.Command, args []string) error {
	// The positional argument is a run name, not a flow
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	dir := filepath.Join(cfg.DataDir, "nats")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("no journal in %s, record a run with --journal first", cfg.DataDir)
	}

	e, err := nats.Start(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = e.Close() }()

	store := session.NewStore(e.JS, e.Stream)
	w := cmd.OutOrStdout()

	if len(args) == 0 {
		runs, err := store.Runs(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if historyFlags.json {
			return printDocument(w, runs, historyFlags)
		}
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return nil
		}
		for _, run := range runs {
			fmt.Fprintln(w, run)
		}
		return nil
	}

	h, err := store.LoadHistory(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if h.Events == 0 {
		return fmt.Errorf("run %q not found", args[0])
	}
	return printDocument(w, h, historyFlags)
}
