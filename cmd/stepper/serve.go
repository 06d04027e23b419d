package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/stepper/internal/mcpserver"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve [flow]",
	Short: "Expose a flow to MCP clients",
	Long: `Serve a flow over MCP (streamable HTTP) until interrupted.

Clients can read the stepper state and perform actions, activate steps,
reset and toggle the orientation. By default the server listens on a random
port on 127.0.0.1 and prints its URL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "127.0.0.1:0", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	orch, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = orch.Stop() }()

	srv := mcpserver.New(orch)
	if _, err := srv.Start(serveFlags.addr); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving run %s at %s\n", orch.Run(), srv.URL())

	<-cmd.Context().Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
