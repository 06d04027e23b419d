package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/stepper/internal/logger"
	"github.com/mark3labs/stepper/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▀ ▀█▀ █▀▀ █▀█ █▀█ █▀▀ █▀█"
	logoText2 = "▄▄█  █  ██▄ █▀▀ █▀▀ ██▄ █▀▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stepper",
	Short: "Declarative multi-step flows in the terminal",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

stepper walks a user through an ordered sequence of steps declared in a YAML
flow file. Steps can be completed, skipped, flagged with an error or made
optional; linear flows only allow forward progress through valid steps.

The same flow can be driven from the full-screen TUI, headlessly from the
command line, or by an MCP client. Runs are optionally journaled to an
embedded NATS JetStream for later inspection.`

	registerCommonFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(setupCmd)
}
