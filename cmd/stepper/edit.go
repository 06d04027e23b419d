package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/stepper/internal/flow"
	"github.com/spf13/cobra"
)

const starterFlow = `title: My flow
linear: true
steps:
  - title: First step
    summary: What happens first
    content: |
      # First step

      Describe the step in markdown.
  - title: Second step
    optional: true
  - title: Done
`

var editCmd = &cobra.Command{
	Use:   "edit [flow]",
	Short: "Edit a flow file in $EDITOR and validate it",
	Long: `Open a flow file in $EDITOR. A starter flow is written first when the
file does not exist. After the editor exits the flow is validated and a
short summary is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	path := cfg.Flow

	if !fileExists(path) {
		if err := os.WriteFile(path, []byte(starterFlow), 0644); err != nil {
			return fmt.Errorf("failed to create flow file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	}

	c, err := editor.Command("stepper", path)
	if err != nil {
		return fmt.Errorf("failed to find an editor: %w", err)
	}
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	f, err := flow.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %q with %d steps\n", path, f.Title, len(f.Steps))
	return nil
}
