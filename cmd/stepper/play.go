package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/mark3labs/stepper/internal/orchestrator"
	"github.com/spf13/cobra"
)

type playOptions struct {
	output outputFlags
	diff   bool
}

var playFlags playOptions

var playCmd = &cobra.Command{
	Use:   "play [flow] [actions...]",
	Short: "Drive a flow headlessly and print the resulting state",
	Long: `Apply a sequence of actions to a flow without the TUI and print the
final snapshot.

Actions:
  continue, back, skip, cancel   built-in step actions on the selected step
  reset                          return to the first step
  toggle                         flip the layout orientation
  activate:N                     select step N (zero-based) as if clicked
  error:N                        toggle the error flag of step N
  <name>                         any custom action of the selected step

Validation hooks run before continue, exactly as in the TUI.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playFlags.output.json, "json", false, "Print the snapshot as JSON")
	playCmd.Flags().BoolVar(&playFlags.output.plain, "plain", false, "Disable syntax highlighting")
	playCmd.Flags().BoolVar(&playFlags.diff, "diff", false, "Print a unified diff between the initial and final snapshots")
}

// playKind is what a play argument does.
type playKind int

const (
	playAction playKind = iota
	playReset
	playToggle
	playActivate
	playError
)

// playStep is one parsed play argument.
type playStep struct {
	kind   playKind
	action string
	index  int
}

func (s playStep) String() string {
	switch s.kind {
	case playReset:
		return "reset"
	case playToggle:
		return "toggle"
	case playActivate:
		return fmt.Sprintf("activate:%d", s.index)
	case playError:
		return fmt.Sprintf("error:%d", s.index)
	default:
		return s.action
	}
}

// parsePlayStep parses one action argument.
func parsePlayStep(arg string) (playStep, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return playStep{}, fmt.Errorf("empty action")
	}

	name, param, hasParam := strings.Cut(arg, ":")
	switch strings.ToLower(name) {
	case "reset":
		return playStep{kind: playReset}, nil
	case "toggle":
		return playStep{kind: playToggle}, nil
	case "activate", "error":
		if !hasParam {
			return playStep{}, fmt.Errorf("%s needs a step index, e.g. %s:1", name, name)
		}
		index, err := strconv.Atoi(param)
		if err != nil || index < 0 {
			return playStep{}, fmt.Errorf("invalid step index in %q", arg)
		}
		kind := playActivate
		if strings.EqualFold(name, "error") {
			kind = playError
		}
		return playStep{kind: kind, index: index}, nil
	}

	if hasParam {
		return playStep{}, fmt.Errorf("unknown action %q", arg)
	}
	return playStep{kind: playAction, action: arg}, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	steps := make([]playStep, 0, len(args)-1)
	for _, arg := range args[1:] {
		s, err := parsePlayStep(arg)
		if err != nil {
			return err
		}
		steps = append(steps, s)
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	orch, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = orch.Stop() }()

	return play(cmd.Context(), orch, steps, playFlags, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// play applies steps in order, reporting each to log, then prints the final
// snapshot (or the diff) to w. It stops at the first step that fails.
func play(ctx context.Context, orch *orchestrator.Orchestrator, steps []playStep, opts playOptions, w, log io.Writer) error {
	initial := orch.Snapshot()

	for i, s := range steps {
		out, err := apply(ctx, orch, s)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s, err)
		}
		fmt.Fprintf(log, "%s: %s\n", s, summarize(out))
	}

	final := orch.Snapshot()
	if opts.diff {
		before, err := toYAML(initial)
		if err != nil {
			return err
		}
		after, err := toYAML(final)
		if err != nil {
			return err
		}
		diff := udiff.Unified("initial", "final", before, after)
		if !opts.output.plain && !opts.output.json {
			diff = highlight(diff, "diff")
		}
		_, err = fmt.Fprint(w, diff)
		return err
	}
	return printDocument(w, final, opts.output)
}

func apply(ctx context.Context, orch *orchestrator.Orchestrator, s playStep) (orchestrator.Outcome, error) {
	switch s.kind {
	case playReset:
		return orch.Reset(ctx)
	case playToggle:
		return orch.ToggleOrientation(ctx)
	case playActivate:
		return orch.Activate(ctx, s.index)
	case playError:
		return orch.ToggleError(ctx, s.index)
	default:
		return orch.Do(ctx, s.action, -1)
	}
}

// summarize describes an outcome in one line.
func summarize(out orchestrator.Outcome) string {
	var parts []string
	if v := out.Validation; v != nil {
		switch {
		case v.Passed:
			parts = append(parts, "validation passed")
		case v.TimedOut:
			parts = append(parts, "validation timed out")
		default:
			parts = append(parts, "validation failed")
		}
	}
	if out.Performed {
		parts = append(parts, "ok")
	} else {
		parts = append(parts, "no effect")
	}
	for _, h := range out.Hooks {
		status := "passed"
		if h.Err != nil || !h.Result.Passed {
			status = "failed"
		}
		parts = append(parts, fmt.Sprintf("%s %s", h.Name, status))
	}
	if step, ok := out.Snapshot.SelectedStep(); ok {
		parts = append(parts, fmt.Sprintf("now at %d %q", step.Index, step.Title))
	}
	if out.Snapshot.Completed {
		parts = append(parts, "complete")
	}
	return strings.Join(parts, ", ")
}
