package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mark3labs/stepper/internal/logger"
)

// Run executes a hook command via the shell and reports whether it passed.
// Template variables ({{flow}}, {{run}}, {{step}}, {{index}}) are expanded
// first. Only context cancellation is returned as an error; a nil or empty
// hook passes.
func Run(ctx context.Context, hook *HookConfig, workDir string, vars Variables) (Result, error) {
	if hook == nil || strings.TrimSpace(hook.Command) == "" {
		return Result{Passed: true}, nil
	}

	command := expandVariables(hook.Command, vars)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\n[stderr]\n" + stderr.String()
	}

	if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		logger.Warn("Hook command timed out after %ds: %s", timeout, command)
		return Result{
			TimedOut: true,
			Output:   fmt.Sprintf("[Hook timed out after %ds]\n%s", timeout, output),
		}, nil
	}

	if err != nil {
		logger.Warn("Hook command failed: %v", err)
		return Result{Output: fmt.Sprintf("[Hook command failed: %v]\n%s", err, output)}, nil
	}

	logger.Debug("Hook passed, output length: %d bytes", len(output))
	return Result{Passed: true, Output: output}, nil
}

// expandVariables replaces {{variable}} placeholders in the command string.
func expandVariables(command string, vars Variables) string {
	r := strings.NewReplacer(
		"{{flow}}", vars.Flow,
		"{{run}}", vars.Run,
		"{{step}}", vars.Step,
		"{{index}}", vars.Index,
	)
	return r.Replace(command)
}
