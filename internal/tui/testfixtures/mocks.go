// Package testfixtures provides a mock controller and helpers for TUI
// tests.
//
// MockController wraps a real stepper built from a flow so renders reflect
// genuine state, and records every call for assertions:
//
//	ctrl := testfixtures.NewMockController(t, testfixtures.SurveyFlow)
//	m := wizard.New(ctx, ctrl, "")
//	// drive m.Update...
//	require.Equal(t, []string{"continue"}, ctrl.Actions())
package testfixtures

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/mark3labs/stepper/internal/flow"
	"github.com/mark3labs/stepper/internal/hooks"
	"github.com/mark3labs/stepper/internal/orchestrator"
	"github.com/mark3labs/stepper/internal/stepper"
	"github.com/stretchr/testify/require"
)

// MockController is an in-memory controller without hooks or journal.
// It is thread-safe.
type MockController struct {
	mu      sync.Mutex
	flow    *flow.Flow
	stepper *stepper.Stepper
	actions []string

	// FailValidation makes every continue fail validation with this output
	FailValidation string
	// Err, when set, is returned by every mutating call
	Err error
}

// NewMockController builds a controller from flow YAML.
func NewMockController(t *testing.T, flowYAML string) *MockController {
	t.Helper()
	f, err := flow.Parse([]byte(flowYAML))
	require.NoError(t, err)
	return &MockController{flow: f, stepper: f.Build()}
}

// Actions returns the names passed to Do, in order.
func (c *MockController) Actions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.actions...)
}

// Stepper exposes the underlying stepper.
func (c *MockController) Stepper() *stepper.Stepper { return c.stepper }

func (c *MockController) Snapshot() stepper.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stepper.Snapshot()
}

func (c *MockController) StepContent(index int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st := c.stepper.Step(index); st != nil {
		return st.Content
	}
	return ""
}

func (c *MockController) Flow() *flow.Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flow
}

func (c *MockController) Do(_ context.Context, action string, index int) (orchestrator.Outcome, error) {
	return c.mutate(action, func(out *orchestrator.Outcome) error {
		c.actions = append(c.actions, action)
		st := c.step(index)
		if st == nil {
			return fmt.Errorf("%w: %d", orchestrator.ErrNoStep, index)
		}
		if !st.ActionEnabled(action) {
			return fmt.Errorf("%w: %q", orchestrator.ErrActionUnavailable, action)
		}
		if c.FailValidation != "" && stepper.ParseAction(action) == stepper.ActionContinue {
			out.Validation = &hooks.Result{Output: c.FailValidation}
			st.SetError(true)
		}
		before := c.stepper.Snapshot()
		out.Performed = st.PerformAction(action)
		if out.Performed && stepper.ParseAction(action).Navigates() {
			out.Performed = c.stepper.Snapshot().Moved(before)
		}
		return nil
	})
}

func (c *MockController) Activate(_ context.Context, index int) (orchestrator.Outcome, error) {
	return c.mutate("activate", func(out *orchestrator.Outcome) error {
		out.Performed = c.stepper.Activate(index)
		return nil
	})
}

func (c *MockController) Reset(context.Context) (orchestrator.Outcome, error) {
	return c.mutate("reset", func(out *orchestrator.Outcome) error {
		c.stepper.Reset()
		out.Performed = true
		return nil
	})
}

func (c *MockController) ToggleOrientation(context.Context) (orchestrator.Outcome, error) {
	return c.mutate("toggle", func(out *orchestrator.Outcome) error {
		c.stepper.ToggleOrientation()
		out.Performed = true
		return nil
	})
}

func (c *MockController) ToggleError(_ context.Context, index int) (orchestrator.Outcome, error) {
	return c.mutate("error", func(out *orchestrator.Outcome) error {
		st := c.step(index)
		if st == nil {
			return fmt.Errorf("%w: %d", orchestrator.ErrNoStep, index)
		}
		st.SetError(!st.Error())
		out.Performed = true
		return nil
	})
}

func (c *MockController) Reload(_ context.Context, f *flow.Flow) (orchestrator.Outcome, error) {
	return c.mutate("reload", func(out *orchestrator.Outcome) error {
		c.flow = f
		c.stepper.SetSteps(flow.Reconcile(c.stepper.Steps(), f))
		out.Performed = true
		return nil
	})
}

func (c *MockController) mutate(action string, fn func(*orchestrator.Outcome) error) (orchestrator.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return orchestrator.Outcome{}, c.Err
	}
	out := orchestrator.Outcome{Action: action}
	if err := fn(&out); err != nil {
		return orchestrator.Outcome{}, err
	}
	out.Snapshot = c.stepper.Snapshot()
	return out, nil
}

// step must be called with the lock held.
func (c *MockController) step(index int) *stepper.Step {
	if index < 0 {
		index = c.stepper.Selected()
	}
	return c.stepper.Step(index)
}
