// Package orchestrator ties a flow file to a live stepper and everything
// around it: validation and lifecycle hooks, the run journal, the flow
// watcher and saved UI preferences. It is the single entry point the TUI,
// the MCP server and the headless player drive the stepper through.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/stepper/internal/flow"
	"github.com/mark3labs/stepper/internal/hooks"
	"github.com/mark3labs/stepper/internal/logger"
	"github.com/mark3labs/stepper/internal/nats"
	"github.com/mark3labs/stepper/internal/session"
	"github.com/mark3labs/stepper/internal/state"
	"github.com/mark3labs/stepper/internal/stepper"
)

var (
	ErrNoStep            = errors.New("no such step")
	ErrActionUnavailable = errors.New("action not available")
	ErrStopped           = errors.New("orchestrator stopped")
)

// Config holds configuration for the orchestrator.
type Config struct {
	FlowPath string // Flow file to load
	DataDir  string // Journal storage and UI state
	WorkDir  string // Working directory for hooks
	RunName  string // Journal run name, derived from the flow title when empty
	Journal  bool   // Record events to the journal
	Watch    bool   // Reload the flow when the file changes
	Linear   *bool  // Overrides the flow's linear setting
	Vertical *bool  // Overrides the flow and saved orientation
}

// HookRun is the outcome of one lifecycle hook.
type HookRun struct {
	Name   string       `json:"name"`
	Result hooks.Result `json:"result"`
	Err    error        `json:"-"`
}

// Outcome reports what an operation did.
type Outcome struct {
	Action     string           `json:"action,omitempty"`
	Performed  bool             `json:"performed"`
	Validation *hooks.Result    `json:"validation,omitempty"`
	Hooks      []HookRun        `json:"hooks,omitempty"`
	Snapshot   stepper.Snapshot `json:"snapshot"`
}

type pendingHook struct {
	name string
	hook *hooks.HookConfig
	vars hooks.Variables
}

// Orchestrator owns a stepper built from a flow. All methods are safe for
// concurrent use.
type Orchestrator struct {
	cfg Config
	run string

	mu        sync.Mutex
	flow      *flow.Flow
	stepper   *stepper.Stepper
	ui        *state.UIState
	pending   []pendingHook
	listeners []func()
	stopped   bool

	embedded *nats.Embedded
	store    *session.Store
	detach   func()
	watcher  *flow.Watcher

	ctx    context.Context
	cancel context.CancelFunc
}

// New loads the flow and builds its stepper. Nothing is started until Start.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.DataDir == "" {
		cfg.DataDir = ".stepper"
	}
	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	f, err := flow.Load(cfg.FlowPath)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		cfg:    cfg,
		flow:   f,
		ui:     state.Load(cfg.DataDir),
		ctx:    ctx,
		cancel: cancel,
	}
	o.run = cfg.RunName
	if o.run == "" {
		o.run = defaultRunName(f)
	}

	o.stepper = f.Build(o.options()...)
	o.stepper.Subscribe(o.onEvent)
	return o, nil
}

func defaultRunName(f *flow.Flow) string {
	name := slug.Make(f.Title)
	if name == "" {
		name = "run"
	}
	return name + "-" + time.Now().Format("20060102-150405")
}

// options resolves modes: config overrides, then the flow file, then the
// saved orientation.
func (o *Orchestrator) options() []stepper.Option {
	vertical := o.ui.Layout.Vertical
	if o.flow.Vertical != nil {
		vertical = *o.flow.Vertical
	}
	if o.cfg.Vertical != nil {
		vertical = *o.cfg.Vertical
	}
	opts := []stepper.Option{
		stepper.WithVertical(vertical),
		stepper.WithCancelHandler(o.onCancel),
	}
	if o.cfg.Linear != nil {
		opts = append(opts, stepper.WithLinear(*o.cfg.Linear))
	}
	return opts
}

// Start opens the journal and the flow watcher when configured.
func (o *Orchestrator) Start() error {
	logger.Info("Starting orchestrator for run '%s'", o.run)

	if o.cfg.Journal {
		if err := o.startJournal(); err != nil {
			return fmt.Errorf("failed to start journal: %w", err)
		}
	}

	if o.cfg.Watch {
		w, err := flow.NewWatcher(o.flow.Path, o.onReload)
		if err != nil {
			return fmt.Errorf("failed to create flow watcher: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("failed to start flow watcher: %w", err)
		}
		o.watcher = w
	}
	return nil
}

func (o *Orchestrator) startJournal() error {
	dir := filepath.Join(o.cfg.DataDir, "nats")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create NATS data directory: %w", err)
	}

	e, err := nats.Start(o.ctx, dir)
	if err != nil {
		return err
	}
	o.embedded = e
	o.store = session.NewStore(e.JS, e.Stream)

	o.mu.Lock()
	o.detach = session.NewRecorder(o.store, o.run).Attach(o.ctx, o.stepper)
	o.mu.Unlock()
	return nil
}

// Stop shuts everything down. Calling it more than once is safe.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return nil
	}
	o.stopped = true
	if o.detach != nil {
		o.detach()
		o.detach = nil
	}
	o.mu.Unlock()

	logger.Info("Stopping orchestrator for run '%s'", o.run)

	var errs []error
	if o.watcher != nil {
		if err := o.watcher.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("flow watcher: %w", err))
		}
	}
	o.cancel()
	if o.embedded != nil {
		if err := o.embedded.Close(); err != nil {
			errs = append(errs, fmt.Errorf("NATS shutdown failed: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Run returns the journal run name.
func (o *Orchestrator) Run() string { return o.run }

// Store returns the journal store, nil unless the journal is enabled.
func (o *Orchestrator) Store() *session.Store { return o.store }

// Flow returns the currently loaded flow.
func (o *Orchestrator) Flow() *flow.Flow {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.flow
}

// OnChange registers fn to be called after every state change, including
// changes that originate outside the caller (reloads, other clients).
func (o *Orchestrator) OnChange(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
}

// Snapshot returns the current stepper state.
func (o *Orchestrator) Snapshot() stepper.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stepper.Snapshot()
}

// StepContent returns the markdown body of the step at index.
func (o *Orchestrator) StepContent(index int) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st := o.stepper.Step(index); st != nil {
		return st.Content
	}
	return ""
}

// Do performs a named action on the step at index, or on the selected step
// when index is negative. A continue on a step with a validate hook runs the
// hook first and records the result as the step's error flag.
func (o *Orchestrator) Do(ctx context.Context, action string, index int) (Outcome, error) {
	o.mu.Lock()
	st, err := o.resolve(index)
	if err != nil {
		o.mu.Unlock()
		return Outcome{}, err
	}
	if !st.ActionEnabled(action) {
		o.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: %q on step %d", ErrActionUnavailable, action, st.Index())
	}
	var validate *hooks.HookConfig
	if stepper.ParseAction(action) == stepper.ActionContinue {
		if def, ok := o.flow.StepDef(st.ID); ok {
			validate = def.Validate
		}
	}
	vars := o.vars(st)
	o.mu.Unlock()

	out := Outcome{Action: action}

	if validate != nil {
		res, err := hooks.Run(ctx, validate, o.cfg.WorkDir, vars)
		if err != nil {
			return out, fmt.Errorf("validation hook: %w", err)
		}
		out.Validation = &res
	}

	return o.mutate(ctx, out, func() bool {
		if out.Validation != nil {
			st.SetError(!out.Validation.Passed)
		}
		before := o.stepper.Snapshot()
		if !st.PerformAction(action) {
			return false
		}
		// A linear step in error blocks navigation without refusing the intent
		if stepper.ParseAction(action).Navigates() {
			return o.stepper.Snapshot().Moved(before)
		}
		return true
	})
}

// Activate selects the step at index as if its header were chosen.
func (o *Orchestrator) Activate(ctx context.Context, index int) (Outcome, error) {
	o.mu.Lock()
	_, err := o.resolve(index)
	o.mu.Unlock()
	if err != nil {
		return Outcome{}, err
	}
	return o.mutate(ctx, Outcome{Action: "activate"}, func() bool {
		return o.stepper.Activate(index)
	})
}

// Reset returns the stepper to its first step with nothing completed.
func (o *Orchestrator) Reset(ctx context.Context) (Outcome, error) {
	return o.mutate(ctx, Outcome{Action: "reset"}, func() bool {
		o.stepper.Reset()
		return o.stepper.Len() > 0
	})
}

// ToggleOrientation flips between horizontal and vertical layout.
func (o *Orchestrator) ToggleOrientation(ctx context.Context) (Outcome, error) {
	return o.mutate(ctx, Outcome{Action: "toggle"}, func() bool {
		o.stepper.ToggleOrientation()
		return true
	})
}

// SetError sets or clears the error flag on the step at index, or the
// selected step when index is negative.
func (o *Orchestrator) SetError(ctx context.Context, index int, v bool) (Outcome, error) {
	o.mu.Lock()
	st, err := o.resolve(index)
	o.mu.Unlock()
	if err != nil {
		return Outcome{}, err
	}
	return o.mutate(ctx, Outcome{Action: "error"}, func() bool {
		st.SetError(v)
		return true
	})
}

// ToggleError flips the error flag on the step at index.
func (o *Orchestrator) ToggleError(ctx context.Context, index int) (Outcome, error) {
	o.mu.Lock()
	st, err := o.resolve(index)
	o.mu.Unlock()
	if err != nil {
		return Outcome{}, err
	}
	return o.mutate(ctx, Outcome{Action: "error"}, func() bool {
		st.SetError(!st.Error())
		return true
	})
}

// Reload replaces the flow, keeping steps whose IDs survive. The flow's
// linear and vertical settings apply unless config overrides them; an
// omitted vertical keeps the current orientation.
func (o *Orchestrator) Reload(ctx context.Context, f *flow.Flow) (Outcome, error) {
	return o.mutate(ctx, Outcome{Action: "reload"}, func() bool {
		o.flow = f
		if o.cfg.Linear == nil {
			o.stepper.SetLinear(f.Linear != nil && *f.Linear)
		}
		if o.cfg.Vertical == nil && f.Vertical != nil {
			o.stepper.SetVertical(*f.Vertical)
		}
		o.stepper.SetSteps(flow.Reconcile(o.stepper.Steps(), f))
		return true
	})
}

func (o *Orchestrator) onReload(f *flow.Flow, err error) {
	if err != nil {
		logger.Warn("Keeping previous flow: %v", err)
		return
	}
	if _, err := o.Reload(o.ctx, f); err != nil {
		logger.Warn("Flow reload failed: %v", err)
	}
}

// mutate runs fn under the lock, then runs any lifecycle hooks fn queued
// and notifies listeners.
func (o *Orchestrator) mutate(ctx context.Context, out Outcome, fn func() bool) (Outcome, error) {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return out, ErrStopped
	}
	out.Performed = fn()
	out.Snapshot = o.stepper.Snapshot()
	pending := o.pending
	o.pending = nil
	listeners := append([]func(){}, o.listeners...)
	o.mu.Unlock()

	for _, p := range pending {
		res, err := hooks.Run(ctx, p.hook, o.cfg.WorkDir, p.vars)
		if err != nil {
			logger.Warn("Hook %s interrupted: %v", p.name, err)
		} else if !res.Passed {
			logger.Warn("Hook %s failed: %s", p.name, res.Output)
		}
		out.Hooks = append(out.Hooks, HookRun{Name: p.name, Result: res, Err: err})
	}

	for _, fn := range listeners {
		fn()
	}
	return out, nil
}

// resolve must be called with the lock held.
func (o *Orchestrator) resolve(index int) (*stepper.Step, error) {
	if index < 0 {
		index = o.stepper.Selected()
	}
	st := o.stepper.Step(index)
	if st == nil {
		return nil, fmt.Errorf("%w: %d", ErrNoStep, index)
	}
	return st, nil
}

func (o *Orchestrator) vars(st *stepper.Step) hooks.Variables {
	v := hooks.Variables{Flow: o.flow.Title, Run: o.run, Index: "-1"}
	if st != nil {
		v.Step = st.ID
		v.Index = strconv.Itoa(st.Index())
	}
	return v
}

// onEvent runs synchronously inside stepper calls, so the lock is held.
func (o *Orchestrator) onEvent(e stepper.Event) {
	switch e.Type {
	case stepper.EventCompletedChanged:
		if e.Value && o.flow.Hooks.OnComplete != nil {
			o.pending = append(o.pending, pendingHook{
				name: "on_complete",
				hook: o.flow.Hooks.OnComplete,
				vars: o.vars(o.stepper.Step(e.Index)),
			})
		}
	case stepper.EventOrientationChanged:
		o.ui.Layout.Vertical = e.Value
		if err := state.Save(o.cfg.DataDir, o.ui); err != nil {
			logger.Warn("Failed to save UI state: %v", err)
		}
	}
}

func (o *Orchestrator) onCancel(st *stepper.Step) {
	if o.flow.Hooks.OnCancel == nil {
		return
	}
	o.pending = append(o.pending, pendingHook{
		name: "on_cancel",
		hook: o.flow.Hooks.OnCancel,
		vars: o.vars(st),
	})
}
