// Package flow loads the declarative YAML description of a stepper and turns
// it into registered steps.
package flow

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gosimple/slug"
	"github.com/mark3labs/stepper/internal/hooks"
	"github.com/mark3labs/stepper/internal/stepper"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoSteps       = errors.New("flow has no steps")
	ErrDuplicateStep = errors.New("duplicate step id")
	ErrInvalidAction = errors.New("invalid action")
)

// Flow is the parsed content of a flow file.
type Flow struct {
	Title    string          `yaml:"title"`
	Linear   *bool           `yaml:"linear,omitempty"`
	Vertical *bool           `yaml:"vertical,omitempty"`
	Hooks    hooks.FlowHooks `yaml:"hooks,omitempty"`
	Steps    []StepDef       `yaml:"steps"`

	Path string `yaml:"-"`
}

// StepDef declares one step. Actions is a pointer so that an explicit empty
// list can be told apart from an omitted one.
type StepDef struct {
	ID            string            `yaml:"id,omitempty"`
	Title         string            `yaml:"title"`
	Summary       string            `yaml:"summary,omitempty"`
	Content       string            `yaml:"content,omitempty"`
	Editable      bool              `yaml:"editable,omitempty"`
	Optional      bool              `yaml:"optional,omitempty"`
	Icon          string            `yaml:"icon,omitempty"`
	CompletedIcon string            `yaml:"completed_icon,omitempty"`
	EditableIcon  string            `yaml:"editable_icon,omitempty"`
	ErrorIcon     string            `yaml:"error_icon,omitempty"`
	OptionalText  string            `yaml:"optional_text,omitempty"`
	HideActions   bool              `yaml:"hide_actions,omitempty"`
	Validate      *hooks.HookConfig `yaml:"validate,omitempty"`
	Actions       *[]stepper.Action `yaml:"actions,omitempty"`
}

// Load reads and validates a flow file.
func Load(path string) (*Flow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading flow file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse decodes and validates flow YAML.
func Parse(data []byte) (*Flow, error) {
	var f Flow
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing flow: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate fills in step IDs and checks the flow for structural errors.
func (f *Flow) Validate() error {
	if len(f.Steps) == 0 {
		return ErrNoSteps
	}

	seen := make(map[string]int, len(f.Steps))
	for i := range f.Steps {
		def := &f.Steps[i]
		if strings.TrimSpace(def.Title) == "" && def.ID == "" {
			return fmt.Errorf("step %d: title or id is required", i+1)
		}
		if def.ID == "" {
			def.ID = slug.Make(def.Title)
		}
		if def.ID == "" {
			def.ID = fmt.Sprintf("step-%d", i+1)
		}
		if prev, ok := seen[def.ID]; ok {
			return fmt.Errorf("%w %q (steps %d and %d)", ErrDuplicateStep, def.ID, prev+1, i+1)
		}
		seen[def.ID] = i

		if def.Actions != nil {
			for j, a := range *def.Actions {
				if strings.TrimSpace(a.Name) == "" {
					return fmt.Errorf("step %q action %d: %w: name is required", def.ID, j+1, ErrInvalidAction)
				}
			}
		}
	}
	return nil
}

// StepDef returns the definition with the given ID.
func (f *Flow) StepDef(id string) (StepDef, bool) {
	for _, def := range f.Steps {
		if def.ID == id {
			return def, true
		}
	}
	return StepDef{}, false
}

// NewStep creates a step from its definition.
func (d StepDef) NewStep() *stepper.Step {
	st := stepper.NewStep(d.Title)
	d.apply(st)
	if d.Actions != nil {
		st.SetActions(*d.Actions)
	}
	return st
}

// apply copies the author-set display fields onto a step. Runtime state and
// actions are left alone.
func (d StepDef) apply(st *stepper.Step) {
	st.ID = d.ID
	st.Title = d.Title
	st.Summary = d.Summary
	st.Content = d.Content
	st.Editable = d.Editable
	st.Optional = d.Optional
	st.Icon = d.Icon
	st.HideActions = d.HideActions
	if d.CompletedIcon != "" {
		st.CompletedIcon = d.CompletedIcon
	}
	if d.EditableIcon != "" {
		st.EditableIcon = d.EditableIcon
	}
	if d.ErrorIcon != "" {
		st.ErrorIcon = d.ErrorIcon
	}
	if d.OptionalText != "" {
		st.OptionalText = d.OptionalText
	}
}

// NewSteps creates a fresh step for every definition.
func (f *Flow) NewSteps() []*stepper.Step {
	steps := make([]*stepper.Step, len(f.Steps))
	for i, def := range f.Steps {
		steps[i] = def.NewStep()
	}
	return steps
}

// Build creates a stepper for the flow. Options are applied after the flow's
// own mode settings, so callers can override them.
func (f *Flow) Build(opts ...stepper.Option) *stepper.Stepper {
	var base []stepper.Option
	if f.Linear != nil {
		base = append(base, stepper.WithLinear(*f.Linear))
	}
	if f.Vertical != nil {
		base = append(base, stepper.WithVertical(*f.Vertical))
	}
	s := stepper.New(append(base, opts...)...)
	s.SetSteps(f.NewSteps())
	return s
}

// Reconcile produces the step list for a reloaded flow. Steps whose ID is
// still declared are reused so completion and actions survive the reload;
// their display fields are refreshed. New IDs get new steps.
func Reconcile(existing []*stepper.Step, f *Flow) []*stepper.Step {
	byID := make(map[string]*stepper.Step, len(existing))
	for _, st := range existing {
		byID[st.ID] = st
	}

	steps := make([]*stepper.Step, 0, len(f.Steps))
	for _, def := range f.Steps {
		if st, ok := byID[def.ID]; ok {
			def.apply(st)
			steps = append(steps, st)
			continue
		}
		steps = append(steps, def.NewStep())
	}
	return steps
}
