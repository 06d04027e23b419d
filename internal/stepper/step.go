package stepper

// Default icon names and labels used when a step leaves them empty.
const (
	DefaultCompletedIcon = "check-circle"
	DefaultEditableIcon  = "edit-circle"
	DefaultErrorIcon     = "warning"
	DefaultOptionalText  = "Optional"
)

// owner is the container a step reports to.
type owner interface {
	handleIntent(Intent)
	handleStepError(*Step)
	Remove(int)
}

// Step is a single stage of a stepper.
// Display fields and the Editable/Optional flags are set by the author.
// Completion and selection are owned by the Stepper.
type Step struct {
	ID      string
	Title   string
	Summary string
	Content string // Markdown body shown while the step is selected

	Editable bool // A completed step may be revisited in linear mode
	Optional bool // May be skipped; does not block overall completion

	Icon          string // Icon shown before completion; empty means step number
	CompletedIcon string
	EditableIcon  string
	ErrorIcon     string
	OptionalText  string
	HideActions   bool

	index     int
	completed bool
	selected  bool
	err       bool

	actions    []Action
	actionsSet bool

	owner owner
}

// NewStep creates a step with the given title and default icons.
func NewStep(title string) *Step {
	return &Step{
		Title:         title,
		CompletedIcon: DefaultCompletedIcon,
		EditableIcon:  DefaultEditableIcon,
		ErrorIcon:     DefaultErrorIcon,
		OptionalText:  DefaultOptionalText,
	}
}

// Index returns the step's position in its stepper.
func (s *Step) Index() int { return s.index }

// Number returns the 1-based ordinal shown when no icon applies.
func (s *Step) Number() int { return s.index + 1 }

// Completed reports whether the user advanced past this step via continue.
func (s *Step) Completed() bool { return s.completed }

// Selected reports whether this is the active step.
func (s *Step) Selected() bool { return s.selected }

// Error reports whether the step is in an invalid state.
func (s *Step) Error() bool { return s.err }

// SetError updates the error flag. A change notifies the owning stepper.
func (s *Step) SetError(v bool) {
	if s.err == v {
		return
	}
	s.err = v
	if s.owner != nil {
		s.owner.handleStepError(s)
	}
}

// Actions returns a copy of the step's action set.
func (s *Step) Actions() []Action {
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}

// SetActions sets an explicit action set. The stepper never overwrites an
// explicitly set list, including an empty one.
func (s *Step) SetActions(actions []Action) {
	s.actions = make([]Action, len(actions))
	copy(s.actions, actions)
	s.actionsSet = true
}

// HasActions reports whether an action set has been assigned.
func (s *Step) HasActions() bool { return s.actionsSet }

// Action looks up an action by name.
func (s *Step) Action(name string) (Action, bool) {
	name = normalizeName(name)
	for _, a := range s.actions {
		if normalizeName(a.Name) == name {
			return a, true
		}
	}
	return Action{}, false
}

// ActionEnabled reports whether the named action is present and not disabled.
func (s *Step) ActionEnabled(name string) bool {
	a, ok := s.Action(name)
	return ok && !a.Disabled
}

// VisibleActions returns the actions a renderer should show.
// Disabled actions are included so they can be drawn greyed out.
func (s *Step) VisibleActions() []Action {
	if s.HideActions {
		return nil
	}
	return s.Actions()
}

// PerformAction sends an intent for the named action to the owning stepper.
// Returns false when the step is detached or the action is not enabled.
func (s *Step) PerformAction(name string) bool {
	if s.owner == nil || !s.ActionEnabled(name) {
		return false
	}
	s.owner.handleIntent(Intent{Action: normalizeName(name), Step: s})
	return true
}

// CurrentIcon returns the icon name to display, or "" to show the number.
func (s *Step) CurrentIcon() string {
	if s.err {
		return orDefault(s.ErrorIcon, DefaultErrorIcon)
	}
	if s.completed {
		if s.Editable {
			return orDefault(s.EditableIcon, DefaultEditableIcon)
		}
		return orDefault(s.CompletedIcon, DefaultCompletedIcon)
	}
	return s.Icon
}

// Reset clears completion. Selection, error and actions are untouched.
func (s *Step) Reset() {
	s.completed = false
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
