package stepper

// Snapshot is a plain copy of the stepper state for renderers and observers.
type Snapshot struct {
	Selected  int            `json:"selected" yaml:"selected"`
	Linear    bool           `json:"linear" yaml:"linear"`
	Vertical  bool           `json:"vertical" yaml:"vertical"`
	Completed bool           `json:"completed" yaml:"completed"`
	Steps     []StepSnapshot `json:"steps" yaml:"steps"`
}

// StepSnapshot is the per-step part of a Snapshot.
type StepSnapshot struct {
	Index        int      `json:"index" yaml:"index"`
	Number       int      `json:"number" yaml:"number"`
	ID           string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title        string   `json:"title" yaml:"title"`
	Summary      string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Completed    bool     `json:"completed" yaml:"completed"`
	Selected     bool     `json:"selected" yaml:"selected"`
	Error        bool     `json:"error" yaml:"error"`
	Editable     bool     `json:"editable" yaml:"editable"`
	Optional     bool     `json:"optional" yaml:"optional"`
	OptionalText string   `json:"optional_text,omitempty" yaml:"optional_text,omitempty"`
	Icon         string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	HideActions  bool     `json:"hide_actions,omitempty" yaml:"hide_actions,omitempty"`
	Actions      []Action `json:"actions" yaml:"actions"`
}

// Snapshot captures the current state.
func (s *Stepper) Snapshot() Snapshot {
	snap := Snapshot{
		Selected:  s.selected,
		Linear:    s.linear,
		Vertical:  s.vertical,
		Completed: s.Completed(),
		Steps:     make([]StepSnapshot, 0, len(s.steps)),
	}
	for _, st := range s.steps {
		ss := StepSnapshot{
			Index:       st.index,
			Number:      st.Number(),
			ID:          st.ID,
			Title:       st.Title,
			Summary:     st.Summary,
			Completed:   st.completed,
			Selected:    st.selected,
			Error:       st.err,
			Editable:    st.Editable,
			Optional:    st.Optional,
			Icon:        st.CurrentIcon(),
			HideActions: st.HideActions,
			Actions:     st.VisibleActions(),
		}
		if st.Optional {
			ss.OptionalText = orDefault(st.OptionalText, DefaultOptionalText)
		}
		if ss.Actions == nil {
			ss.Actions = []Action{}
		}
		snap.Steps = append(snap.Steps, ss)
	}
	return snap
}

// SelectedStep returns the selected step's snapshot, if any.
func (s Snapshot) SelectedStep() (StepSnapshot, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Steps) {
		return StepSnapshot{}, false
	}
	return s.Steps[s.Selected], true
}

// EnabledActions returns the step's actions that are not disabled.
func (ss StepSnapshot) EnabledActions() []Action {
	var out []Action
	for _, a := range ss.Actions {
		if !a.Disabled {
			out = append(out, a)
		}
	}
	return out
}

// Moved reports whether the selection or any step's completion differs
// from prev. A navigation action that leaves both unchanged had no effect.
func (s Snapshot) Moved(prev Snapshot) bool {
	if s.Selected != prev.Selected || len(s.Steps) != len(prev.Steps) {
		return true
	}
	for i := range s.Steps {
		if s.Steps[i].Completed != prev.Steps[i].Completed {
			return true
		}
	}
	return false
}

// Navigates reports whether kind moves through the steps.
func (k ActionKind) Navigates() bool {
	return k == ActionContinue || k == ActionBack || k == ActionSkip
}
