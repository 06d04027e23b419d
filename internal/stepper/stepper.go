// Package stepper implements the step navigation state machine behind a
// Material Design stepper: which step is selected, which actions each step
// offers, and how continue/back/skip/cancel move between steps in linear and
// non-linear mode.
//
// A Stepper is not safe for concurrent use. Hosts drive it from a single
// event loop and render from Snapshot.
package stepper

// Unselected is the selection value before any steps are known.
const Unselected = -1

// Option configures a Stepper.
type Option func(*Stepper)

// WithLinear sets linear mode.
func WithLinear(linear bool) Option {
	return func(s *Stepper) { s.linear = linear }
}

// WithVertical sets vertical orientation.
func WithVertical(vertical bool) Option {
	return func(s *Stepper) { s.vertical = vertical }
}

// WithCancelHandler installs a callback run when a step's cancel action fires.
func WithCancelHandler(fn func(*Step)) Option {
	return func(s *Stepper) { s.onCancel = fn }
}

// Stepper owns an ordered list of steps and the current selection.
type Stepper struct {
	steps    []*Step
	selected int
	linear   bool
	vertical bool

	onCancel func(*Step)

	subs      []subscription
	nextSubID uint64
}

// New creates an empty stepper.
func New(opts ...Option) *Stepper {
	s := &Stepper{selected: Unselected}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Steps returns the steps in order.
func (s *Stepper) Steps() []*Step {
	out := make([]*Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Len returns the number of steps.
func (s *Stepper) Len() int { return len(s.steps) }

// Step returns the step at index, or nil when out of range.
func (s *Stepper) Step(index int) *Step {
	if index < 0 || index >= len(s.steps) {
		return nil
	}
	return s.steps[index]
}

// Selected returns the selected index, or Unselected.
func (s *Stepper) Selected() int { return s.selected }

// SelectedStep returns the selected step, or nil.
func (s *Stepper) SelectedStep() *Step { return s.Step(s.selected) }

// Linear reports whether the stepper is in linear mode.
func (s *Stepper) Linear() bool { return s.linear }

// SetLinear changes the mode. Existing steps keep their action sets and past
// progress is not revalidated.
func (s *Stepper) SetLinear(linear bool) { s.linear = linear }

// Vertical reports the orientation.
func (s *Stepper) Vertical() bool { return s.vertical }

// SetVertical sets the orientation.
func (s *Stepper) SetVertical(vertical bool) {
	if s.vertical == vertical {
		return
	}
	s.vertical = vertical
	s.emit(Event{Type: EventOrientationChanged, Index: s.selected, Value: vertical})
}

// ToggleOrientation flips between horizontal and vertical.
func (s *Stepper) ToggleOrientation() {
	s.SetVertical(!s.vertical)
}

// Completed reports whether every non-optional step is completed.
// An empty stepper is never completed.
func (s *Stepper) Completed() bool {
	return isCompleted(s.steps)
}

func isCompleted(steps []*Step) bool {
	if len(steps) == 0 {
		return false
	}
	for _, st := range steps {
		if !st.completed && !st.Optional {
			return false
		}
	}
	return true
}

// SetSteps replaces the step list. Steps keep their state; steps no longer
// present are detached. A step listed twice is kept at its first position,
// and a step owned by another stepper is removed from it first.
func (s *Stepper) SetSteps(steps []*Step) {
	s.track(func() {
		keep := make(map[*Step]bool, len(steps))
		list := make([]*Step, 0, len(steps))
		for _, st := range steps {
			if st == nil || keep[st] {
				continue
			}
			keep[st] = true
			list = append(list, st)
		}
		for _, old := range s.steps {
			if !keep[old] {
				old.owner = nil
				old.selected = false
			}
		}
		for _, st := range list {
			if st.owner != nil && st.owner != s {
				st.owner.Remove(st.index)
			}
		}

		s.steps = list
		s.stepsChanged()
	})
}

// Register appends a step.
func (s *Stepper) Register(step *Step) {
	if step == nil {
		return
	}
	s.SetSteps(append(s.Steps(), step))
}

// Remove detaches the step at index. Out-of-range indices are ignored.
func (s *Stepper) Remove(index int) {
	if index < 0 || index >= len(s.steps) {
		return
	}
	steps := s.Steps()
	s.SetSteps(append(steps[:index], steps[index+1:]...))
}

// stepsChanged reindexes, assigns default actions and repairs the selection.
func (s *Stepper) stepsChanged() {
	prev := s.selected
	for i, st := range s.steps {
		st.index = i
		st.owner = s
		if !st.actionsSet {
			st.actions = defaultActions(i, s.linear, st.Optional)
			st.actionsSet = true
		}
	}

	switch {
	case len(s.steps) == 0:
		s.selected = Unselected
	case s.selected == Unselected:
		s.selected = 0
	case s.selected >= len(s.steps):
		s.selected = len(s.steps) - 1
	}
	s.mirrorSelection()

	s.emit(Event{Type: EventStepsChanged, Index: s.selected, Previous: prev})
	if s.selected != prev {
		s.emit(Event{Type: EventSelectedChanged, Index: s.selected, Previous: prev})
	}
}

// SetSelected moves the selection without any gate. Out-of-range indices are
// ignored. Returns true when the index is valid.
func (s *Stepper) SetSelected(index int) bool {
	if index < 0 || index >= len(s.steps) {
		return false
	}
	s.selectIndex(index)
	return true
}

func (s *Stepper) selectIndex(index int) {
	prev := s.selected
	s.selected = index
	s.mirrorSelection()
	if prev != index {
		s.emit(Event{Type: EventSelectedChanged, Index: index, Previous: prev})
	}
}

func (s *Stepper) mirrorSelection() {
	for i, st := range s.steps {
		st.selected = i == s.selected
	}
}

// Activate handles a direct selection of a step header.
// In linear mode only a completed editable step or an uncompleted optional
// step can be selected this way. Returns false when vetoed or out of range.
func (s *Stepper) Activate(index int) bool {
	st := s.Step(index)
	if st == nil {
		return false
	}
	if s.linear && !((st.completed && st.Editable) || (!st.completed && st.Optional)) {
		s.emit(Event{Type: EventActivationVetoed, Index: index, Previous: s.selected})
		return false
	}
	s.selectIndex(index)
	return true
}

// FindNextStep returns the index the stepper advances to from current.
//
// Non-linear: current+1. Linear: the first later step that is editable or
// not completed, scanning up to but not including the last step, which is
// returned when the scan finds nothing. The last step itself stays put.
func (s *Stepper) FindNextStep(current int) int {
	n := len(s.steps)
	if current == n-1 {
		return current
	}
	if !s.linear {
		return current + 1
	}
	index := current + 1
	for index < n-1 {
		st := s.steps[index]
		if st.Editable || !st.completed {
			return index
		}
		index++
	}
	return index
}

// Dispatch routes an intent to its handler. A nil step means the selected
// step. Intents for steps this stepper does not own are ignored.
func (s *Stepper) Dispatch(in Intent) {
	if len(s.steps) == 0 {
		return
	}
	if in.Step == nil {
		in.Step = s.SelectedStep()
	}
	if in.Step == nil || in.Step.owner != s {
		return
	}

	s.emit(Event{Type: EventAction, Index: in.Step.index, Action: normalizeName(in.Action)})

	switch in.Kind() {
	case ActionContinue:
		s.Continue(in.Step)
	case ActionBack:
		s.Back(in.Step)
	case ActionSkip:
		s.Skip(in.Step)
	case ActionCancel:
		s.Cancel(in.Step)
	case ActionCustom:
		// Observers handle custom actions
	}
}

// Next continues from the selected step.
func (s *Stepper) Next() {
	if len(s.steps) == 0 {
		return
	}
	s.Continue(s.SelectedStep())
}

// Continue completes step and advances the selection. In linear mode a step
// with an error blocks the transition.
func (s *Stepper) Continue(step *Step) {
	if step == nil || len(s.steps) == 0 {
		return
	}
	if s.linear && step.err {
		return
	}
	s.track(func() {
		if !step.completed {
			step.completed = true
			s.emit(Event{Type: EventStepCompleted, Index: step.index})
		}
		s.selectIndex(s.FindNextStep(s.selected))
	})
}

// Back selects the previous step. The step argument is ignored; the move is
// always relative to the current selection.
func (s *Stepper) Back(_ *Step) {
	if s.selected > 0 {
		s.selectIndex(s.selected - 1)
	}
}

// Skip advances without completing the current step. It does not require the
// step to be optional.
func (s *Stepper) Skip(_ *Step) {
	if len(s.steps) == 0 {
		return
	}
	s.selectIndex(s.FindNextStep(s.selected))
}

// Cancel changes no state. It notifies subscribers and the cancel handler.
func (s *Stepper) Cancel(step *Step) {
	index := Unselected
	if step != nil {
		index = step.index
	}
	s.emit(Event{Type: EventCancel, Index: index})
	if s.onCancel != nil {
		s.onCancel(step)
	}
}

// Reset selects the first step and clears completion on every step.
func (s *Stepper) Reset() {
	if len(s.steps) == 0 {
		return
	}
	s.track(func() {
		for _, st := range s.steps {
			st.Reset()
		}
		s.selectIndex(0)
		s.emit(Event{Type: EventReset, Index: 0})
	})
}

func (s *Stepper) handleIntent(in Intent) {
	s.Dispatch(in)
}

func (s *Stepper) handleStepError(st *Step) {
	s.emit(Event{Type: EventStepError, Index: st.index, Value: st.err})
}

// track emits EventCompletedChanged when fn flips overall completion.
func (s *Stepper) track(fn func()) {
	was := s.Completed()
	fn()
	if now := s.Completed(); now != was {
		s.emit(Event{Type: EventCompletedChanged, Index: s.selected, Value: now})
	}
}
