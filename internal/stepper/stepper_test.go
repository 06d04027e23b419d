package stepper

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// newStepper builds a stepper with n steps titled "Step 1".."Step n".
func newStepper(t *testing.T, n int, opts ...Option) *Stepper {
	t.Helper()
	s := New(opts...)
	steps := make([]*Step, n)
	for i := range steps {
		steps[i] = NewStep("Step " + string(rune('1'+i)))
	}
	s.SetSteps(steps)
	return s
}

func selectedCount(s *Stepper) int {
	count := 0
	for _, st := range s.Steps() {
		if st.Selected() {
			count++
		}
	}
	return count
}

func TestNew_Unselected(t *testing.T) {
	s := New()
	require.Equal(t, Unselected, s.Selected())
	require.Nil(t, s.SelectedStep())
	require.False(t, s.Completed())
}

func TestSetSteps_InitializesSelection(t *testing.T) {
	s := newStepper(t, 3)
	require.Equal(t, 0, s.Selected())
	require.True(t, s.Step(0).Selected())
	require.Equal(t, 1, selectedCount(s))
	for i, st := range s.Steps() {
		require.Equal(t, i, st.Index())
		require.Equal(t, i+1, st.Number())
	}
}

func TestScenarioA_NonLinear(t *testing.T) {
	s := newStepper(t, 3)

	s.Next()
	require.Equal(t, 1, s.Selected())
	require.True(t, s.Step(0).Completed())

	s.Dispatch(Intent{Action: NameBack})
	require.Equal(t, 0, s.Selected())

	s.Next()
	s.Next()
	require.Equal(t, 2, s.Selected())
	require.True(t, s.Step(0).Completed())
	require.True(t, s.Step(1).Completed())
	require.False(t, s.Step(2).Completed())
}

func TestScenarioB_LinearOptionalNotAutoSkipped(t *testing.T) {
	s := New(WithLinear(true))
	steps := []*Step{NewStep("Required"), NewStep("Optional"), NewStep("Last")}
	steps[1].Optional = true
	s.SetSteps(steps)

	s.Next()
	require.True(t, steps[0].Completed())
	require.Equal(t, 1, s.Selected())

	require.False(t, s.Activate(2), "activating an uncompleted required step must be vetoed")
	require.Equal(t, 1, s.Selected())
}

func TestScenarioC_LinearRevisitEditable(t *testing.T) {
	s := newStepper(t, 3, WithLinear(true))
	s.Step(1).Editable = true

	s.Next()
	s.Next()
	require.Equal(t, 2, s.Selected())
	require.True(t, s.Step(1).Completed())

	require.True(t, s.Activate(1))
	require.Equal(t, 1, s.Selected())
}

func TestScenarioD_LinearErrorBlocksContinue(t *testing.T) {
	s := newStepper(t, 3, WithLinear(true))
	s.Next()
	require.Equal(t, 1, s.Selected())

	s.Step(1).SetError(true)
	s.Next()

	require.Equal(t, 1, s.Selected())
	require.False(t, s.Step(1).Completed())
}

func TestScenarioE_LastStepAlwaysReachable(t *testing.T) {
	s := newStepper(t, 2, WithLinear(true))
	s.Next()
	require.True(t, s.SetSelected(0))
	require.True(t, s.Step(0).Completed())

	require.Equal(t, 1, s.FindNextStep(0))
	s.Next()
	require.Equal(t, 1, s.Selected())
}

func TestContinue_LastStepIdempotentAfterCompletion(t *testing.T) {
	s := newStepper(t, 3, WithLinear(true))
	s.Next()
	s.Next()
	s.Next()
	require.Equal(t, 2, s.Selected())
	require.True(t, s.Completed())

	s.Next()
	require.Equal(t, 2, s.Selected())
	require.True(t, s.Completed())
}

func TestContinue_NonLinearIgnoresError(t *testing.T) {
	s := newStepper(t, 2)
	s.Step(0).SetError(true)
	s.Next()
	require.Equal(t, 1, s.Selected())
	require.True(t, s.Step(0).Completed())
}

func TestFindNextStep_NonLinear(t *testing.T) {
	for n := 1; n <= 6; n++ {
		s := newStepper(t, n)
		for i := 0; i < n; i++ {
			want := i + 1
			if want > n-1 {
				want = n - 1
			}
			require.Equal(t, want, s.FindNextStep(i), "n=%d i=%d", n, i)
		}
	}
}

func TestFindNextStep_LinearSkipsCompletedNonEditable(t *testing.T) {
	s := newStepper(t, 5, WithLinear(true))
	// Complete everything, then go back to the start
	for i := 0; i < 4; i++ {
		s.Next()
	}
	require.True(t, s.SetSelected(0))

	require.Equal(t, 4, s.FindNextStep(0))

	s.Step(2).Editable = true
	require.Equal(t, 2, s.FindNextStep(0))
}

func TestBack(t *testing.T) {
	t.Run("no-op at first step", func(t *testing.T) {
		s := newStepper(t, 3)
		s.Back(nil)
		require.Equal(t, 0, s.Selected())
	})

	t.Run("relative to selection not source step", func(t *testing.T) {
		s := newStepper(t, 3)
		s.Next()
		s.Next()
		s.Back(s.Step(0))
		require.Equal(t, 1, s.Selected())
	})
}

func TestSkip(t *testing.T) {
	t.Run("does not complete", func(t *testing.T) {
		s := newStepper(t, 3, WithLinear(true))
		s.Step(0).Optional = true
		s.Skip(s.Step(0))
		require.Equal(t, 1, s.Selected())
		require.False(t, s.Step(0).Completed())
	})

	t.Run("allowed on required step", func(t *testing.T) {
		s := newStepper(t, 3, WithLinear(true))
		s.Skip(s.Step(0))
		require.Equal(t, 1, s.Selected())
	})
}

func TestCancel(t *testing.T) {
	var cancelled *Step
	s := newStepper(t, 2, WithCancelHandler(func(st *Step) { cancelled = st }))
	s.Next()

	before := s.Snapshot()
	require.True(t, s.Step(1).PerformAction(NameCancel))
	require.Equal(t, before, s.Snapshot())
	require.Same(t, s.Step(1), cancelled)
}

func TestActivate(t *testing.T) {
	t.Run("non-linear any step", func(t *testing.T) {
		s := newStepper(t, 4)
		require.True(t, s.Activate(3))
		require.Equal(t, 3, s.Selected())
	})

	t.Run("out of range ignored", func(t *testing.T) {
		s := newStepper(t, 2)
		require.False(t, s.Activate(5))
		require.False(t, s.Activate(-1))
		require.Equal(t, 0, s.Selected())
	})

	tests := []struct {
		name      string
		completed bool
		editable  bool
		optional  bool
		allowed   bool
	}{
		{"completed editable", true, true, false, true},
		{"completed not editable", true, false, false, false},
		{"completed optional not editable", true, false, true, false},
		{"uncompleted optional", false, false, true, true},
		{"uncompleted required", false, false, false, false},
		{"uncompleted editable required", false, true, false, false},
	}
	for _, tt := range tests {
		t.Run("linear "+tt.name, func(t *testing.T) {
			s := newStepper(t, 3, WithLinear(true))
			target := s.Step(1)
			target.Editable = tt.editable
			target.Optional = tt.optional
			if tt.completed {
				s.Continue(target)
			}
			require.True(t, s.SetSelected(2))

			require.Equal(t, tt.allowed, s.Activate(1))
			if tt.allowed {
				require.Equal(t, 1, s.Selected())
			} else {
				require.Equal(t, 2, s.Selected())
			}
		})
	}
}

func TestCompleted(t *testing.T) {
	s := New()
	require.False(t, s.Completed(), "empty stepper is never completed")

	s = newStepper(t, 3)
	s.Step(1).Optional = true
	s.Continue(s.Step(0))
	require.False(t, s.Completed())
	s.Continue(s.Step(2))
	require.True(t, s.Completed())
}

func TestReset_Idempotent(t *testing.T) {
	s := newStepper(t, 3, WithLinear(true))
	s.Step(2).Optional = true
	s.Next()
	s.Next()
	s.Step(1).SetError(true)
	actions := s.Step(2).Actions()

	s.Reset()
	once := s.Snapshot()
	s.Reset()
	require.Equal(t, once, s.Snapshot())

	require.Equal(t, 0, s.Selected())
	for _, st := range s.Steps() {
		require.False(t, st.Completed())
	}
	require.True(t, s.Step(1).Error(), "reset leaves error untouched")
	require.True(t, s.Step(2).Optional)
	require.Equal(t, actions, s.Step(2).Actions())
}

func TestDefaultActions(t *testing.T) {
	t.Run("non-linear", func(t *testing.T) {
		s := newStepper(t, 2)
		require.Equal(t, []Action{
			{Name: NameContinue}, {Name: NameCancel}, {Name: NameBack, Disabled: true},
		}, s.Step(0).Actions())
		require.Equal(t, []Action{
			{Name: NameContinue}, {Name: NameCancel}, {Name: NameBack},
		}, s.Step(1).Actions())
	})

	t.Run("linear optional gets skip", func(t *testing.T) {
		s := New(WithLinear(true))
		required, optional := NewStep("a"), NewStep("b")
		optional.Optional = true
		s.SetSteps([]*Step{required, optional})
		require.Equal(t, []Action{{Name: NameContinue}, {Name: NameCancel}}, required.Actions())
		require.Equal(t, []Action{
			{Name: NameContinue}, {Name: NameCancel}, {Name: NameSkip},
		}, optional.Actions())
	})

	t.Run("author actions never overwritten", func(t *testing.T) {
		s := New()
		st := NewStep("custom")
		st.SetActions([]Action{{Name: "publish", Title: "Publish"}})
		s.Register(st)
		require.Equal(t, []Action{{Name: "publish", Title: "Publish"}}, st.Actions())

		st2 := NewStep("empty")
		st2.SetActions(nil)
		s.Register(st2)
		require.Empty(t, st2.Actions())
	})

	t.Run("not recomputed when mode changes", func(t *testing.T) {
		s := newStepper(t, 2)
		before := s.Step(1).Actions()
		s.SetLinear(true)
		s.Register(NewStep("third"))
		require.Equal(t, before, s.Step(1).Actions())
		require.Equal(t, []Action{{Name: NameContinue}, {Name: NameCancel}}, s.Step(2).Actions())
	})
}

func TestSetSteps_RemovalRepairsSelection(t *testing.T) {
	s := newStepper(t, 3)
	s.Next()
	s.Next()
	removed := s.Step(2)

	s.Remove(2)
	require.Equal(t, 1, s.Selected())
	require.Equal(t, 1, selectedCount(s))
	require.False(t, removed.Selected())
	require.False(t, removed.PerformAction(NameContinue), "detached step cannot send intents")

	s.Remove(0)
	require.Equal(t, 0, s.Step(0).Index())

	s.Remove(0)
	require.Equal(t, Unselected, s.Selected())
	require.Equal(t, 0, s.Len())

	s.Next()
	s.Back(nil)
	s.Skip(nil)
	s.Reset()
	require.Equal(t, Unselected, s.Selected())
}

func TestSetSteps_DuplicateHandle(t *testing.T) {
	s := New()
	a, b := NewStep("A"), NewStep("B")
	s.Register(a)
	s.Register(b)
	s.Register(a)

	require.Equal(t, 2, s.Len())
	require.Same(t, a, s.Step(0))
	require.Same(t, b, s.Step(1))
	require.Equal(t, 0, a.Index())
	require.Equal(t, 1, b.Index())
	require.Equal(t, 0, s.Selected())
	require.Equal(t, 1, selectedCount(s))
	require.True(t, a.Selected())

	s.SetSteps([]*Step{b, a, b})
	require.Equal(t, 2, s.Len())
	require.Equal(t, 0, b.Index())
	require.Equal(t, 1, a.Index())
	require.Equal(t, 1, selectedCount(s))
}

func TestSetSteps_MovesStepFromOtherStepper(t *testing.T) {
	first, second := New(), New()
	a, b := NewStep("A"), NewStep("B")
	first.SetSteps([]*Step{a, b})
	first.SetSelected(1)

	second.Register(b)

	require.Equal(t, 1, first.Len())
	require.Same(t, a, first.Step(0))
	require.Equal(t, 0, first.Selected())
	require.Equal(t, 1, selectedCount(first))

	require.Equal(t, 1, second.Len())
	require.Equal(t, 0, b.Index())
	require.True(t, b.Selected())
	require.True(t, b.PerformAction(NameContinue), "the new owner receives intents")
	require.True(t, b.Completed())
	require.False(t, first.Completed(), "the old owner no longer counts the step")
}

func TestSetSelected(t *testing.T) {
	s := newStepper(t, 3, WithLinear(true))
	require.True(t, s.SetSelected(2), "host-level selection is not gated")
	require.Equal(t, 2, s.Selected())
	require.False(t, s.SetSelected(3))
	require.Equal(t, 2, s.Selected())
}

func TestDispatch_UnknownActionIsNoop(t *testing.T) {
	s := newStepper(t, 2)
	before := s.Snapshot()
	s.Dispatch(Intent{Action: "frobnicate"})
	require.Equal(t, before, s.Snapshot())
}

func TestDispatch_ForeignStepIgnored(t *testing.T) {
	a := newStepper(t, 2)
	b := newStepper(t, 2)
	a.Dispatch(Intent{Action: NameContinue, Step: b.Step(0)})
	require.Equal(t, 0, a.Selected())
	require.False(t, b.Step(0).Completed())
}

func TestToggleOrientation(t *testing.T) {
	s := newStepper(t, 1)
	require.False(t, s.Vertical())
	s.ToggleOrientation()
	require.True(t, s.Vertical())
	s.ToggleOrientation()
	require.False(t, s.Vertical())
}

func TestEvents(t *testing.T) {
	s := New(WithLinear(true))
	var got []EventType
	unsubscribe := s.Subscribe(func(e Event) { got = append(got, e.Type) })

	s.SetSteps([]*Step{NewStep("a"), NewStep("b")})
	require.Equal(t, []EventType{EventStepsChanged, EventSelectedChanged}, got)

	got = nil
	require.True(t, s.Step(0).PerformAction(NameContinue))
	require.Equal(t, []EventType{EventAction, EventStepCompleted, EventSelectedChanged}, got)

	got = nil
	s.Step(1).SetError(true)
	s.Step(1).SetError(true)
	require.Equal(t, []EventType{EventStepError}, got)

	got = nil
	require.False(t, s.Activate(0))
	require.Equal(t, []EventType{EventActivationVetoed}, got)

	got = nil
	s.Step(1).SetError(false)
	s.Next()
	require.Equal(t, []EventType{EventStepError, EventStepCompleted, EventCompletedChanged}, got)

	unsubscribe()
	got = nil
	s.Reset()
	require.Empty(t, got)
}

func TestInvariants_RandomWalk(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, linear := range []bool{false, true} {
		s := newStepper(t, 5, WithLinear(linear))
		s.Step(1).Optional = true
		s.Step(3).Editable = true

		for i := 0; i < 500; i++ {
			switch rng.Intn(7) {
			case 0:
				s.Next()
			case 1:
				s.Back(nil)
			case 2:
				s.Skip(nil)
			case 3:
				s.Activate(rng.Intn(7) - 1)
			case 4:
				s.Step(rng.Intn(5)).SetError(rng.Intn(2) == 0)
			case 5:
				if rng.Intn(10) == 0 {
					s.Reset()
				}
			case 6:
				s.Dispatch(Intent{Action: NameCancel})
			}

			require.Equal(t, 1, selectedCount(s))
			require.True(t, s.SelectedStep().Selected())

			want := true
			for _, st := range s.Steps() {
				if !st.Completed() && !st.Optional {
					want = false
				}
			}
			require.Equal(t, want, s.Completed())
		}
	}
}
