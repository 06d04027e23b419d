package flow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/stepper/internal/stepper"
	"github.com/stretchr/testify/require"
)

const signupFlow = `
title: Sign up
linear: true
hooks:
  on_complete:
    command: echo done
steps:
  - title: Account Details
    summary: Name and email
    content: "# Account"
    validate:
      command: test -f account.json
      timeout: 5
  - id: plan
    title: Choose plan
    optional: true
    optional_text: Can be changed later
  - title: Confirm
    completed_icon: done
    actions:
      - name: continue
        title: Finish
      - name: help
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(signupFlow))
	require.NoError(t, err)

	require.Equal(t, "Sign up", f.Title)
	require.NotNil(t, f.Linear)
	require.True(t, *f.Linear)
	require.Nil(t, f.Vertical)
	require.NotNil(t, f.Hooks.OnComplete)
	require.Equal(t, "echo done", f.Hooks.OnComplete.Command)

	require.Len(t, f.Steps, 3)
	require.Equal(t, "account-details", f.Steps[0].ID, "id derived from title")
	require.Equal(t, "plan", f.Steps[1].ID)
	require.Equal(t, "confirm", f.Steps[2].ID)

	require.NotNil(t, f.Steps[0].Validate)
	require.Equal(t, 5, f.Steps[0].Validate.Timeout)
	require.Nil(t, f.Steps[0].Actions)
	require.NotNil(t, f.Steps[2].Actions)
	require.Len(t, *f.Steps[2].Actions, 2)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"no steps", "title: Empty\n", ErrNoSteps},
		{"duplicate id", "steps:\n  - title: One\n  - id: one\n    title: Again\n", ErrDuplicateStep},
		{"blank action", "steps:\n  - title: One\n    actions:\n      - name: \"\"\n", ErrInvalidAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("missing title and id", func(t *testing.T) {
		_, err := Parse([]byte("steps:\n  - summary: nothing\n"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("steps: [unterminated\n"))
		require.Error(t, err)
	})
}

func TestValidate_FallbackID(t *testing.T) {
	f := &Flow{Steps: []StepDef{{Title: "!!!"}}}
	require.NoError(t, f.Validate())
	require.Equal(t, "step-1", f.Steps[0].ID)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signup.yml")
	require.NoError(t, os.WriteFile(path, []byte(signupFlow), 0644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, f.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestBuild(t *testing.T) {
	f, err := Parse([]byte(signupFlow))
	require.NoError(t, err)

	s := f.Build()
	require.True(t, s.Linear())
	require.False(t, s.Vertical())
	require.Equal(t, 3, s.Len())
	require.Equal(t, 0, s.Selected())

	plan := s.Step(1)
	require.True(t, plan.Optional)
	require.Equal(t, "Can be changed later", plan.OptionalText)
	require.True(t, plan.ActionEnabled(stepper.NameSkip), "optional linear step gets skip")

	confirm := s.Step(2)
	require.Equal(t, "done", confirm.CompletedIcon)
	actions := confirm.Actions()
	require.Len(t, actions, 2)
	require.Equal(t, "Finish", actions[0].Label())
	require.Equal(t, "help", actions[1].Name)

	// Options override the flow's own settings
	s = f.Build(stepper.WithLinear(false), stepper.WithVertical(true))
	require.False(t, s.Linear())
	require.True(t, s.Vertical())
}

func TestBuild_ExplicitEmptyActions(t *testing.T) {
	f, err := Parse([]byte("steps:\n  - title: Info\n    actions: []\n"))
	require.NoError(t, err)

	s := f.Build()
	st := s.Step(0)
	require.True(t, st.HasActions())
	require.Empty(t, st.Actions(), "an explicit empty list must not be replaced by defaults")
}

func TestStepDef(t *testing.T) {
	f, err := Parse([]byte(signupFlow))
	require.NoError(t, err)

	def, ok := f.StepDef("plan")
	require.True(t, ok)
	require.Equal(t, "Choose plan", def.Title)

	_, ok = f.StepDef("nope")
	require.False(t, ok)
}

func TestReconcile(t *testing.T) {
	f, err := Parse([]byte(signupFlow))
	require.NoError(t, err)

	s := f.Build(stepper.WithLinear(false))
	s.Next()
	require.True(t, s.Step(0).Completed())
	account := s.Step(0)

	updated, err := Parse([]byte(`
steps:
  - title: Account Details
    summary: Updated summary
  - title: Review
  - id: plan
    title: Choose plan
`))
	require.NoError(t, err)

	steps := Reconcile(s.Steps(), updated)
	require.Len(t, steps, 3)
	require.Same(t, account, steps[0], "existing step reused by id")
	require.Equal(t, "Updated summary", steps[0].Summary)
	require.True(t, steps[0].Completed(), "completion survives reload")
	require.Equal(t, "review", steps[1].ID)
	require.False(t, steps[1].Completed())
	require.Equal(t, "plan", steps[2].ID)

	s.SetSteps(steps)
	require.Equal(t, 3, s.Len())
	require.Equal(t, 2, s.Step(2).Index())
}
