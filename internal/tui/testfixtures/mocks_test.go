package testfixtures

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/stepper/internal/orchestrator"
	"github.com/stretchr/testify/require"
)

func TestMockController_Do(t *testing.T) {
	ctx := context.Background()
	ctrl := NewMockController(t, SurveyFlow)

	out, err := ctrl.Do(ctx, "continue", -1)
	require.NoError(t, err)
	require.True(t, out.Performed)
	require.Equal(t, 1, out.Snapshot.Selected)
	require.Equal(t, []string{"continue"}, ctrl.Actions())

	_, err = ctrl.Do(ctx, "coupon", -1)
	require.ErrorIs(t, err, orchestrator.ErrActionUnavailable)
}

func TestMockController_FailValidation(t *testing.T) {
	ctrl := NewMockController(t, CheckoutFlow)
	ctrl.FailValidation = "no cart"

	out, err := ctrl.Do(context.Background(), "continue", -1)
	require.NoError(t, err)
	require.NotNil(t, out.Validation)
	require.False(t, out.Validation.Passed)
	require.True(t, out.Snapshot.Steps[0].Error)
	require.Equal(t, 0, out.Snapshot.Selected, "a step in error does not advance")
}

func TestMockController_Err(t *testing.T) {
	ctrl := NewMockController(t, SurveyFlow)
	ctrl.Err = errors.New("boom")

	_, err := ctrl.Reset(context.Background())
	require.EqualError(t, err, "boom")
}
