package theme

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/stretchr/testify/require"
)

func TestInterpolateColor(t *testing.T) {
	require.Equal(t, "#000000", InterpolateColor("#000000", "#ffffff", 0))
	require.Equal(t, "#ffffff", InterpolateColor("#000000", "#ffffff", 1))
	require.Equal(t, "#7f7f7f", InterpolateColor("#000000", "#ffffff", 0.5))
}

func TestParseHexColor(t *testing.T) {
	r, g, b := ParseHexColor("#cba6f7")
	require.Equal(t, []uint8{0xcb, 0xa6, 0xf7}, []uint8{r, g, b})

	r, g, b = ParseHexColor("bad")
	require.Zero(t, r)
	require.Zero(t, g)
	require.Zero(t, b)
}

func TestApplyGradient(t *testing.T) {
	lipgloss.Writer.Profile = colorprofile.Ascii

	require.Empty(t, ApplyGradient("", "#000000", "#ffffff"))
	out := ApplyGradient("Sign up", "#cba6f7", "#89b4fa")
	require.Contains(t, lipgloss.NewStyle().Render(out), "S")
	require.Equal(t, 7, lipgloss.Width(out))
}

func TestCurrent(t *testing.T) {
	orig := Current()
	t.Cleanup(func() { SetCurrent(orig) })

	require.Equal(t, "catppuccin-mocha", orig.Name)
	require.NotNil(t, orig.S())
	require.Same(t, orig.S(), orig.S(), "styles are built once")

	custom := NewCatppuccinMocha()
	custom.Name = "custom"
	SetCurrent(custom)
	require.Equal(t, "custom", Current().Name)
}
