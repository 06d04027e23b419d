package testfixtures

import (
	"os"
	"path/filepath"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/require"
)

// Initialize test environment
func init() {
	// Set Ascii profile to disable color output for consistent output across CI/platforms
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// Render draws into a canonical-size screen buffer and returns its plain
// text with escape sequences removed.
func Render(draw func(scr uv.Screen, area uv.Rectangle)) string {
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	draw(canvas, canvas.Bounds())
	return ansi.Strip(canvas.Render())
}

// WriteFlow writes a flow file into dir and returns its path.
func WriteFlow(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "flow.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
