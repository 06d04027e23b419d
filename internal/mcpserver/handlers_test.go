package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/stepper/internal/orchestrator"
	"github.com/mark3labs/stepper/internal/stepper"
	"github.com/stretchr/testify/require"
)

const testFlow = `
title: Checkout
linear: true
steps:
  - id: cart
    title: Cart
    validate:
      command: test -f cart.ok
  - id: shipping
    title: Shipping
    optional: true
  - id: pay
    title: Pay
    actions:
      - name: continue
        title: Pay now
      - name: coupon
`

func setupTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.yml")
	require.NoError(t, os.WriteFile(path, []byte(testFlow), 0644))

	o, err := orchestrator.New(orchestrator.Config{
		FlowPath: path,
		DataDir:  filepath.Join(dir, ".stepper"),
		WorkDir:  dir,
		RunName:  "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Stop() })

	return New(o), dir
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func call(t *testing.T, srv *Server, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func decodeOutcome(t *testing.T, res *mcp.CallToolResult) orchestrator.Outcome {
	t.Helper()
	var out orchestrator.Outcome
	require.NoError(t, json.Unmarshal([]byte(extractText(res)), &out))
	return out
}

func TestHandleState(t *testing.T) {
	srv, _ := setupTestServer(t)

	res := call(t, srv, srv.handleState, ToolState, nil)
	require.False(t, res.IsError)

	var snap stepper.Snapshot
	require.NoError(t, json.Unmarshal([]byte(extractText(res)), &snap))
	require.Equal(t, 0, snap.Selected)
	require.True(t, snap.Linear)
	require.Len(t, snap.Steps, 3)
	require.Equal(t, "Pay now", snap.Steps[2].Actions[0].Title)
}

func TestHandleAction_ValidationFailure(t *testing.T) {
	srv, dir := setupTestServer(t)

	res := call(t, srv, srv.handleAction, ToolAction, map[string]any{"action": "continue"})
	require.True(t, res.IsError)
	out := decodeOutcome(t, res)
	require.True(t, out.Snapshot.Steps[0].Error)
	require.Equal(t, 0, out.Snapshot.Selected)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart.ok"), nil, 0644))

	res = call(t, srv, srv.handleAction, ToolAction, map[string]any{"action": "continue"})
	require.False(t, res.IsError)
	out = decodeOutcome(t, res)
	require.Equal(t, 1, out.Snapshot.Selected)
	require.True(t, out.Snapshot.Steps[0].Completed)
}

func TestHandleAction_Errors(t *testing.T) {
	srv, _ := setupTestServer(t)

	res := call(t, srv, srv.handleAction, ToolAction, map[string]any{})
	require.True(t, res.IsError)
	require.Contains(t, extractText(res), "missing 'action'")

	res = call(t, srv, srv.handleAction, ToolAction, map[string]any{"action": "back"})
	require.True(t, res.IsError)
	require.Contains(t, extractText(res), "not available")

	res = call(t, srv, srv.handleAction, ToolAction, map[string]any{"action": "continue", "step": float64(12)})
	require.True(t, res.IsError)
	require.Contains(t, extractText(res), "no such step")
}

func TestHandleAction_CustomOnStep(t *testing.T) {
	srv, _ := setupTestServer(t)

	res := call(t, srv, srv.handleAction, ToolAction, map[string]any{"action": "coupon", "step": float64(2)})
	require.False(t, res.IsError, extractText(res))
	out := decodeOutcome(t, res)
	require.True(t, out.Performed)
	require.Equal(t, 0, out.Snapshot.Selected, "custom actions change no state")
}

func TestHandleActivate(t *testing.T) {
	srv, _ := setupTestServer(t)

	res := call(t, srv, srv.handleActivate, ToolActivate, map[string]any{"index": float64(1)})
	require.False(t, res.IsError)
	require.Equal(t, 1, decodeOutcome(t, res).Snapshot.Selected)

	res = call(t, srv, srv.handleActivate, ToolActivate, map[string]any{"index": float64(2)})
	require.True(t, res.IsError)
	require.True(t, strings.Contains(extractText(res), "cannot be activated"))

	res = call(t, srv, srv.handleActivate, ToolActivate, map[string]any{})
	require.True(t, res.IsError)
}

func TestHandleResetAndOrientation(t *testing.T) {
	srv, _ := setupTestServer(t)

	call(t, srv, srv.handleActivate, ToolActivate, map[string]any{"index": "1"})

	res := call(t, srv, srv.handleReset, ToolReset, nil)
	require.Equal(t, 0, decodeOutcome(t, res).Snapshot.Selected)

	res = call(t, srv, srv.handleToggleOrientation, ToolOrientation, nil)
	require.True(t, decodeOutcome(t, res).Snapshot.Vertical)
}

func TestServerStartStop(t *testing.T) {
	srv, _ := setupTestServer(t)

	port, err := srv.Start("")
	require.NoError(t, err)
	require.NotZero(t, port)
	require.Contains(t, srv.URL(), "/mcp")

	_, err = srv.Start("")
	require.Error(t, err, "second start should fail")

	require.NoError(t, srv.Stop(context.Background()))
	require.NoError(t, srv.Stop(context.Background()))
}
