package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/stepper/internal/orchestrator"
)

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.ctrl.Snapshot())
}

func (s *Server) handleAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	action, _ := args["action"].(string)
	if action == "" {
		return mcp.NewToolResultError("missing 'action' parameter"), nil
	}
	step, ok := intArg(args, "step")
	if !ok {
		step = -1
	}

	out, err := s.ctrl.Do(ctx, action, step)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return outcomeResult(out)
}

func (s *Server) handleActivate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, ok := intArg(request.GetArguments(), "index")
	if !ok {
		return mcp.NewToolResultError("missing 'index' parameter"), nil
	}

	out, err := s.ctrl.Activate(ctx, index)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !out.Performed {
		return mcp.NewToolResultError(fmt.Sprintf(
			"step %d cannot be activated: a linear stepper only allows completed editable steps or uncompleted optional steps",
			index)), nil
	}
	return outcomeResult(out)
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.ctrl.Reset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return outcomeResult(out)
}

func (s *Server) handleToggleOrientation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.ctrl.ToggleOrientation(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return outcomeResult(out)
}

// outcomeResult reports a hook failure as a tool error but still includes
// the resulting state.
func outcomeResult(out orchestrator.Outcome) (*mcp.CallToolResult, error) {
	res, err := jsonResult(out)
	if err != nil {
		return nil, err
	}
	if out.Validation != nil && !out.Validation.Passed {
		res.IsError = true
	}
	return res, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}
