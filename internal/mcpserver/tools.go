package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

const (
	ToolState       = "stepper-state"
	ToolAction      = "stepper-action"
	ToolActivate    = "stepper-activate"
	ToolReset       = "stepper-reset"
	ToolOrientation = "stepper-toggle-orientation"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(ToolState,
			mcp.WithDescription("Return the current stepper state: selected step, modes and every step with its actions"),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolAction,
			mcp.WithDescription("Perform a step action such as continue, back, skip, cancel or a custom action. "+
				"Continue runs the step's validation hook first."),
			mcp.WithString("action", mcp.Required(),
				mcp.Description("Action name as listed in the step's actions"),
			),
			mcp.WithNumber("step",
				mcp.Description("Zero-based step index (default: the selected step)"),
			),
		),
		s.handleAction,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolActivate,
			mcp.WithDescription("Select a step directly, as if its header were clicked. Linear steppers may refuse."),
			mcp.WithNumber("index", mcp.Required(),
				mcp.Description("Zero-based step index"),
			),
		),
		s.handleActivate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolReset,
			mcp.WithDescription("Clear completion on every step and select the first step"),
		),
		s.handleReset,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolOrientation,
			mcp.WithDescription("Switch between horizontal and vertical layout"),
		),
		s.handleToggleOrientation,
	)
}
