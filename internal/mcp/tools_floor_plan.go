package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerFloorPlanTools() {
	// ── list_floor_plans ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_floor_plans",
		mcp.WithDescription("List all floor plans"),
	), s.handleListFloorPlans)

	// ── create_floor_plan ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_floor_plan",
		mcp.WithDescription("Create an empty floor plan and make it the active one"),
		mcp.WithString("name",
			mcp.Description("Name of the dining room"),
			mcp.Required(),
		),
		mcp.WithNumber("canvasWidth", mcp.Description("Canvas width in pixels (default 800)")),
		mcp.WithNumber("canvasHeight", mcp.Description("Canvas height in pixels (default 600)")),
	), s.handleCreateFloorPlan)

	// ── get_floor_plan ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_floor_plan",
		mcp.WithDescription("Get a floor plan with its tables and overlap warnings"),
		mcp.WithString("floorPlanId", mcp.Description("ID of the floor plan (defaults to the active one)")),
	), s.handleGetFloorPlan)

	// ── set_active_floor_plan ──────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_floor_plan",
		mcp.WithDescription("Set the active floor plan for subsequent tool calls. Tools that accept floorPlanId will default to this."),
		mcp.WithString("floorPlanId",
			mcp.Description("ID of the floor plan to make active"),
			mcp.Required(),
		),
	), s.handleSetActiveFloorPlan)
}

func (s *Server) handleListFloorPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := s.plans.ListFloorPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list floor plans: %w", err)
	}
	return jsonResult(plans)
}

func (s *Server) handleCreateFloorPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	fp, err := s.plans.CreateFloorPlan(ctx, name, getFloat(args, "canvasWidth", 800), getFloat(args, "canvasHeight", 600))
	if err != nil {
		return nil, fmt.Errorf("create floor plan: %w", err)
	}
	// Auto-set as active floor plan
	s.setActivePlan(fp.ID)
	return jsonResult(fp)
}

func (s *Server) handleGetFloorPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := s.resolvePlanID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	state, err := s.plans.State(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get floor plan: %w", err)
	}
	return jsonResult(state)
}

func (s *Server) handleSetActiveFloorPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID := req.GetString("floorPlanId", "")
	if planID == "" {
		return nil, fmt.Errorf("floorPlanId is required")
	}
	if _, err := s.plans.GetFloorPlan(ctx, planID); err != nil {
		return nil, err
	}
	s.setActivePlan(planID)
	return textResult(fmt.Sprintf("Active floor plan set to %s", planID)), nil
}
