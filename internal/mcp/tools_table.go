package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"floorplan/internal/domain"
	"floorplan/internal/layout"
	"floorplan/internal/service"
)

func (s *Server) registerTableTools() {
	// ── list_templates ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the table templates that add_table accepts"),
	), s.handleListTemplates)

	// ── add_table ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_table",
		mcp.WithDescription("Add a table from a template. Without x/y the table goes to the first free spot near the canvas center."),
		mcp.WithString("floorPlanId", mcp.Description("ID of the floor plan (defaults to the active one)")),
		mcp.WithString("template",
			mcp.Description("Template name, e.g. two-top or six-top (see list_templates)"),
			mcp.Required(),
		),
		mcp.WithNumber("number", mcp.Description("Table number (default: next free number)")),
		mcp.WithNumber("x", mcp.Description("Left edge in pixels")),
		mcp.WithNumber("y", mcp.Description("Top edge in pixels")),
	), s.handleAddTable)

	// ── move_table ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_table",
		mcp.WithDescription("Move a table's top-left corner. Refused if it would overlap another table."),
		mcp.WithString("tableId", mcp.Description("ID of the table"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New left edge in pixels"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New top edge in pixels"), mcp.Required()),
	), s.handleMoveTable)

	// ── resize_table ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_table",
		mcp.WithDescription("Resize a table and optionally change its shape or capacity"),
		mcp.WithString("tableId", mcp.Description("ID of the table"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width in pixels")),
		mcp.WithNumber("height", mcp.Description("New height in pixels")),
		mcp.WithString("shape", mcp.Description("circle, square, rectangle or oval")),
		mcp.WithNumber("capacity", mcp.Description("Number of seats")),
	), s.handleResizeTable)

	// ── set_table_status ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_table_status",
		mcp.WithDescription("Seat, reserve or clear a table"),
		mcp.WithString("tableId", mcp.Description("ID of the table"), mcp.Required()),
		mcp.WithString("status",
			mcp.Description("available, occupied or reserved"),
			mcp.Required(),
		),
	), s.handleSetTableStatus)

	// ── delete_table ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_table",
		mcp.WithDescription("Remove a table from its floor plan"),
		mcp.WithString("tableId", mcp.Description("ID of the table"), mcp.Required()),
	), s.handleDeleteTable)

	// ── check_collisions ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("check_collisions",
		mcp.WithDescription("Report overlapping tables on a floor plan. With shape/x/y/width/height, report which tables that placement would collide with instead."),
		mcp.WithString("floorPlanId", mcp.Description("ID of the floor plan (defaults to the active one)")),
		mcp.WithString("shape", mcp.Description("Shape of the candidate placement")),
		mcp.WithNumber("x", mcp.Description("Left edge of the candidate")),
		mcp.WithNumber("y", mcp.Description("Top edge of the candidate")),
		mcp.WithNumber("width", mcp.Description("Width of the candidate")),
		mcp.WithNumber("height", mcp.Description("Height of the candidate")),
	), s.handleCheckCollisions)

	// ── arrange_tables ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("arrange_tables",
		mcp.WithDescription("Lay every table on the floor plan out in tidy rows"),
		mcp.WithString("floorPlanId", mcp.Description("ID of the floor plan (defaults to the active one)")),
	), s.handleArrangeTables)

	// ── undo_layout ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("undo_layout",
		mcp.WithDescription("Undo the most recent layout edit on a floor plan"),
		mcp.WithString("floorPlanId", mcp.Description("ID of the floor plan (defaults to the active one)")),
	), s.handleUndoLayout)
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.catalog.List())
}

func (s *Server) handleAddTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	planID, err := s.resolvePlanID(args)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.catalog.Lookup(req.GetString("template", ""))
	if err != nil {
		return nil, err
	}
	number := getInt(args, "number", 0)

	var t *domain.Table
	x, y := optFloat(args, "x"), optFloat(args, "y")
	if x != nil && y != nil {
		t, err = s.tables.AddTableAt(ctx, planID, tmpl, number, domain.Position{X: *x, Y: *y})
	} else {
		t, err = s.tables.AddTable(ctx, planID, tmpl, number)
	}
	if err != nil {
		return refusal(err)
	}
	return jsonResult(t)
}

func (s *Server) handleMoveTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	tableID := req.GetString("tableId", "")
	x, y := optFloat(args, "x"), optFloat(args, "y")
	if tableID == "" || x == nil || y == nil {
		return nil, fmt.Errorf("tableId, x and y are required")
	}
	t, err := s.tables.MoveTable(ctx, tableID, *x, *y)
	if err != nil {
		return refusal(err)
	}
	return jsonResult(t)
}

func (s *Server) handleResizeTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	tableID := req.GetString("tableId", "")
	if tableID == "" {
		return nil, fmt.Errorf("tableId is required")
	}

	patch := service.TablePatch{
		Width:  optFloat(args, "width"),
		Height: optFloat(args, "height"),
	}
	if shape := req.GetString("shape", ""); shape != "" {
		sh := domain.Shape(shape)
		patch.Shape = &sh
	}
	if c := getInt(args, "capacity", 0); c != 0 {
		patch.Capacity = &c
	}

	t, err := s.tables.UpdateTable(ctx, tableID, patch)
	if err != nil {
		return refusal(err)
	}
	return jsonResult(t)
}

func (s *Server) handleSetTableStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tableID := req.GetString("tableId", "")
	status := domain.TableStatus(req.GetString("status", ""))
	if tableID == "" {
		return nil, fmt.Errorf("tableId is required")
	}
	t, err := s.tables.SetStatus(ctx, tableID, status)
	if err != nil {
		return refusal(err)
	}
	return jsonResult(t)
}

func (s *Server) handleDeleteTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tableID := req.GetString("tableId", "")
	if tableID == "" {
		return nil, fmt.Errorf("tableId is required")
	}
	if err := s.tables.DeleteTable(ctx, tableID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted table %s", tableID)), nil
}

type candidateReport struct {
	Collides bool     `json:"collides"`
	With     []string `json:"with"`
	InBounds bool     `json:"inBounds"`
}

func (s *Server) handleCheckCollisions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	planID, err := s.resolvePlanID(args)
	if err != nil {
		return nil, err
	}

	shape := req.GetString("shape", "")
	if shape == "" {
		overlaps, err := s.tables.Overlaps(ctx, planID)
		if err != nil {
			return nil, err
		}
		return jsonResult(overlaps)
	}

	fp, err := s.plans.GetFloorPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	tables, err := s.tables.ListTables(ctx, planID)
	if err != nil {
		return nil, err
	}
	p := domain.Placement{
		Position: domain.Position{X: getFloat(args, "x", 0), Y: getFloat(args, "y", 0)},
		Width:    getFloat(args, "width", 0),
		Height:   getFloat(args, "height", 0),
		Shape:    domain.Shape(shape),
	}
	report := candidateReport{With: []string{}, InBounds: layout.InBounds(p, fp.CanvasWidth, fp.CanvasHeight)}
	for _, t := range tables {
		if layout.Collides(p, t.Placement()) {
			report.With = append(report.With, t.ID)
		}
	}
	report.Collides = len(report.With) > 0
	return jsonResult(report)
}

func (s *Server) handleArrangeTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := s.resolvePlanID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	tables, err := s.tables.ArrangeTables(ctx, planID)
	if err != nil {
		return refusal(err)
	}
	return jsonResult(tables)
}

func (s *Server) handleUndoLayout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := s.resolvePlanID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	snap, err := s.tables.Undo(ctx, planID)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Undid %q", snap.Label)), nil
}
