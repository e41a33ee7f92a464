package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"floorplan/internal/catalog"
	"floorplan/internal/domain"
	"floorplan/internal/service"
	"floorplan/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "floorplan.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	emitter := &service.MockEmitter{}
	planStore := storage.NewFloorPlanStore(db)
	tableStore := storage.NewTableStore(db)
	history := storage.NewHistoryStore(db)
	return New(Deps{
		Plans:   service.NewFloorPlanService(planStore, tableStore, history, emitter),
		Tables:  service.NewTableService(planStore, tableStore, history, emitter),
		Catalog: catalog.Default(),
		Logger:  log.New(io.Discard),
	})
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(resultText(t, res)), &v); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return v
}

func TestCreateFloorPlan_SetsActivePlan(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if _, err := s.handleGetFloorPlan(ctx, call(nil)); err == nil {
		t.Fatal("expected error without an active floor plan")
	}

	res, err := s.handleCreateFloorPlan(ctx, call(map[string]any{"name": "Patio"}))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	fp := decode[domain.FloorPlan](t, res)
	if fp.CanvasWidth != 800 || fp.CanvasHeight != 600 {
		t.Errorf("expected default 800×600 canvas, got %.0f×%.0f", fp.CanvasWidth, fp.CanvasHeight)
	}

	res, err = s.handleGetFloorPlan(ctx, call(nil))
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	state := decode[domain.FloorPlanState](t, res)
	if state.FloorPlan.ID != fp.ID {
		t.Errorf("expected active plan %s, got %s", fp.ID, state.FloorPlan.ID)
	}
}

func TestAddTable_SpiralAndRefusal(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.handleCreateFloorPlan(ctx, call(map[string]any{"name": "Booth", "canvasWidth": 80.0, "canvasHeight": 80.0}))

	res, err := s.handleAddTable(ctx, call(map[string]any{"template": "two-top"}))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	tbl := decode[domain.Table](t, res)
	if tbl.X != 0 || tbl.Y != 0 {
		t.Errorf("expected (0, 0), got (%.0f, %.0f)", tbl.X, tbl.Y)
	}

	res, err = s.handleAddTable(ctx, call(map[string]any{"template": "two-top"}))
	if err != nil {
		t.Fatalf("expected a tool-level refusal, got protocol error %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "no space") {
		t.Errorf("expected no-space refusal, got %+v", res)
	}

	if _, err := s.handleAddTable(ctx, call(map[string]any{"template": "banquet"})); err == nil {
		t.Error("expected unknown template error")
	}
}

func TestMoveTable_Collision(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.handleCreateFloorPlan(ctx, call(map[string]any{"name": "Main"}))

	first := decode[domain.Table](t, must(t)(s.handleAddTable(ctx, call(map[string]any{"template": "four-top"}))))
	second := decode[domain.Table](t, must(t)(s.handleAddTable(ctx, call(map[string]any{"template": "four-top", "x": 10.0, "y": 10.0}))))

	res, err := s.handleMoveTable(ctx, call(map[string]any{"tableId": second.ID, "x": first.X, "y": first.Y}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Errorf("expected collision refusal, got %s", resultText(t, res))
	}

	res, err = s.handleMoveTable(ctx, call(map[string]any{"tableId": second.ID, "x": 20.0, "y": 20.0}))
	if err != nil || res.IsError {
		t.Fatalf("expected move to succeed: %v", err)
	}
	if moved := decode[domain.Table](t, res); moved.X != 20 {
		t.Errorf("expected x=20, got %.0f", moved.X)
	}
}

func TestCheckCollisions_Candidate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.handleCreateFloorPlan(ctx, call(map[string]any{"name": "Main"}))
	tbl := decode[domain.Table](t, must(t)(s.handleAddTable(ctx, call(map[string]any{"template": "two-top"}))))

	res, err := s.handleCheckCollisions(ctx, call(map[string]any{
		"shape": "circle", "x": tbl.X + 40, "y": tbl.Y, "width": 80.0, "height": 80.0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	report := decode[candidateReport](t, res)
	if !report.Collides || len(report.With) != 1 || report.With[0] != tbl.ID {
		t.Errorf("unexpected report %+v", report)
	}

	res, _ = s.handleCheckCollisions(ctx, call(nil))
	overlaps := decode[map[string][]string](t, res)
	if len(overlaps) != 0 {
		t.Errorf("expected no overlaps, got %v", overlaps)
	}
}

func TestUndoLayout(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	s.handleCreateFloorPlan(ctx, call(map[string]any{"name": "Main"}))
	s.handleAddTable(ctx, call(map[string]any{"template": "two-top"}))

	res, err := s.handleUndoLayout(ctx, call(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), "add table 1") {
		t.Errorf("unexpected undo message %q", resultText(t, res))
	}
}

func TestPlanResource(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	fp := decode[domain.FloorPlan](t, must(t)(s.handleCreateFloorPlan(ctx, call(map[string]any{"name": "Main"}))))

	var req mcp.ReadResourceRequest
	req.Params.URI = plansURI + "/" + fp.ID
	contents, err := s.handlePlanResource(ctx, req)
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, fp.ID) {
		t.Errorf("resource does not mention the plan: %s", text)
	}
}

func TestPlanIDFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"floorplan://plans/abc-123", "abc-123"},
		{"floorplan://plans/", ""},
		{"floorplan://plans/abc/tables", ""},
		{"notes://page/abc", ""},
	}
	for _, tt := range tests {
		if got := planIDFromURI(tt.uri); got != tt.want {
			t.Errorf("planIDFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func must(t *testing.T) func(*mcp.CallToolResult, error) *mcp.CallToolResult {
	return func(res *mcp.CallToolResult, err error) *mcp.CallToolResult {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
}
