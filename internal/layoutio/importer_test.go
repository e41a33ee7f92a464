package layoutio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"floorplan/internal/domain"
	"floorplan/internal/service"
	"floorplan/internal/storage"
)

type harness struct {
	importer *Importer
	plans    *service.FloorPlanService
	tables   *service.TableService
}

func newHarness(t *testing.T) *harness {
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
	plans := service.NewFloorPlanService(planStore, tableStore, history, emitter)
	tables := service.NewTableService(planStore, tableStore, history, emitter)
	return &harness{importer: NewImporter(plans, tables), plans: plans, tables: tables}
}

func writeLayout(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "layout.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImporter_ImportFileCreatesPlan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	path := writeLayout(t, t.TempDir(), validLayout)

	fp, err := h.importer.ImportFile(ctx, path, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if fp.Name != "Patio" || fp.CanvasWidth != 800 {
		t.Errorf("unexpected floor plan %+v", fp)
	}
	tables, _ := h.tables.ListTables(ctx, fp.ID)
	if len(tables) != 2 {
		t.Errorf("expected 2 tables, got %d", len(tables))
	}
}

func TestImporter_RejectedLayoutKeepsExisting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	fp, _ := h.plans.CreateFloorPlan(ctx, "Main room", 800, 600)
	tmpl := domain.TableTemplate{Capacity: 2, Shape: domain.ShapeCircle, DefaultWidth: 80, DefaultHeight: 80}
	h.tables.AddTable(ctx, fp.ID, tmpl, 0)

	doc := &Document{Name: "bad", CanvasWidth: 800, CanvasHeight: 600, Tables: []TableEntry{
		{Capacity: 2, Shape: "square", X: 0, Y: 0, Width: 50, Height: 50},
		{Capacity: 2, Shape: "square", X: 10, Y: 10, Width: 50, Height: 50},
	}}
	if _, err := h.importer.Import(ctx, doc, fp.ID); !errors.Is(err, domain.ErrCollision) {
		t.Fatalf("expected ErrCollision, got %v", err)
	}
	tables, _ := h.tables.ListTables(ctx, fp.ID)
	if len(tables) != 1 || tables[0].X != 360 {
		t.Errorf("store changed by rejected import: %+v", tables)
	}
}

func TestImporter_FailedCreateLeavesNoPlan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	doc := &Document{Name: "bad", CanvasWidth: 100, CanvasHeight: 100, Tables: []TableEntry{
		{Capacity: 2, Shape: "square", X: 80, Y: 0, Width: 50, Height: 50},
	}}
	if _, err := h.importer.Import(ctx, doc, ""); !errors.Is(err, domain.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	plans, _ := h.plans.ListFloorPlans(ctx)
	if len(plans) != 0 {
		t.Errorf("expected no floor plans, got %d", len(plans))
	}
}

func TestImporter_ExportThenReimportKeepsIDs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	fp, _ := h.plans.CreateFloorPlan(ctx, "Main room", 800, 600)
	tmpl := domain.TableTemplate{Capacity: 4, Shape: domain.ShapeSquare, DefaultWidth: 90, DefaultHeight: 90}
	first, _ := h.tables.AddTable(ctx, fp.ID, tmpl, 0)
	h.tables.AddTable(ctx, fp.ID, tmpl, 0)

	path := filepath.Join(t.TempDir(), "main.json")
	if err := h.importer.ExportFile(ctx, fp.ID, path); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := h.importer.ImportFile(ctx, path, fp.ID); err != nil {
		t.Fatalf("re-import: %v", err)
	}

	tables, _ := h.tables.ListTables(ctx, fp.ID)
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[0].ID != first.ID {
		t.Errorf("expected table ID %s to survive, got %s", first.ID, tables[0].ID)
	}

	// The same file imported as a new floor plan gets fresh IDs.
	copyPlan, err := h.importer.ImportFile(ctx, path, "")
	if err != nil {
		t.Fatal(err)
	}
	copied, _ := h.tables.ListTables(ctx, copyPlan.ID)
	if copied[0].ID == first.ID {
		t.Error("expected a fresh ID for a table copied to another floor plan")
	}
}
