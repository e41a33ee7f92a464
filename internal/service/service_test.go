package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"floorplan/internal/domain"
	"floorplan/internal/service"
	"floorplan/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Shared fixtures
// ─────────────────────────────────────────────────────────────

type fixture struct {
	emitter *service.MockEmitter
	plans   *service.FloorPlanService
	tables  *service.TableService
	store   *storage.TableStore
	history *storage.HistoryStore
	writes  *flakyTables
}

var errWriteFailed = errors.New("disk full")

// flakyTables fails every table write while fail is set.
type flakyTables struct {
	domain.TableStore
	fail bool
}

func (f *flakyTables) CreateTable(ctx context.Context, t *domain.Table) error {
	if f.fail {
		return errWriteFailed
	}
	return f.TableStore.CreateTable(ctx, t)
}

func (f *flakyTables) UpdateTable(ctx context.Context, t *domain.Table) error {
	if f.fail {
		return errWriteFailed
	}
	return f.TableStore.UpdateTable(ctx, t)
}

func (f *flakyTables) DeleteTable(ctx context.Context, id string) error {
	if f.fail {
		return errWriteFailed
	}
	return f.TableStore.DeleteTable(ctx, id)
}

func (f *flakyTables) ReplaceFloorPlanTables(ctx context.Context, floorPlanID string, tables []domain.Table) error {
	if f.fail {
		return errWriteFailed
	}
	return f.TableStore.ReplaceFloorPlanTables(ctx, floorPlanID, tables)
}

func newFixture(t *testing.T) *fixture {
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
	writes := &flakyTables{TableStore: tableStore}
	return &fixture{
		emitter: emitter,
		plans:   service.NewFloorPlanService(planStore, tableStore, history, emitter),
		tables:  service.NewTableService(planStore, writes, history, emitter),
		store:   tableStore,
		history: history,
		writes:  writes,
	}
}

func (f *fixture) plan(t *testing.T, w, h float64) *domain.FloorPlan {
	t.Helper()
	fp, err := f.plans.CreateFloorPlan(context.Background(), "Main room", w, h)
	if err != nil {
		t.Fatalf("create floor plan: %v", err)
	}
	return fp
}

var (
	twoTop   = domain.TableTemplate{Name: "two-top", Capacity: 2, Shape: domain.ShapeCircle, DefaultWidth: 80, DefaultHeight: 80}
	fourTop  = domain.TableTemplate{Name: "four-top", Capacity: 4, Shape: domain.ShapeSquare, DefaultWidth: 90, DefaultHeight: 90}
	banquet  = domain.TableTemplate{Name: "banquet", Capacity: 20, Shape: domain.ShapeRectangle, DefaultWidth: 400, DefaultHeight: 300}
)

// ─────────────────────────────────────────────────────────────
// jobGuard tests
// ─────────────────────────────────────────────────────────────

func TestJobGuard_TryStart(t *testing.T) {
	var g service.ExportedJobGuard

	if ok, _ := g.TryStart("reset"); !ok {
		t.Fatal("expected first TryStart to succeed")
	}
	ok, since := g.TryStart("reset")
	if ok {
		t.Fatal("expected second TryStart for same job to fail")
	}
	if since.IsZero() {
		t.Error("expected start time of the running job")
	}
	if ok, _ := g.TryStart("export"); !ok {
		t.Fatal("expected TryStart for different job to succeed")
	}
	if got := g.Running(); len(got) != 2 || got[0] != "export" || got[1] != "reset" {
		t.Errorf("Running() = %v", got)
	}

	g.Finish("reset")
	g.Finish("export")
	g.Finish("export") // no-op

	if ok, _ := g.TryStart("reset"); !ok {
		t.Fatal("expected TryStart to succeed after Finish")
	}
	g.Finish("reset")
}

func TestJobGuard_Wait(t *testing.T) {
	var g service.ExportedJobGuard
	g.TryStart("reset")

	go func() {
		time.Sleep(20 * time.Millisecond)
		g.Finish("reset")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := g.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestJobGuard_WaitTimeout(t *testing.T) {
	var g service.ExportedJobGuard
	g.TryStart("reset")
	defer g.Finish("reset")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := g.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// MockEmitter tests
// ─────────────────────────────────────────────────────────────

func TestMockEmitter_RecordsEvents(t *testing.T) {
	m := &service.MockEmitter{}
	ctx := context.Background()

	m.Emit(ctx, "test:event", map[string]string{"foo": "bar"})
	m.Emit(ctx, "test:event2", nil)
	m.Emit(ctx, "test:event", nil)

	if len(m.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(m.Events))
	}
	if m.Events[0].Event != "test:event" {
		t.Errorf("expected 'test:event', got %q", m.Events[0].Event)
	}
	if m.Count("test:event") != 2 {
		t.Errorf("expected 2 'test:event' emissions, got %d", m.Count("test:event"))
	}
}
