package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"floorplan/internal/domain"
	"floorplan/internal/layout"
	"floorplan/internal/logging"
)

// ─────────────────────────────────────────────────────────────
// Table Service: collision-aware table placement and seating
// ─────────────────────────────────────────────────────────────

// TableService adds, moves and edits tables, refusing any change that
// would overlap another table. On refusal the store is left untouched.
type TableService struct {
	plans   domain.FloorPlanStore
	tables  domain.TableStore
	history domain.LayoutHistory
	emitter EventEmitter
}

// NewTableService creates a TableService. With a nil history, layout edits
// can't be undone.
func NewTableService(plans domain.FloorPlanStore, tables domain.TableStore, history domain.LayoutHistory, emitter EventEmitter) *TableService {
	return &TableService{plans: plans, tables: tables, history: history, emitter: emitter}
}

// TablePatch carries optional edits to a table. Nil fields are unchanged.
type TablePatch struct {
	Number   *int
	Capacity *int
	Shape    *domain.Shape
	X        *float64
	Y        *float64
	Width    *float64
	Height   *float64
}

// AddTable places a new table built from tmpl at the first free spot found
// by the spiral search. A number of 0 picks the next free table number.
// Returns domain.ErrNoSpace when the floor is full.
func (s *TableService) AddTable(ctx context.Context, floorPlanID string, tmpl domain.TableTemplate, number int) (*domain.Table, error) {
	fp, existing, err := s.load(ctx, floorPlanID)
	if err != nil {
		return nil, err
	}
	t, err := newTable(fp, tmpl, number, existing)
	if err != nil {
		return nil, err
	}
	if err := checkSize(t, fp); err != nil {
		return nil, err
	}

	pos, err := layout.FindPlacement(*t, existing, fp.CanvasWidth, fp.CanvasHeight)
	if err != nil {
		return nil, fmt.Errorf("add table to %s: %w", fp.Name, err)
	}
	t.X, t.Y = pos.X, pos.Y

	if err := s.remember(ctx, floorPlanID, fmt.Sprintf("add table %d", t.Number), existing); err != nil {
		return nil, err
	}
	if err := s.tables.CreateTable(ctx, t); err != nil {
		s.forget(ctx, floorPlanID)
		return nil, fmt.Errorf("create table: %w", err)
	}
	s.emitChanged(ctx, floorPlanID)
	return t, nil
}

// AddTableAt places a new table at an explicit position, e.g. a drop point.
// The position is clamped into the canvas first.
func (s *TableService) AddTableAt(ctx context.Context, floorPlanID string, tmpl domain.TableTemplate, number int, pos domain.Position) (*domain.Table, error) {
	fp, existing, err := s.load(ctx, floorPlanID)
	if err != nil {
		return nil, err
	}
	t, err := newTable(fp, tmpl, number, existing)
	if err != nil {
		return nil, err
	}
	t.X, t.Y = pos.X, pos.Y
	if err := validateTable(t); err != nil {
		return nil, err
	}
	if err := fit(t, fp, existing); err != nil {
		return nil, err
	}

	if err := s.remember(ctx, floorPlanID, fmt.Sprintf("add table %d", t.Number), existing); err != nil {
		return nil, err
	}
	if err := s.tables.CreateTable(ctx, t); err != nil {
		s.forget(ctx, floorPlanID)
		return nil, fmt.Errorf("create table: %w", err)
	}
	s.emitChanged(ctx, floorPlanID)
	return t, nil
}

// MoveTable moves a table's top-left corner to (x, y).
func (s *TableService) MoveTable(ctx context.Context, id string, x, y float64) (*domain.Table, error) {
	return s.UpdateTable(ctx, id, TablePatch{X: &x, Y: &y})
}

// ResizeTable changes a table's size, keeping its top-left corner.
func (s *TableService) ResizeTable(ctx context.Context, id string, width, height float64) (*domain.Table, error) {
	return s.UpdateTable(ctx, id, TablePatch{Width: &width, Height: &height})
}

// UpdateTable applies patch, clamps the result into the canvas and stores
// it unless it collides with another table.
func (s *TableService) UpdateTable(ctx context.Context, id string, patch TablePatch) (*domain.Table, error) {
	t, err := s.tables.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	fp, others, err := s.load(ctx, t.FloorPlanID)
	if err != nil {
		return nil, err
	}

	if patch.Number != nil {
		t.Number = *patch.Number
	}
	if patch.Capacity != nil {
		t.Capacity = *patch.Capacity
	}
	if patch.Shape != nil {
		t.Shape = *patch.Shape
	}
	if patch.X != nil {
		t.X = *patch.X
	}
	if patch.Y != nil {
		t.Y = *patch.Y
	}
	if patch.Width != nil {
		t.Width = *patch.Width
	}
	if patch.Height != nil {
		t.Height = *patch.Height
	}

	if err := validateTable(t); err != nil {
		return nil, err
	}
	if err := fit(t, fp, others); err != nil {
		return nil, err
	}
	if err := s.remember(ctx, t.FloorPlanID, fmt.Sprintf("edit table %d", t.Number), others); err != nil {
		return nil, err
	}
	if err := s.tables.UpdateTable(ctx, t); err != nil {
		s.forget(ctx, t.FloorPlanID)
		return nil, fmt.Errorf("update table: %w", err)
	}
	s.emitChanged(ctx, t.FloorPlanID)
	return t, nil
}

// SetStatus seats, reserves or clears a table.
func (s *TableService) SetStatus(ctx context.Context, id string, status domain.TableStatus) (*domain.Table, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, domain.ErrInvalidTable)
	}
	t, err := s.tables.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	if err := s.tables.UpdateTable(ctx, t); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	s.emitChanged(ctx, t.FloorPlanID)
	return t, nil
}

func (s *TableService) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	return s.tables.GetTable(ctx, id)
}

func (s *TableService) ListTables(ctx context.Context, floorPlanID string) ([]domain.Table, error) {
	return s.tables.ListTables(ctx, floorPlanID)
}

// DeleteTable removes a table.
func (s *TableService) DeleteTable(ctx context.Context, id string) error {
	t, err := s.tables.GetTable(ctx, id)
	if err != nil {
		return err
	}
	existing, err := s.tables.ListTables(ctx, t.FloorPlanID)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	if err := s.remember(ctx, t.FloorPlanID, fmt.Sprintf("delete table %d", t.Number), existing); err != nil {
		return err
	}
	if err := s.tables.DeleteTable(ctx, id); err != nil {
		s.forget(ctx, t.FloorPlanID)
		return fmt.Errorf("delete table: %w", err)
	}
	s.emitChanged(ctx, t.FloorPlanID)
	return nil
}

// Overlaps reports, per table, which other tables it collides with.
// Layouts saved through this service never overlap; imports from older
// data or other writers can.
func (s *TableService) Overlaps(ctx context.Context, floorPlanID string) (map[string][]string, error) {
	tables, err := s.tables.ListTables(ctx, floorPlanID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return layout.Overlaps(tables), nil
}

// ArrangeTables lays every table out in rows and saves the result.
func (s *TableService) ArrangeTables(ctx context.Context, floorPlanID string) ([]domain.Table, error) {
	fp, tables, err := s.load(ctx, floorPlanID)
	if err != nil {
		return nil, err
	}
	before := append([]domain.Table(nil), tables...)
	arranged, err := layout.Arrange(tables, fp.CanvasWidth, fp.CanvasHeight)
	if err != nil {
		return nil, fmt.Errorf("arrange %s: %w", fp.Name, err)
	}
	if err := s.remember(ctx, floorPlanID, "arrange tables", before); err != nil {
		return nil, err
	}
	if err := s.tables.ReplaceFloorPlanTables(ctx, floorPlanID, arranged); err != nil {
		s.forget(ctx, floorPlanID)
		return nil, fmt.Errorf("save arrangement: %w", err)
	}
	s.emitChanged(ctx, floorPlanID)
	return arranged, nil
}

// ReplaceLayout swaps a floor plan's whole layout, e.g. on import, and
// resizes its canvas to canvasW×canvasH. The layout is rejected unless every
// table is valid, inside the canvas and clear of every other table.
// The caller's slice is not modified.
func (s *TableService) ReplaceLayout(ctx context.Context, floorPlanID string, canvasW, canvasH float64, incoming []domain.Table) error {
	fp, existing, err := s.load(ctx, floorPlanID)
	if err != nil {
		return err
	}
	if !finite(canvasW, canvasH) || canvasW <= 0 || canvasH <= 0 {
		return fmt.Errorf("canvas size %.0f×%.0f: %w", canvasW, canvasH, domain.ErrInvalidFloorPlan)
	}
	tables := append([]domain.Table(nil), incoming...)
	// Keep IDs of tables already on this floor plan so an unchanged table
	// survives a re-import. Anything else gets a fresh ID.
	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.ID] = true
	}
	seen := make(map[string]bool, len(incoming))
	for i := range tables {
		t := &tables[i]
		if !known[t.ID] || seen[t.ID] {
			t.ID = uuid.New().String()
		}
		seen[t.ID] = true
		if t.Status == "" {
			t.Status = domain.TableStatusAvailable
		}
		if err := validateTable(t); err != nil {
			return fmt.Errorf("table %d: %w", t.Number, err)
		}
		if !layout.InBounds(t.Placement(), canvasW, canvasH) {
			return fmt.Errorf("table %d at (%.0f, %.0f): %w", t.Number, t.X, t.Y, domain.ErrOutOfBounds)
		}
	}
	if overlaps := layout.Overlaps(tables); len(overlaps) > 0 {
		return fmt.Errorf("%d tables overlap: %w", len(overlaps), domain.ErrCollision)
	}

	// The canvas is resized first so stored tables never sit outside it.
	oldW, oldH := fp.CanvasWidth, fp.CanvasHeight
	resized := oldW != canvasW || oldH != canvasH
	if resized {
		fp.CanvasWidth, fp.CanvasHeight = canvasW, canvasH
		if err := s.plans.UpdateFloorPlan(ctx, fp); err != nil {
			return fmt.Errorf("resize canvas: %w", err)
		}
	}
	if err := s.remember(ctx, floorPlanID, "replace layout", existing); err != nil {
		s.restoreCanvas(ctx, fp, resized, oldW, oldH)
		return err
	}
	if err := s.tables.ReplaceFloorPlanTables(ctx, floorPlanID, tables); err != nil {
		s.forget(ctx, floorPlanID)
		s.restoreCanvas(ctx, fp, resized, oldW, oldH)
		return fmt.Errorf("replace tables: %w", err)
	}
	if resized {
		s.emitter.Emit(ctx, EventFloorPlansChanged, map[string]string{"floorPlanId": floorPlanID})
	}
	s.emitChanged(ctx, floorPlanID)
	return nil
}

// Undo restores the layout from before the most recent edit. Seating
// status is not part of the layout: tables that still exist keep their
// current status. Returns domain.ErrNotFound when there is nothing to undo.
func (s *TableService) Undo(ctx context.Context, floorPlanID string) (*domain.LayoutSnapshot, error) {
	if s.history == nil {
		return nil, fmt.Errorf("layout history disabled: %w", domain.ErrNotFound)
	}
	fp, current, err := s.load(ctx, floorPlanID)
	if err != nil {
		return nil, err
	}
	snap, err := s.history.PopSnapshot(ctx, floorPlanID)
	if err != nil {
		return nil, err
	}

	// The canvas may have shrunk since the snapshot was taken.
	for _, t := range snap.Tables {
		if !layout.InBounds(t.Placement(), fp.CanvasWidth, fp.CanvasHeight) {
			s.putBack(ctx, snap)
			return nil, fmt.Errorf("undo %s: table %d at (%.0f, %.0f) is outside the %.0f×%.0f canvas: %w",
				snap.Label, t.Number, t.X, t.Y, fp.CanvasWidth, fp.CanvasHeight, domain.ErrOutOfBounds)
		}
	}

	status := make(map[string]domain.TableStatus, len(current))
	for _, t := range current {
		status[t.ID] = t.Status
	}
	for i := range snap.Tables {
		if st, ok := status[snap.Tables[i].ID]; ok {
			snap.Tables[i].Status = st
		}
	}

	if err := s.tables.ReplaceFloorPlanTables(ctx, floorPlanID, snap.Tables); err != nil {
		s.putBack(ctx, snap)
		return nil, fmt.Errorf("restore layout: %w", err)
	}
	s.emitChanged(ctx, floorPlanID)
	return snap, nil
}

// History lists the edits that can be undone, newest first.
func (s *TableService) History(ctx context.Context, floorPlanID string) ([]domain.LayoutSnapshot, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListSnapshots(ctx, floorPlanID)
}

// ResetStatuses marks every table available again, e.g. at close of day.
func (s *TableService) ResetStatuses(ctx context.Context) (int64, error) {
	n, err := s.tables.ResetStatuses(ctx, domain.TableStatusAvailable)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.emitter.Emit(ctx, EventStatusesReset, map[string]int64{"tables": n})
	}
	return n, nil
}

// ── helpers ────────────────────────────────────────────────

func (s *TableService) load(ctx context.Context, floorPlanID string) (*domain.FloorPlan, []domain.Table, error) {
	fp, err := s.plans.GetFloorPlan(ctx, floorPlanID)
	if err != nil {
		return nil, nil, err
	}
	tables, err := s.tables.ListTables(ctx, floorPlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("list tables: %w", err)
	}
	return fp, tables, nil
}

// remember pushes the pre-edit layout onto the undo history.
func (s *TableService) remember(ctx context.Context, floorPlanID, label string, tables []domain.Table) error {
	if s.history == nil {
		return nil
	}
	snap := &domain.LayoutSnapshot{
		ID:          uuid.New().String(),
		FloorPlanID: floorPlanID,
		Label:       label,
		Tables:      tables,
	}
	if err := s.history.PushSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

// forget drops the snapshot remember pushed when the edit it guarded failed.
func (s *TableService) forget(ctx context.Context, floorPlanID string) {
	if s.history == nil {
		return
	}
	if _, err := s.history.PopSnapshot(ctx, floorPlanID); err != nil {
		logging.FromContext(ctx).Warn("drop history entry", "floorPlanId", floorPlanID, "err", err)
	}
}

// putBack returns a popped snapshot to the history after a failed undo.
func (s *TableService) putBack(ctx context.Context, snap *domain.LayoutSnapshot) {
	if err := s.history.PushSnapshot(ctx, snap); err != nil {
		logging.FromContext(ctx).Warn("restore history entry", "floorPlanId", snap.FloorPlanID, "err", err)
	}
}

func (s *TableService) restoreCanvas(ctx context.Context, fp *domain.FloorPlan, resized bool, w, h float64) {
	if !resized {
		return
	}
	fp.CanvasWidth, fp.CanvasHeight = w, h
	if err := s.plans.UpdateFloorPlan(ctx, fp); err != nil {
		logging.FromContext(ctx).Warn("restore canvas size", "floorPlanId", fp.ID, "err", err)
	}
}

// checkSize rejects a table that cannot fit on the canvas at any position.
func checkSize(t *domain.Table, fp *domain.FloorPlan) error {
	if t.Width > fp.CanvasWidth || t.Height > fp.CanvasHeight {
		return fmt.Errorf("table %d is %.0f×%.0f, canvas is %.0f×%.0f: %w",
			t.Number, t.Width, t.Height, fp.CanvasWidth, fp.CanvasHeight, domain.ErrOutOfBounds)
	}
	return nil
}

// fit clamps t into the canvas and checks it against every other table.
func fit(t *domain.Table, fp *domain.FloorPlan, others []domain.Table) error {
	if err := checkSize(t, fp); err != nil {
		return err
	}
	pos := layout.Clamp(t.Placement(), fp.CanvasWidth, fp.CanvasHeight)
	t.X, t.Y = pos.X, pos.Y
	if layout.CollidesAny(t.Placement(), t.ID, others) {
		return fmt.Errorf("table %d at (%.0f, %.0f): %w", t.Number, t.X, t.Y, domain.ErrCollision)
	}
	return nil
}

func (s *TableService) emitChanged(ctx context.Context, floorPlanID string) {
	s.emitter.Emit(ctx, EventTablesChanged, map[string]string{"floorPlanId": floorPlanID})
}

func newTable(fp *domain.FloorPlan, tmpl domain.TableTemplate, number int, existing []domain.Table) (*domain.Table, error) {
	if number <= 0 {
		number = nextNumber(existing)
	}
	t := &domain.Table{
		ID:          uuid.New().String(),
		FloorPlanID: fp.ID,
		Number:      number,
		Capacity:    tmpl.Capacity,
		Shape:       tmpl.Shape,
		Width:       tmpl.DefaultWidth,
		Height:      tmpl.DefaultHeight,
		Status:      domain.TableStatusAvailable,
	}
	if err := validateTable(t); err != nil {
		return nil, err
	}
	return t, nil
}

func nextNumber(tables []domain.Table) int {
	highest := 0
	for _, t := range tables {
		if t.Number > highest {
			highest = t.Number
		}
	}
	return highest + 1
}

func validateTable(t *domain.Table) error {
	switch {
	case !t.Shape.Valid():
		return fmt.Errorf("shape %q: %w", t.Shape, domain.ErrInvalidTable)
	case t.Capacity <= 0:
		return fmt.Errorf("capacity %d: %w", t.Capacity, domain.ErrInvalidTable)
	case !finite(t.X, t.Y, t.Width, t.Height):
		return fmt.Errorf("table %d has a non-finite position or size: %w", t.Number, domain.ErrInvalidTable)
	case t.Width <= 0 || t.Height <= 0:
		return fmt.Errorf("size %.0f×%.0f: %w", t.Width, t.Height, domain.ErrInvalidTable)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
