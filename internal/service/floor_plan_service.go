package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"floorplan/internal/domain"
	"floorplan/internal/layout"
)

// ─────────────────────────────────────────────────────────────
// FloorPlan Service: business logic for floor plans
// ─────────────────────────────────────────────────────────────

// FloorPlanService manages floor plans and their canvas size.
type FloorPlanService struct {
	plans   domain.FloorPlanStore
	tables  domain.TableStore
	history domain.LayoutHistory
	emitter EventEmitter
}

// NewFloorPlanService creates a FloorPlanService. history may be nil.
func NewFloorPlanService(plans domain.FloorPlanStore, tables domain.TableStore, history domain.LayoutHistory, emitter EventEmitter) *FloorPlanService {
	return &FloorPlanService{plans: plans, tables: tables, history: history, emitter: emitter}
}

// CreateFloorPlan creates an empty floor plan with the given canvas size.
func (s *FloorPlanService) CreateFloorPlan(ctx context.Context, name string, width, height float64) (*domain.FloorPlan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("floor plan name is required: %w", domain.ErrInvalidFloorPlan)
	}
	if !finite(width, height) || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size %.0f×%.0f: %w", width, height, domain.ErrInvalidFloorPlan)
	}
	fp := &domain.FloorPlan{
		ID:           uuid.New().String(),
		Name:         name,
		CanvasWidth:  width,
		CanvasHeight: height,
	}
	if err := s.plans.CreateFloorPlan(ctx, fp); err != nil {
		return nil, fmt.Errorf("create floor plan: %w", err)
	}
	s.emitter.Emit(ctx, EventFloorPlansChanged, map[string]string{"floorPlanId": fp.ID})
	return fp, nil
}

func (s *FloorPlanService) GetFloorPlan(ctx context.Context, id string) (*domain.FloorPlan, error) {
	return s.plans.GetFloorPlan(ctx, id)
}

func (s *FloorPlanService) ListFloorPlans(ctx context.Context) ([]domain.FloorPlan, error) {
	return s.plans.ListFloorPlans(ctx)
}

// RenameFloorPlan changes a floor plan's display name.
func (s *FloorPlanService) RenameFloorPlan(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("floor plan name is required: %w", domain.ErrInvalidFloorPlan)
	}
	fp, err := s.plans.GetFloorPlan(ctx, id)
	if err != nil {
		return err
	}
	fp.Name = name
	if err := s.plans.UpdateFloorPlan(ctx, fp); err != nil {
		return fmt.Errorf("rename floor plan: %w", err)
	}
	s.emitter.Emit(ctx, EventFloorPlansChanged, map[string]string{"floorPlanId": id})
	return nil
}

// ResizeCanvas changes the canvas size. Shrinking is refused when a table
// would end up outside the new bounds.
func (s *FloorPlanService) ResizeCanvas(ctx context.Context, id string, width, height float64) error {
	if !finite(width, height) || width <= 0 || height <= 0 {
		return fmt.Errorf("canvas size %.0f×%.0f: %w", width, height, domain.ErrInvalidFloorPlan)
	}
	fp, err := s.plans.GetFloorPlan(ctx, id)
	if err != nil {
		return err
	}
	tables, err := s.tables.ListTables(ctx, id)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	for _, t := range tables {
		if !layout.InBounds(t.Placement(), width, height) {
			return fmt.Errorf("table %d does not fit %.0f×%.0f: %w", t.Number, width, height, domain.ErrOutOfBounds)
		}
	}

	fp.CanvasWidth, fp.CanvasHeight = width, height
	if err := s.plans.UpdateFloorPlan(ctx, fp); err != nil {
		return fmt.Errorf("resize canvas: %w", err)
	}
	s.emitter.Emit(ctx, EventFloorPlansChanged, map[string]string{"floorPlanId": id})
	return nil
}

// DeleteFloorPlan removes a floor plan, its tables and its layout history.
func (s *FloorPlanService) DeleteFloorPlan(ctx context.Context, id string) error {
	if _, err := s.plans.GetFloorPlan(ctx, id); err != nil {
		return err
	}
	if s.history != nil {
		if err := s.history.ClearHistory(ctx, id); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
	}
	if err := s.tables.DeleteTablesByFloorPlan(ctx, id); err != nil {
		return fmt.Errorf("delete tables: %w", err)
	}
	if err := s.plans.DeleteFloorPlan(ctx, id); err != nil {
		return fmt.Errorf("delete floor plan: %w", err)
	}
	s.emitter.Emit(ctx, EventFloorPlansChanged, map[string]string{"floorPlanId": id})
	return nil
}

// State returns the floor plan with its tables and overlap warnings.
func (s *FloorPlanService) State(ctx context.Context, id string) (*domain.FloorPlanState, error) {
	fp, err := s.plans.GetFloorPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	tables, err := s.tables.ListTables(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	if tables == nil {
		tables = []domain.Table{}
	}
	return &domain.FloorPlanState{
		FloorPlan: *fp,
		Tables:    tables,
		Overlaps:  layout.Overlaps(tables),
	}, nil
}
