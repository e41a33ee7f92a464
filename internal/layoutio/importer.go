package layoutio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"floorplan/internal/domain"
	"floorplan/internal/service"
)

// Importer moves layouts between files and the floor plan services.
type Importer struct {
	plans  *service.FloorPlanService
	tables *service.TableService
}

func NewImporter(plans *service.FloorPlanService, tables *service.TableService) *Importer {
	return &Importer{plans: plans, tables: tables}
}

// Import applies doc to the floor plan floorPlanID, replacing its tables and
// canvas size. An empty floorPlanID creates a new floor plan named after
// the document.
func (im *Importer) Import(ctx context.Context, doc *Document, floorPlanID string) (*domain.FloorPlan, error) {
	var (
		fp      *domain.FloorPlan
		err     error
		created bool
	)
	if floorPlanID == "" {
		fp, err = im.plans.CreateFloorPlan(ctx, doc.Name, doc.CanvasWidth, doc.CanvasHeight)
		created = true
	} else {
		fp, err = im.plans.GetFloorPlan(ctx, floorPlanID)
	}
	if err != nil {
		return nil, err
	}

	if err := im.tables.ReplaceLayout(ctx, fp.ID, doc.CanvasWidth, doc.CanvasHeight, doc.DomainTables()); err != nil {
		if created {
			_ = im.plans.DeleteFloorPlan(ctx, fp.ID)
		}
		return nil, fmt.Errorf("import %s: %w", doc.Name, err)
	}
	return im.plans.GetFloorPlan(ctx, fp.ID)
}

// ImportFile decodes the layout at path and imports it.
func (im *Importer) ImportFile(ctx context.Context, path, floorPlanID string) (*domain.FloorPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return im.Import(ctx, doc, floorPlanID)
}

// Export returns the current layout of a floor plan.
func (im *Importer) Export(ctx context.Context, floorPlanID string) (Document, error) {
	state, err := im.plans.State(ctx, floorPlanID)
	if err != nil {
		return Document{}, err
	}
	return Export(state.FloorPlan, state.Tables), nil
}

// ExportFile writes the layout of a floor plan to path, replacing the file
// atomically.
func (im *Importer) ExportFile(ctx context.Context, floorPlanID, path string) error {
	doc, err := im.Export(ctx, floorPlanID)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".layout-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, doc); err != nil {
		tmp.Close()
		return fmt.Errorf("write layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close layout: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
