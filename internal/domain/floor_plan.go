package domain

import (
	"context"
	"time"
)

type FloorPlan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CanvasWidth  float64   `json:"canvasWidth"`
	CanvasHeight float64   `json:"canvasHeight"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type FloorPlanStore interface {
	CreateFloorPlan(ctx context.Context, fp *FloorPlan) error
	GetFloorPlan(ctx context.Context, id string) (*FloorPlan, error)
	ListFloorPlans(ctx context.Context) ([]FloorPlan, error)
	UpdateFloorPlan(ctx context.Context, fp *FloorPlan) error
	DeleteFloorPlan(ctx context.Context, id string) error
}
