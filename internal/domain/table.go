package domain

import (
	"context"
	"time"
)

type Shape string

const (
	ShapeCircle    Shape = "circle"
	ShapeSquare    Shape = "square"
	ShapeRectangle Shape = "rectangle"
	ShapeOval      Shape = "oval"
)

// Valid reports whether s is one of the known table shapes.
func (s Shape) Valid() bool {
	switch s {
	case ShapeCircle, ShapeSquare, ShapeRectangle, ShapeOval:
		return true
	}
	return false
}

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved:
		return true
	}
	return false
}

// Position is a point in canvas pixel coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placement is a table's position, size and shape at a point in time.
// Position is the top-left corner of the bounding box.
type Placement struct {
	Position
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Shape  Shape   `json:"shape"`
}

type Table struct {
	ID          string      `json:"id"`
	FloorPlanID string      `json:"floorPlanId"`
	Number      int         `json:"number"`
	Capacity    int         `json:"capacity"`
	Shape       Shape       `json:"shape"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width"`
	Height      float64     `json:"height"`
	Status      TableStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Placement returns the geometric part of the table.
func (t Table) Placement() Placement {
	return Placement{
		Position: Position{X: t.X, Y: t.Y},
		Width:    t.Width,
		Height:   t.Height,
		Shape:    t.Shape,
	}
}

// TableTemplate describes a catalog entry used when adding a new table.
type TableTemplate struct {
	Name          string  `json:"name" toml:"name"`
	Capacity      int     `json:"capacity" toml:"capacity"`
	Shape         Shape   `json:"shape" toml:"shape"`
	DefaultWidth  float64 `json:"defaultWidth" toml:"default_width"`
	DefaultHeight float64 `json:"defaultHeight" toml:"default_height"`
}

// Placement returns the template's default footprint at the origin.
func (t TableTemplate) Placement() Placement {
	return Placement{Width: t.DefaultWidth, Height: t.DefaultHeight, Shape: t.Shape}
}

type TableStore interface {
	CreateTable(ctx context.Context, t *Table) error
	GetTable(ctx context.Context, id string) (*Table, error)
	ListTables(ctx context.Context, floorPlanID string) ([]Table, error)
	UpdateTable(ctx context.Context, t *Table) error
	DeleteTable(ctx context.Context, id string) error
	DeleteTablesByFloorPlan(ctx context.Context, floorPlanID string) error
	ReplaceFloorPlanTables(ctx context.Context, floorPlanID string, tables []Table) error
	ResetStatuses(ctx context.Context, status TableStatus) (int64, error)
}
