package domain

import (
	"context"
	"time"
)

// MaxSnapshots is how many layout snapshots are kept per floor plan.
const MaxSnapshots = 40

// LayoutSnapshot is the table layout of a floor plan just before an edit,
// kept so the edit can be undone.
type LayoutSnapshot struct {
	ID          string    `json:"id"`
	FloorPlanID string    `json:"floorPlanId"`
	Label       string    `json:"label"`
	Tables      []Table   `json:"tables"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LayoutHistory is a per-floor-plan stack of snapshots. PopSnapshot returns
// ErrNotFound when there is nothing to undo.
type LayoutHistory interface {
	PushSnapshot(ctx context.Context, snap *LayoutSnapshot) error
	PopSnapshot(ctx context.Context, floorPlanID string) (*LayoutSnapshot, error)
	ListSnapshots(ctx context.Context, floorPlanID string) ([]LayoutSnapshot, error)
	ClearHistory(ctx context.Context, floorPlanID string) error
}
