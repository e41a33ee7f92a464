package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"floorplan/internal/domain"
)

// FloorPlanStore implements domain.FloorPlanStore on SQL.
type FloorPlanStore struct {
	db *DB
}

func NewFloorPlanStore(db *DB) *FloorPlanStore {
	return &FloorPlanStore{db: db}
}

func (s *FloorPlanStore) CreateFloorPlan(ctx context.Context, fp *domain.FloorPlan) error {
	now := time.Now().UTC()
	fp.CreatedAt = now
	fp.UpdatedAt = now
	_, err := s.db.exec(ctx,
		`INSERT INTO floor_plans (id, name, canvas_width, canvas_height, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		fp.ID, fp.Name, fp.CanvasWidth, fp.CanvasHeight, fp.CreatedAt, fp.UpdatedAt,
	)
	return err
}

func (s *FloorPlanStore) GetFloorPlan(ctx context.Context, id string) (*domain.FloorPlan, error) {
	fp := &domain.FloorPlan{}
	err := s.db.queryRow(ctx,
		`SELECT id, name, canvas_width, canvas_height, created_at, updated_at FROM floor_plans WHERE id = ?`, id,
	).Scan(&fp.ID, &fp.Name, &fp.CanvasWidth, &fp.CanvasHeight, &fp.CreatedAt, &fp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get floor plan %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get floor plan: %w", err)
	}
	return fp, nil
}

func (s *FloorPlanStore) ListFloorPlans(ctx context.Context) ([]domain.FloorPlan, error) {
	rows, err := s.db.query(ctx,
		`SELECT id, name, canvas_width, canvas_height, created_at, updated_at FROM floor_plans ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.FloorPlan
	for rows.Next() {
		var fp domain.FloorPlan
		if err := rows.Scan(&fp.ID, &fp.Name, &fp.CanvasWidth, &fp.CanvasHeight, &fp.CreatedAt, &fp.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, fp)
	}
	return plans, rows.Err()
}

func (s *FloorPlanStore) UpdateFloorPlan(ctx context.Context, fp *domain.FloorPlan) error {
	fp.UpdatedAt = time.Now().UTC()
	res, err := s.db.exec(ctx,
		`UPDATE floor_plans SET name = ?, canvas_width = ?, canvas_height = ?, updated_at = ? WHERE id = ?`,
		fp.Name, fp.CanvasWidth, fp.CanvasHeight, fp.UpdatedAt, fp.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "floor plan", fp.ID)
}

func (s *FloorPlanStore) DeleteFloorPlan(ctx context.Context, id string) error {
	res, err := s.db.exec(ctx, `DELETE FROM floor_plans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "floor plan", id)
}

// requireRow maps a zero-row write to domain.ErrNotFound.
func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return nil // driver can't tell; assume the row existed
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}
