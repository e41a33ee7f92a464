package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"floorplan/internal/domain"
)

const tableColumns = `id, floor_plan_id, table_number, capacity, shape, x, y, width, height, status, created_at, updated_at`

// TableStore implements domain.TableStore on SQL.
type TableStore struct {
	db *DB
}

func NewTableStore(db *DB) *TableStore {
	return &TableStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTable(sc scanner, t *domain.Table) error {
	return sc.Scan(&t.ID, &t.FloorPlanID, &t.Number, &t.Capacity, &t.Shape, &t.X, &t.Y, &t.Width, &t.Height, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

func (s *TableStore) CreateTable(ctx context.Context, t *domain.Table) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := s.db.exec(ctx,
		`INSERT INTO dining_tables (`+tableColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.FloorPlanID, t.Number, t.Capacity, string(t.Shape), t.X, t.Y, t.Width, t.Height, string(t.Status), t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (s *TableStore) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	t := &domain.Table{}
	err := scanTable(s.db.queryRow(ctx, `SELECT `+tableColumns+` FROM dining_tables WHERE id = ?`, id), t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get table %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	return t, nil
}

func (s *TableStore) ListTables(ctx context.Context, floorPlanID string) ([]domain.Table, error) {
	rows, err := s.db.query(ctx,
		`SELECT `+tableColumns+` FROM dining_tables WHERE floor_plan_id = ? ORDER BY table_number ASC, created_at ASC`,
		floorPlanID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := scanTable(rows, &t); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *TableStore) UpdateTable(ctx context.Context, t *domain.Table) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := s.db.exec(ctx,
		`UPDATE dining_tables SET table_number = ?, capacity = ?, shape = ?, x = ?, y = ?, width = ?, height = ?, status = ?, updated_at = ? WHERE id = ?`,
		t.Number, t.Capacity, string(t.Shape), t.X, t.Y, t.Width, t.Height, string(t.Status), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "table", t.ID)
}

func (s *TableStore) DeleteTable(ctx context.Context, id string) error {
	res, err := s.db.exec(ctx, `DELETE FROM dining_tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "table", id)
}

func (s *TableStore) DeleteTablesByFloorPlan(ctx context.Context, floorPlanID string) error {
	_, err := s.db.exec(ctx, `DELETE FROM dining_tables WHERE floor_plan_id = ?`, floorPlanID)
	return err
}

// ReplaceFloorPlanTables atomically replaces all tables of a floor plan.
// Used by layout import and auto-arrange.
func (s *TableStore) ReplaceFloorPlanTables(ctx context.Context, floorPlanID string, tables []domain.Table) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	d := s.db.dialect
	if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM dining_tables WHERE floor_plan_id = ?`), floorPlanID); err != nil {
		return fmt.Errorf("delete tables: %w", err)
	}

	now := time.Now().UTC()
	for i := range tables {
		t := &tables[i]
		t.FloorPlanID = floorPlanID
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		t.UpdatedAt = now
		_, err := tx.ExecContext(ctx, d.rebind(`INSERT INTO dining_tables (`+tableColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			t.ID, floorPlanID, t.Number, t.Capacity, string(t.Shape), t.X, t.Y, t.Width, t.Height, string(t.Status), t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert table %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// ResetStatuses sets every table not already in status to status and
// returns how many rows changed.
func (s *TableStore) ResetStatuses(ctx context.Context, status domain.TableStatus) (int64, error) {
	res, err := s.db.exec(ctx,
		`UPDATE dining_tables SET status = ?, updated_at = ? WHERE status <> ?`,
		string(status), time.Now().UTC(), string(status),
	)
	if err != nil {
		return 0, fmt.Errorf("reset statuses: %w", err)
	}
	return res.RowsAffected()
}
