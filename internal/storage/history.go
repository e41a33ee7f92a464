package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"floorplan/internal/domain"
)

// HistoryStore keeps layout snapshots in SQL, newest on top.
type HistoryStore struct {
	db *DB
}

func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// PushSnapshot stores snap on top of the floor plan's stack and prunes the
// oldest entries beyond domain.MaxSnapshots.
func (s *HistoryStore) PushSnapshot(ctx context.Context, snap *domain.LayoutSnapshot) error {
	data, err := json.Marshal(snap.Tables)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	snap.CreatedAt = time.Now().UTC()

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	d := s.db.dialect
	var seq int64
	if err := tx.QueryRowContext(ctx,
		d.rebind(`SELECT COALESCE(MAX(seq), 0) FROM layout_history WHERE floor_plan_id = ?`),
		snap.FloorPlanID,
	).Scan(&seq); err != nil {
		return fmt.Errorf("next snapshot seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		d.rebind(`INSERT INTO layout_history (id, floor_plan_id, seq, label, snapshot_json, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		snap.ID, snap.FloorPlanID, seq+1, snap.Label, string(data), snap.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	// Prune everything at or below the cut-off.
	if cut := seq + 1 - domain.MaxSnapshots; cut > 0 {
		if _, err := tx.ExecContext(ctx,
			d.rebind(`DELETE FROM layout_history WHERE floor_plan_id = ? AND seq <= ?`),
			snap.FloorPlanID, cut,
		); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
	}
	return tx.Commit()
}

// PopSnapshot removes and returns the newest snapshot.
func (s *HistoryStore) PopSnapshot(ctx context.Context, floorPlanID string) (*domain.LayoutSnapshot, error) {
	snap, err := scanSnapshot(s.db.queryRow(ctx,
		`SELECT id, floor_plan_id, label, snapshot_json, created_at FROM layout_history
		 WHERE floor_plan_id = ? ORDER BY seq DESC LIMIT 1`, floorPlanID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no layout history for %s: %w", floorPlanID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.db.exec(ctx, `DELETE FROM layout_history WHERE id = ?`, snap.ID); err != nil {
		return nil, fmt.Errorf("delete snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns the floor plan's snapshots, newest first.
func (s *HistoryStore) ListSnapshots(ctx context.Context, floorPlanID string) ([]domain.LayoutSnapshot, error) {
	rows, err := s.db.query(ctx,
		`SELECT id, floor_plan_id, label, snapshot_json, created_at FROM layout_history
		 WHERE floor_plan_id = ? ORDER BY seq DESC`, floorPlanID,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.LayoutSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, *snap)
	}
	return snaps, rows.Err()
}

// ClearHistory drops every snapshot of a floor plan.
func (s *HistoryStore) ClearHistory(ctx context.Context, floorPlanID string) error {
	_, err := s.db.exec(ctx, `DELETE FROM layout_history WHERE floor_plan_id = ?`, floorPlanID)
	return err
}

func scanSnapshot(sc scanner) (*domain.LayoutSnapshot, error) {
	var (
		snap domain.LayoutSnapshot
		data string
	)
	if err := sc.Scan(&snap.ID, &snap.FloorPlanID, &snap.Label, &data, &snap.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &snap.Tables); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	return &snap, nil
}
