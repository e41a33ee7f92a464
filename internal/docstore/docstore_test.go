package docstore

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"floorplan/internal/domain"
)

// These tests cover the document mapping only; they don't need a server.

func TestTableDoc_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	in := domain.Table{
		ID: "t1", FloorPlanID: "p1", Number: 12, Capacity: 6,
		Shape: domain.ShapeRectangle, X: 120, Y: 40, Width: 160, Height: 90,
		Status: domain.TableStatusReserved, CreatedAt: ts, UpdatedAt: ts,
	}

	raw, err := bson.Marshal(toTableDoc(&in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc tableDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out := doc.toDomain()

	if out.ID != in.ID || out.Shape != in.Shape || out.Status != in.Status || out.Number != in.Number {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
	if !out.CreatedAt.Equal(ts) {
		t.Errorf("created at = %v, want %v", out.CreatedAt, ts)
	}
}

func TestTableDoc_FieldNames(t *testing.T) {
	raw, err := bson.Marshal(toTableDoc(&domain.Table{ID: "t1", FloorPlanID: "p1"}))
	if err != nil {
		t.Fatal(err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if m["_id"] != "t1" {
		t.Errorf("expected _id to carry the table ID, got %v", m["_id"])
	}
	if m["floorPlanId"] != "p1" {
		t.Errorf("expected floorPlanId field, got %v", m["floorPlanId"])
	}
}

func TestFloorPlanDoc_Mapping(t *testing.T) {
	fp := &domain.FloorPlan{ID: "p1", Name: "Patio", CanvasWidth: 1024, CanvasHeight: 768}
	got := toFloorPlanDoc(fp).toDomain()
	if got.ID != fp.ID || got.Name != fp.Name || got.CanvasWidth != 1024 || got.CanvasHeight != 768 {
		t.Errorf("unexpected mapping %+v", got)
	}
}

func TestSnapshotDoc_ToDomain(t *testing.T) {
	doc := snapshotDoc{
		ID: "s1", FloorPlanID: "p1", Seq: 3, Label: "move table 4",
		Tables: []tableDoc{toTableDoc(&domain.Table{ID: "t4", Number: 4, Shape: domain.ShapeOval})},
	}
	snap := doc.toDomain()
	if snap.Label != "move table 4" || len(snap.Tables) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Tables[0].Shape != domain.ShapeOval {
		t.Errorf("expected oval, got %s", snap.Tables[0].Shape)
	}

	empty := snapshotDoc{ID: "s0"}.toDomain()
	if empty.Tables == nil {
		t.Error("expected empty non-nil table list")
	}
}
