package layout

import (
	"errors"
	"testing"

	"floorplan/internal/domain"
)

func TestArrange_NoOverlapsInBounds(t *testing.T) {
	tables := []domain.Table{
		{ID: "1", Shape: domain.ShapeCircle, Width: 80, Height: 80},
		{ID: "2", Shape: domain.ShapeOval, Width: 180, Height: 110},
		{ID: "3", Shape: domain.ShapeRectangle, Width: 160, Height: 90},
		{ID: "4", Shape: domain.ShapeSquare, Width: 90, Height: 90},
		{ID: "5", Shape: domain.ShapeOval, Width: 180, Height: 110},
		{ID: "6", Shape: domain.ShapeCircle, Width: 80, Height: 80},
	}

	arranged, err := Arrange(tables, 600, 800)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if len(arranged) != len(tables) {
		t.Fatalf("expected %d tables, got %d", len(tables), len(arranged))
	}

	if overlaps := Overlaps(arranged); len(overlaps) != 0 {
		t.Errorf("arranged tables overlap: %v", overlaps)
	}
	for _, tb := range arranged {
		if !InBounds(tb.Placement(), 600, 800) {
			t.Errorf("table %s at (%.0f, %.0f) is out of bounds", tb.ID, tb.X, tb.Y)
		}
	}
}

func TestArrange_TooManyTables(t *testing.T) {
	var tables []domain.Table
	for i := 0; i < 20; i++ {
		tables = append(tables, domain.Table{ID: string(rune('a' + i)), Shape: domain.ShapeSquare, X: 7, Y: 7, Width: 90, Height: 90})
	}

	_, err := Arrange(tables, 300, 300)
	if !errors.Is(err, ErrNoSpace) {
		t.Fatalf("expected ErrNoSpace, got %v", err)
	}
	for _, tb := range tables {
		if tb.X != 7 || tb.Y != 7 {
			t.Fatalf("table %s moved on failure to (%.0f, %.0f)", tb.ID, tb.X, tb.Y)
		}
	}
}
