package layout

import (
	"errors"
	"math"
	"testing"

	"floorplan/internal/domain"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func newCircle(id string, x, y float64) domain.Table {
	return domain.Table{ID: id, Capacity: 2, Shape: domain.ShapeCircle, X: x, Y: y, Width: 80, Height: 80}
}

func TestSearch_EmptyCanvasIsCentered(t *testing.T) {
	res := Search(newCircle("new", 0, 0), nil, 800, 600)

	if !res.OK {
		t.Fatal("expected placement on empty canvas")
	}
	if res.Attempts != 0 {
		t.Errorf("expected first attempt, got %d", res.Attempts)
	}
	if !approx(res.Position.X, 360) || !approx(res.Position.Y, 260) {
		t.Errorf("expected (360, 260), got (%.2f, %.2f)", res.Position.X, res.Position.Y)
	}
}

func TestSearch_IgnoresTemplatePosition(t *testing.T) {
	res := Search(newCircle("new", 5, 5), nil, 800, 600)
	if !approx(res.Position.X, 360) || !approx(res.Position.Y, 260) {
		t.Errorf("expected centered position, got (%.2f, %.2f)", res.Position.X, res.Position.Y)
	}
}

func TestSearch_CenterOccupiedSpiralsOut(t *testing.T) {
	existing := []domain.Table{newCircle("t1", 360, 260)}
	tmpl := newCircle("new", 0, 0)
	p := tmpl.Placement()

	// Attempt 0 is the centered candidate and collides.
	first := Clamp(centered(p, 800, 600), 800, 600)
	p.Position = first
	if !CollidesAny(p, tmpl.ID, existing) {
		t.Fatal("expected centered candidate to collide")
	}

	// Attempt 1: angle 0.5π, radius 65 from the canvas center.
	probe := Clamp(spiralCandidate(1, p, 800, 600), 800, 600)
	if !approx(probe.X, 360) || !approx(probe.Y, 325) {
		t.Errorf("attempt 1 probe = (%.2f, %.2f), want (360, 325)", probe.X, probe.Y)
	}

	res := Search(tmpl, existing, 800, 600)
	if !res.OK {
		t.Fatal("expected a free position")
	}
	// Probes 1 (r=65) and 2 (r=80) are still inside 40+40+3; probe 3 (r=95) is clear.
	if res.Attempts != 3 {
		t.Errorf("expected success on attempt 3, got %d", res.Attempts)
	}
	if !approx(res.Position.X, 360) || !approx(res.Position.Y, 165) {
		t.Errorf("expected (360, 165), got (%.2f, %.2f)", res.Position.X, res.Position.Y)
	}

	placed := tmpl
	placed.X, placed.Y = res.Position.X, res.Position.Y
	if Collides(placed.Placement(), existing[0].Placement()) {
		t.Error("returned position collides with existing table")
	}
}

func TestSearch_PackedCanvasFailsAfterMaxAttempts(t *testing.T) {
	existing := []domain.Table{
		{ID: "wall", Shape: domain.ShapeRectangle, X: 0, Y: 0, Width: 800, Height: 600},
	}
	tmpl := domain.Table{ID: "new", Shape: domain.ShapeSquare, Width: 90, Height: 90}

	res := Search(tmpl, existing, 800, 600)
	if res.OK {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.Attempts != MaxAttempts {
		t.Errorf("expected exactly %d attempts, got %d", MaxAttempts, res.Attempts)
	}

	_, err := FindPlacement(tmpl, existing, 800, 600)
	if !errors.Is(err, ErrNoSpace) {
		t.Errorf("expected ErrNoSpace, got %v", err)
	}
	if !errors.Is(err, domain.ErrNoSpace) {
		t.Errorf("expected error to match domain.ErrNoSpace")
	}
}

func TestSearch_SelfExcludedByID(t *testing.T) {
	existing := []domain.Table{newCircle("t1", 360, 260)}

	res := Search(newCircle("t1", 0, 0), existing, 800, 600)
	if !res.OK || res.Attempts != 0 {
		t.Errorf("expected the table's own entry to be ignored, got %+v", res)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	existing := []domain.Table{
		newCircle("t1", 360, 260),
		newCircle("t2", 360, 165),
		{ID: "t3", Shape: domain.ShapeRectangle, X: 200, Y: 200, Width: 160, Height: 90},
	}
	tmpl := domain.Table{ID: "new", Shape: domain.ShapeSquare, Width: 90, Height: 90}

	first := Search(tmpl, existing, 800, 600)
	for i := 0; i < 10; i++ {
		if got := Search(tmpl, existing, 800, 600); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestSearch_ResultStaysInsideCanvas(t *testing.T) {
	// A small canvas forces spiral probes past the edges, so clamping kicks in.
	existing := []domain.Table{
		{ID: "t1", Shape: domain.ShapeSquare, X: 110, Y: 60, Width: 80, Height: 80},
	}
	tmpl := domain.Table{ID: "new", Shape: domain.ShapeSquare, Width: 80, Height: 80}

	res := Search(tmpl, existing, 300, 200)
	if !res.OK {
		t.Fatal("expected a free position")
	}
	p := tmpl.Placement()
	p.Position = res.Position
	if !InBounds(p, 300, 200) {
		t.Errorf("position (%.2f, %.2f) is outside the canvas", p.X, p.Y)
	}
	if CollidesAny(p, tmpl.ID, existing) {
		t.Errorf("position (%.2f, %.2f) collides", p.X, p.Y)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name         string
		p            domain.Placement
		wantX, wantY float64
	}{
		{"inside", place(domain.ShapeSquare, 10, 20, 80, 80), 10, 20},
		{"negative", place(domain.ShapeSquare, -15, -1, 80, 80), 0, 0},
		{"past right and bottom", place(domain.ShapeSquare, 790, 590, 80, 80), 720, 520},
		{"larger than canvas", place(domain.ShapeRectangle, 50, 50, 900, 700), 0, 0},
	}
	for _, tt := range tests {
		got := Clamp(tt.p, 800, 600)
		if got.X != tt.wantX || got.Y != tt.wantY {
			t.Errorf("%s: Clamp = (%.0f, %.0f), want (%.0f, %.0f)", tt.name, got.X, got.Y, tt.wantX, tt.wantY)
		}
	}
}

func TestInBounds(t *testing.T) {
	if !InBounds(place(domain.ShapeSquare, 0, 0, 800, 600), 800, 600) {
		t.Error("table filling the canvas should be in bounds")
	}
	if InBounds(place(domain.ShapeSquare, 721, 0, 80, 80), 800, 600) {
		t.Error("table past the right edge should be out of bounds")
	}
	if InBounds(place(domain.ShapeSquare, 0, -1, 80, 80), 800, 600) {
		t.Error("negative coordinates should be out of bounds")
	}
}
