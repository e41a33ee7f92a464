package layout

import (
	"testing"

	"floorplan/internal/domain"
)

func place(shape domain.Shape, x, y, w, h float64) domain.Placement {
	return domain.Placement{Position: domain.Position{X: x, Y: y}, Width: w, Height: h, Shape: shape}
}

func TestCollides_SelfAlwaysCollides(t *testing.T) {
	for _, p := range []domain.Placement{
		place(domain.ShapeCircle, 10, 10, 80, 80),
		place(domain.ShapeOval, 0, 0, 180, 110),
		place(domain.ShapeSquare, 300, 200, 90, 90),
		place(domain.ShapeRectangle, 5, 5, 160, 90),
		place(domain.ShapeSquare, 0, 0, 0, 0),
	} {
		if !Collides(p, p) {
			t.Errorf("Collides(%+v, itself) = false, want true", p)
		}
	}
}

func TestCollides_Symmetric(t *testing.T) {
	samples := []domain.Placement{
		place(domain.ShapeCircle, 0, 0, 80, 80),
		place(domain.ShapeCircle, 82, 0, 80, 80),
		place(domain.ShapeOval, 60, 60, 180, 110),
		place(domain.ShapeSquare, 83, 0, 80, 80),
		place(domain.ShapeRectangle, 0, 83, 160, 90),
		place(domain.ShapeRectangle, 400, 400, 160, 90),
	}
	for i, a := range samples {
		for j, b := range samples {
			if Collides(a, b) != Collides(b, a) {
				t.Errorf("Collides not symmetric for samples %d and %d", i, j)
			}
		}
	}
}

func TestCollides_CircleGapBoundary(t *testing.T) {
	// Both radii are 40, so centers must be at least 40+40+MinGap = 83 apart.
	a := place(domain.ShapeCircle, 0, 0, 80, 80)

	tests := []struct {
		name string
		bx   float64
		want bool
	}{
		{"exactly r1+r2+gap", 83, false},
		{"one pixel short", 82, true},
		{"far apart", 200, false},
		{"concentric", 0, true},
	}
	for _, tt := range tests {
		b := place(domain.ShapeCircle, tt.bx, 0, 80, 80)
		if got := Collides(a, b); got != tt.want {
			t.Errorf("%s: Collides = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCollides_OvalUsesLongerAxis(t *testing.T) {
	// Oval 120×60 has bounding radius 60 centered at (60, 30); circle 40×40 has radius 20.
	oval := place(domain.ShapeOval, 0, 0, 120, 60)

	clear := place(domain.ShapeCircle, 60+83-20, 10, 40, 40)
	if Collides(oval, clear) {
		t.Error("expected no collision at exactly r1+r2+gap")
	}
	touching := place(domain.ShapeCircle, 60+82-20, 10, 40, 40)
	if !Collides(oval, touching) {
		t.Error("expected collision one pixel inside the gap")
	}
}

func TestCollides_BoxGapBoundary(t *testing.T) {
	a := place(domain.ShapeRectangle, 0, 0, 100, 50)

	tests := []struct {
		name string
		b    domain.Placement
		want bool
	}{
		{"x offset exactly gap", place(domain.ShapeRectangle, 100+MinGap, 10, 100, 50), false},
		{"x offset gap-1", place(domain.ShapeRectangle, 100+MinGap-1, 10, 100, 50), true},
		{"y offset exactly gap", place(domain.ShapeSquare, 20, 50+MinGap, 50, 50), false},
		{"y offset gap-1", place(domain.ShapeSquare, 20, 50+MinGap-1, 50, 50), true},
		{"left side exactly gap", place(domain.ShapeRectangle, -100-MinGap, 0, 100, 50), false},
		{"contained", place(domain.ShapeSquare, 10, 10, 20, 20), true},
	}
	for _, tt := range tests {
		if got := Collides(a, tt.b); got != tt.want {
			t.Errorf("%s: Collides = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCollides_MixedShapesUseBoxes(t *testing.T) {
	circle := place(domain.ShapeCircle, 0, 0, 80, 80)

	// Corners of the bounding boxes overlap although the circle does not
	// reach the square; the box test still reports a collision.
	corner := place(domain.ShapeSquare, 70, 70, 80, 80)
	if !Collides(circle, corner) {
		t.Error("expected mixed pair with overlapping boxes to collide")
	}

	beside := place(domain.ShapeSquare, 80+MinGap, 0, 80, 80)
	if Collides(circle, beside) {
		t.Error("expected mixed pair separated by gap not to collide")
	}
}

func TestCollidesAny_ExcludesSelf(t *testing.T) {
	tables := []domain.Table{
		{ID: "t1", Shape: domain.ShapeSquare, X: 100, Y: 100, Width: 80, Height: 80},
	}
	p := tables[0].Placement()

	if CollidesAny(p, "t1", tables) {
		t.Error("table should not collide with itself")
	}
	if !CollidesAny(p, "t2", tables) {
		t.Error("expected collision with t1")
	}
	if !CollidesAny(p, "", tables) {
		t.Error("empty self ID should exclude nothing")
	}
}

func TestOverlaps(t *testing.T) {
	tables := []domain.Table{
		{ID: "a", Shape: domain.ShapeSquare, X: 0, Y: 0, Width: 80, Height: 80},
		{ID: "b", Shape: domain.ShapeSquare, X: 50, Y: 0, Width: 80, Height: 80},
		{ID: "c", Shape: domain.ShapeSquare, X: 20, Y: 40, Width: 80, Height: 80},
		{ID: "d", Shape: domain.ShapeCircle, X: 500, Y: 400, Width: 80, Height: 80},
	}

	got := Overlaps(tables)

	if len(got) != 3 {
		t.Fatalf("expected 3 conflicting tables, got %d: %v", len(got), got)
	}
	if _, ok := got["d"]; ok {
		t.Errorf("isolated table d should not be flagged")
	}
	want := []string{"b", "c"}
	if len(got["a"]) != 2 || got["a"][0] != want[0] || got["a"][1] != want[1] {
		t.Errorf("overlaps[a] = %v, want %v", got["a"], want)
	}
}
