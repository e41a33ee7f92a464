package layout

import (
	"math"

	"floorplan/internal/domain"
)

// MinGap is the minimum clearance between two table edges, in pixels at 1:1 scale.
const MinGap = 3.0

// Collides reports whether two placements overlap once MinGap clearance is
// applied. Two round tables are compared as bounding circles; any pair
// involving a square or rectangle uses axis-aligned bounding boxes.
func Collides(a, b domain.Placement) bool {
	if isRound(a.Shape) && isRound(b.Shape) {
		return circlesCollide(a, b)
	}
	return boxesCollide(a, b)
}

func circlesCollide(a, b domain.Placement) bool {
	ax, ay := center(a)
	bx, by := center(b)
	dist := math.Hypot(ax-bx, ay-by)
	return dist < radius(a)+radius(b)+MinGap
}

func boxesCollide(a, b domain.Placement) bool {
	separatedX := a.X+a.Width+MinGap <= b.X || b.X+b.Width+MinGap <= a.X
	separatedY := a.Y+a.Height+MinGap <= b.Y || b.Y+b.Height+MinGap <= a.Y
	return !separatedX && !separatedY
}

func center(p domain.Placement) (float64, float64) {
	return p.X + p.Width/2, p.Y + p.Height/2
}

// radius of the bounding circle; ovals use their longer axis.
func radius(p domain.Placement) float64 {
	return math.Max(p.Width, p.Height) / 2
}

// CollidesAny reports whether p collides with any table in tables other
// than the one identified by selfID. An empty selfID excludes nothing.
func CollidesAny(p domain.Placement, selfID string, tables []domain.Table) bool {
	for _, t := range tables {
		if selfID != "" && t.ID == selfID {
			continue
		}
		if Collides(p, t.Placement()) {
			return true
		}
	}
	return false
}
