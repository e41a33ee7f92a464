package layout

import "floorplan/internal/domain"

// isRound selects the collision test for a shape. Unknown shapes are
// treated as boxes.
func isRound(s domain.Shape) bool {
	switch s {
	case domain.ShapeCircle, domain.ShapeOval:
		return true
	default:
		return false
	}
}
