package layout

import (
	"math"

	"floorplan/internal/domain"
)

// ArrangeSpacing is the gap Arrange leaves between neighbouring footprints.
const ArrangeSpacing = 30.0

// Arrange lays tables out in rows from the top-left corner of the canvas,
// wrapping when a row is full. It modifies positions in place and returns
// the slice. If the tables do not fit, it returns ErrNoSpace and leaves the
// positions untouched.
func Arrange(tables []domain.Table, canvasW, canvasH float64) ([]domain.Table, error) {
	positions := make([]domain.Position, len(tables))
	x, y := ArrangeSpacing, ArrangeSpacing
	rowHeight := 0.0

	for i, t := range tables {
		fw, fh := footprint(t.Placement())

		// Wrap to next row
		if x+fw > canvasW && x > ArrangeSpacing {
			x = ArrangeSpacing
			y += rowHeight + ArrangeSpacing
			rowHeight = 0
		}
		if x+fw > canvasW || y+fh > canvasH {
			return tables, ErrNoSpace
		}

		// Center the table inside its footprint slot.
		positions[i] = domain.Position{
			X: x + (fw-t.Width)/2,
			Y: y + (fh-t.Height)/2,
		}
		if fh > rowHeight {
			rowHeight = fh
		}
		x += fw + ArrangeSpacing
	}

	for i := range tables {
		tables[i].X = positions[i].X
		tables[i].Y = positions[i].Y
	}
	return tables, nil
}

// footprint is the space a placement occupies for collision purposes.
// Round tables collide as circles of their longer axis.
func footprint(p domain.Placement) (float64, float64) {
	if isRound(p.Shape) {
		d := math.Max(p.Width, p.Height)
		return d, d
	}
	return p.Width, p.Height
}
