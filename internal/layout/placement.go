package layout

import (
	"math"

	"floorplan/internal/domain"
)

const (
	// MaxAttempts bounds the spiral search.
	MaxAttempts = 50

	SpiralBaseRadius = 50.0
	SpiralRadiusStep = 15.0
	SpiralAngleStep  = 0.5 * math.Pi
)

// ErrNoSpace is returned by FindPlacement when every candidate collides.
var ErrNoSpace = domain.ErrNoSpace

// Result is the outcome of a placement search. Attempts is the index of the
// winning candidate (0 for the centered one) or MaxAttempts on failure.
type Result struct {
	Position domain.Position
	Attempts int
	OK       bool
}

// FindPlacement returns a collision-free top-left position for t on a
// canvas of the given size. t's current position is ignored; its ID is used
// to skip itself in existing.
func FindPlacement(t domain.Table, existing []domain.Table, canvasW, canvasH float64) (domain.Position, error) {
	res := Search(t, existing, canvasW, canvasH)
	if !res.OK {
		return domain.Position{}, ErrNoSpace
	}
	return res.Position, nil
}

// Search starts at the canvas center and spirals outward, probing at most
// MaxAttempts candidates after the initial one.
func Search(t domain.Table, existing []domain.Table, canvasW, canvasH float64) Result {
	p := t.Placement()

	p.Position = Clamp(centered(p, canvasW, canvasH), canvasW, canvasH)
	if !CollidesAny(p, t.ID, existing) {
		return Result{Position: p.Position, Attempts: 0, OK: true}
	}

	for k := 1; k <= MaxAttempts; k++ {
		p.Position = Clamp(spiralCandidate(k, p, canvasW, canvasH), canvasW, canvasH)
		if !CollidesAny(p, t.ID, existing) {
			return Result{Position: p.Position, Attempts: k, OK: true}
		}
	}
	return Result{Attempts: MaxAttempts}
}

func centered(p domain.Placement, canvasW, canvasH float64) domain.Placement {
	p.X = (canvasW - p.Width) / 2
	p.Y = (canvasH - p.Height) / 2
	return p
}

// spiralCandidate places p's center on the k-th point of the spiral around
// the canvas center.
func spiralCandidate(k int, p domain.Placement, canvasW, canvasH float64) domain.Placement {
	angle := float64(k) * SpiralAngleStep
	r := SpiralBaseRadius + SpiralRadiusStep*float64(k)
	p.X = canvasW/2 + r*math.Cos(angle) - p.Width/2
	p.Y = canvasH/2 + r*math.Sin(angle) - p.Height/2
	return p
}

// Clamp moves p's top-left corner so its bounding box lies inside
// [0, canvasW] × [0, canvasH]. A table larger than the canvas is pinned to 0.
func Clamp(p domain.Placement, canvasW, canvasH float64) domain.Position {
	return domain.Position{
		X: clamp(p.X, 0, canvasW-p.Width),
		Y: clamp(p.Y, 0, canvasH-p.Height),
	}
}

// InBounds reports whether p's bounding box lies inside the canvas.
func InBounds(p domain.Placement, canvasW, canvasH float64) bool {
	return p.X >= 0 && p.Y >= 0 && p.X+p.Width <= canvasW && p.Y+p.Height <= canvasH
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(v, hi))
}
