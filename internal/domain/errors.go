package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrNoSpace is returned when no collision-free position exists for a new table.
	ErrNoSpace = errors.New("no space available")

	// ErrCollision is returned when a move or resize would overlap another table.
	ErrCollision = errors.New("table placement collides with another table")

	ErrOutOfBounds      = errors.New("table placement is outside the canvas")
	ErrInvalidTable     = errors.New("invalid table")
	ErrInvalidFloorPlan = errors.New("invalid floor plan")
)
