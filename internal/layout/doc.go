// Package layout validates table placements on a floor-plan canvas.
//
// Everything here is a pure function of its arguments: collision tests
// between two placements, a bounded spiral search that finds free space for
// a new table, and a few helpers the editor uses to clamp and arrange tables.
// None of it touches storage, so it is safe to call from any goroutine.
package layout
