// Package grid holds triangulated board-feature positions: one 3-D point per
// frame, feature row, and feature column. Points where detection failed are
// stored as NaN and reported as invalid.
package grid

import (
	"fmt"
	"math"
)

// Point is a reconstructed feature position in millimeters.
type Point struct {
	X, Y, Z float64
}

// Valid reports whether all three coordinates are finite. Frames where
// detection failed carry NaN (or Inf) coordinates.
func (p Point) Valid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Grid is a dense (frames, rows, cols) array of Points backed by a flat
// float64 slice in C order, matching the on-disk NPY layout.
type Grid struct {
	Frames int
	Rows   int
	Cols   int

	data []float64 // len = Frames*Rows*Cols*3
}

// New allocates a Grid with every point marked invalid.
func New(frames, rows, cols int) *Grid {
	g := &Grid{
		Frames: frames,
		Rows:   rows,
		Cols:   cols,
		data:   make([]float64, frames*rows*cols*3),
	}
	for i := range g.data {
		g.data[i] = math.NaN()
	}
	return g
}

func (g *Grid) index(frame, row, col int) int {
	return ((frame*g.Rows+row)*g.Cols + col) * 3
}

// At returns the point at the given frame, row and column.
func (g *Grid) At(frame, row, col int) Point {
	i := g.index(frame, row, col)
	return Point{X: g.data[i], Y: g.data[i+1], Z: g.data[i+2]}
}

// Set stores a point at the given frame, row and column.
func (g *Grid) Set(frame, row, col int, p Point) {
	i := g.index(frame, row, col)
	g.data[i], g.data[i+1], g.data[i+2] = p.X, p.Y, p.Z
}

// Invalidate marks the point at the given position as a failed detection.
func (g *Grid) Invalidate(frame, row, col int) {
	g.Set(frame, row, col, Point{X: math.NaN(), Y: math.NaN(), Z: math.NaN()})
}

// CheckShape verifies that the grid matches the expected feature-grid
// dimensions for a board.
func (g *Grid) CheckShape(rows, cols int) error {
	if g.Rows != rows || g.Cols != cols {
		return fmt.Errorf("grid shape %dx%d does not match board feature grid %dx%d", g.Rows, g.Cols, rows, cols)
	}
	return nil
}
