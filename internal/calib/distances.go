// Package calib derives geometric-accuracy measurements from triangulated
// board points: per-frame neighbor distances, their summary statistics
// against the known square size, and the per-run record built from them.
package calib

import (
	"github.com/mocap-data/calibration.report/internal/board"
	"github.com/mocap-data/calibration.report/internal/grid"
)

// NeighborDistances computes the Euclidean distance between every pair of
// grid-adjacent feature points in every frame: horizontal neighbors (same
// row, adjacent columns) and vertical neighbors (same column, adjacent
// rows). Diagonal pairs are never measured. A pair is skipped when either
// endpoint is an invalid detection, so the result may be empty when
// detection failed for the whole run.
func NeighborDistances(g *grid.Grid, geom board.Geometry) ([]float64, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if err := g.CheckShape(geom.Rows(), geom.Cols()); err != nil {
		return nil, err
	}

	distances := make([]float64, 0, g.Frames*geom.MaxPairsPerFrame())
	for f := 0; f < g.Frames; f++ {
		for r := 0; r < g.Rows; r++ {
			for c := 0; c < g.Cols; c++ {
				p := g.At(f, r, c)
				if !p.Valid() {
					continue
				}
				if c+1 < g.Cols {
					if q := g.At(f, r, c+1); q.Valid() {
						distances = append(distances, p.DistanceTo(q))
					}
				}
				if r+1 < g.Rows {
					if q := g.At(f, r+1, c); q.Valid() {
						distances = append(distances, p.DistanceTo(q))
					}
				}
			}
		}
	}
	return distances, nil
}
