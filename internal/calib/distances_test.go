package calib

import (
	"math"
	"testing"

	"github.com/mocap-data/calibration.report/internal/board"
	"github.com/mocap-data/calibration.report/internal/grid"
)

var testBoard = board.Geometry{SquaresWidth: 7, SquaresHeight: 5, SquareSizeMM: 58}

// idealGrid builds a grid where every feature sits exactly on a flat board
// with the given spacing, so every neighbor distance equals the spacing.
func idealGrid(frames int, geom board.Geometry, spacingMM float64) *grid.Grid {
	g := grid.New(frames, geom.Rows(), geom.Cols())
	for f := 0; f < frames; f++ {
		fillFrame(g, f, spacingMM)
	}
	return g
}

func fillFrame(g *grid.Grid, frame int, spacingMM float64) {
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			g.Set(frame, r, c, grid.Point{X: float64(c) * spacingMM, Y: float64(r) * spacingMM, Z: 0})
		}
	}
}

func TestNeighborDistancesPairCount(t *testing.T) {
	// w*(h-1) + h*(w-1) pairs per fully detected frame, for the feature
	// grid of w columns and h rows.
	tests := []struct {
		name   string
		geom   board.Geometry
		frames int
		want   int
	}{
		{"7x5 board single frame", testBoard, 1, 82},
		{"7x5 board ten frames", testBoard, 10, 820},
		{"2x2 board", board.Geometry{SquaresWidth: 2, SquaresHeight: 2, SquareSizeMM: 10}, 1, 12},
		{"3x2 board", board.Geometry{SquaresWidth: 3, SquaresHeight: 2, SquareSizeMM: 10}, 1, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := idealGrid(tt.frames, tt.geom, tt.geom.SquareSizeMM)
			distances, err := NeighborDistances(g, tt.geom)
			if err != nil {
				t.Fatalf("NeighborDistances failed: %v", err)
			}
			if len(distances) != tt.want {
				t.Errorf("pair count = %d, want %d", len(distances), tt.want)
			}
			if tt.want != tt.frames*tt.geom.MaxPairsPerFrame() {
				t.Errorf("test expectation %d disagrees with MaxPairsPerFrame %d", tt.want, tt.geom.MaxPairsPerFrame())
			}
			for i, d := range distances {
				if math.Abs(d-tt.geom.SquareSizeMM) > 1e-9 {
					t.Fatalf("distance[%d] = %f, want %f", i, d, tt.geom.SquareSizeMM)
				}
			}
		})
	}
}

func TestNeighborDistancesSkipsMissingPoints(t *testing.T) {
	g := idealGrid(1, testBoard, 58)

	// A corner feature has exactly two grid neighbors, so dropping it
	// removes exactly two pairs.
	g.Invalidate(0, 0, 0)
	distances, err := NeighborDistances(g, testBoard)
	if err != nil {
		t.Fatalf("NeighborDistances failed: %v", err)
	}
	if want := testBoard.MaxPairsPerFrame() - 2; len(distances) != want {
		t.Errorf("pair count with missing corner = %d, want %d", len(distances), want)
	}

	// An interior feature has four neighbors.
	g2 := idealGrid(1, testBoard, 58)
	g2.Invalidate(0, 2, 3)
	distances, err = NeighborDistances(g2, testBoard)
	if err != nil {
		t.Fatalf("NeighborDistances failed: %v", err)
	}
	if want := testBoard.MaxPairsPerFrame() - 4; len(distances) != want {
		t.Errorf("pair count with missing interior point = %d, want %d", len(distances), want)
	}
}

func TestNeighborDistancesNoDiagonals(t *testing.T) {
	// A 2x2 feature patch with one diagonal pair valid only: no distance
	// may be produced from the diagonal.
	geom := board.Geometry{SquaresWidth: 2, SquaresHeight: 2, SquareSizeMM: 10}
	g := grid.New(1, geom.Rows(), geom.Cols())
	g.Set(0, 0, 0, grid.Point{X: 0, Y: 0, Z: 0})
	g.Set(0, 1, 1, grid.Point{X: 10, Y: 10, Z: 0})

	distances, err := NeighborDistances(g, geom)
	if err != nil {
		t.Fatalf("NeighborDistances failed: %v", err)
	}
	if len(distances) != 0 {
		t.Errorf("got %d distances from diagonal-only points, want 0", len(distances))
	}
}

func TestNeighborDistancesEmptyGrid(t *testing.T) {
	g := grid.New(5, testBoard.Rows(), testBoard.Cols())
	distances, err := NeighborDistances(g, testBoard)
	if err != nil {
		t.Fatalf("NeighborDistances failed: %v", err)
	}
	if len(distances) != 0 {
		t.Errorf("all-invalid grid produced %d distances", len(distances))
	}
}

func TestNeighborDistancesShapeMismatch(t *testing.T) {
	g := grid.New(1, 3, 3)
	if _, err := NeighborDistances(g, testBoard); err == nil {
		t.Error("expected error for grid/board shape mismatch")
	}
}
