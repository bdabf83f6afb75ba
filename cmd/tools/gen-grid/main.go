// Command gen-grid generates synthetic triangulated board recordings for
// testing the diagnostic pipeline without a capture rig.
package main

import (
	"flag"
	"log"
	"math/rand"

	"github.com/mocap-data/calibration.report/internal/board"
	"github.com/mocap-data/calibration.report/internal/grid"
)

func main() {
	output := flag.String("o", "board_points.npy", "output path")
	frames := flag.Int("n", 50, "number of frames")
	width := flag.Int("w", 7, "board squares across")
	height := flag.Int("h", 5, "board squares down")
	size := flag.Float64("size", 58, "square size in mm")
	offset := flag.Float64("offset", 0, "systematic spacing error in mm")
	noise := flag.Float64("noise", 0, "gaussian jitter stddev in mm")
	dropout := flag.Float64("dropout", 0, "fraction of corners left undetected per frame")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	geom := board.Geometry{SquaresWidth: *width, SquaresHeight: *height, SquareSizeMM: *size}
	if err := geom.Validate(); err != nil {
		log.Fatalf("gen-grid: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	spacing := *size + *offset
	jitter := *noise

	g := grid.New(*frames, geom.Rows(), geom.Cols())
	for f := 0; f < *frames; f++ {
		for r := 0; r < g.Rows; r++ {
			for c := 0; c < g.Cols; c++ {
				if *dropout > 0 && rng.Float64() < *dropout {
					continue
				}
				g.Set(f, r, c, grid.Point{
					X: float64(c)*spacing + rng.NormFloat64()*jitter,
					Y: float64(r)*spacing + rng.NormFloat64()*jitter,
					Z: rng.NormFloat64() * jitter,
				})
			}
		}
		if (f+1)%10 == 0 {
			log.Printf("%d/%d frames", f+1, *frames)
		}
	}

	if err := g.SaveNPY(*output); err != nil {
		log.Fatalf("gen-grid: %v", err)
	}
	log.Printf("✓ Created: %s (%d frames, %dx%d corners, spacing %.2fmm)",
		*output, *frames, g.Rows, g.Cols, spacing)
}
