// Package board describes the physical calibration target: a checkerboard
// with a known number of squares and a known square edge length.
package board

import (
	"encoding/json"
	"fmt"
	"os"
)

// Geometry is the immutable description of the reference board. The
// reconstructed feature grid has one more row and column than the board has
// squares (features sit on square corners).
type Geometry struct {
	SquaresWidth  int     `json:"num_squares_width"`
	SquaresHeight int     `json:"num_squares_height"`
	SquareSizeMM  float64 `json:"square_size_mm"`
}

// Rows returns the number of feature rows in the reconstructed grid.
func (g Geometry) Rows() int { return g.SquaresHeight + 1 }

// Cols returns the number of feature columns in the reconstructed grid.
func (g Geometry) Cols() int { return g.SquaresWidth + 1 }

// MaxPairsPerFrame returns the number of grid-adjacent feature pairs in a
// fully detected frame: horizontal pairs plus vertical pairs.
func (g Geometry) MaxPairsPerFrame() int {
	w, h := g.Cols(), g.Rows()
	return w*(h-1) + h*(w-1)
}

// Validate checks the geometry invariants: at least one adjacent feature
// pair in each direction and a positive square size.
func (g Geometry) Validate() error {
	if g.SquaresWidth < 2 || g.SquaresHeight < 2 {
		return fmt.Errorf("board must be at least 2x2 squares, got %dx%d", g.SquaresWidth, g.SquaresHeight)
	}
	if g.SquareSizeMM <= 0 {
		return fmt.Errorf("square size must be positive, got %gmm", g.SquareSizeMM)
	}
	return nil
}

// LoadGeometry reads a board-info JSON file written alongside the
// triangulated data.
func LoadGeometry(path string) (Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to read board info: %w", err)
	}
	var g Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return Geometry{}, fmt.Errorf("failed to parse board info %s: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return Geometry{}, fmt.Errorf("invalid board info %s: %w", path, err)
	}
	return g, nil
}

// MarshalGeometry renders the board-info JSON document.
func MarshalGeometry(g Geometry) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(g, "", "    ")
}

// SaveGeometry writes the board-info JSON file.
func SaveGeometry(path string, g Geometry) error {
	data, err := MarshalGeometry(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
