package calib

import (
	"github.com/mocap-data/calibration.report/internal/board"
	"github.com/mocap-data/calibration.report/internal/grid"
	"github.com/mocap-data/calibration.report/internal/platform"
)

// Run is one persisted diagnostic row: the statistics for a single
// (platform, version) calibration-test execution. The (Platform, Version)
// pair is the row's identity in the history; a later run with the same key
// supersedes the earlier one.
type Run struct {
	Platform platform.Platform
	Version  string
	Stats    Stats
}

// Key returns the (platform, version) identity of the run.
func (r Run) Key() string {
	return string(r.Platform) + "/" + r.Version
}

// BuildRun derives neighbor distances from the triangulated grid, reduces
// them to statistics, and assembles the run row for the given identity.
// Returns ErrInsufficientData when the grid yields no valid distances.
func BuildRun(g *grid.Grid, geom board.Geometry, p platform.Platform, version string) (Run, error) {
	distances, err := NeighborDistances(g, geom)
	if err != nil {
		return Run{}, err
	}
	stats, err := ComputeStats(distances, geom.SquareSizeMM)
	if err != nil {
		return Run{}, err
	}
	return Run{Platform: p, Version: version, Stats: stats}, nil
}
