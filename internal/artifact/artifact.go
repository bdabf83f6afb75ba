// Package artifact writes the per-run traceability folder: the board
// description, a copy of the calibration parameters, the triangulated
// grid, and the one-row stats CSV, laid out as <root>/<OS>/<version>/. This is a side channel; a
// failed artifact write never invalidates the in-memory run record, so
// callers log the error and carry on.
package artifact

import (
	"fmt"
	"path/filepath"

	"github.com/mocap-data/calibration.report/internal/board"
	"github.com/mocap-data/calibration.report/internal/calib"
	"github.com/mocap-data/calibration.report/internal/fsutil"
	"github.com/mocap-data/calibration.report/internal/history"
)

// Writer persists per-run artifacts under Root.
type Writer struct {
	FS   fsutil.FileSystem
	Root string
}

// NewWriter creates a Writer over the real filesystem.
func NewWriter(root string) *Writer {
	return &Writer{FS: fsutil.OS{}, Root: root}
}

// Sources names the input files to copy alongside the run statistics.
// Either path may be empty, in which case that copy is skipped.
type Sources struct {
	CalibrationPath string // calibration parameter file (TOML)
	GridPath        string // triangulated points (NPY)
}

// RunDir returns the artifact directory for a run.
func (w *Writer) RunDir(run calib.Run) string {
	return filepath.Join(w.Root, string(run.Platform), run.Version)
}

// Write lays out the artifact folder for one run and returns its path.
func (w *Writer) Write(run calib.Run, geom board.Geometry, src Sources) (string, error) {
	dir := w.RunDir(run)
	if err := w.FS.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact dir: %w", err)
	}

	info, err := board.MarshalGeometry(geom)
	if err != nil {
		return "", err
	}
	if err := w.FS.WriteFile(filepath.Join(dir, "board_info.json"), info, 0644); err != nil {
		return "", fmt.Errorf("failed to write board_info.json: %w", err)
	}

	if src.CalibrationPath != "" {
		if err := w.copyFile(src.CalibrationPath, filepath.Join(dir, "calibration.toml")); err != nil {
			return "", err
		}
	}
	if src.GridPath != "" {
		if err := w.copyFile(src.GridPath, filepath.Join(dir, "board_points.npy")); err != nil {
			return "", err
		}
	}

	data, err := history.RunCSVBytes(run)
	if err != nil {
		return "", err
	}
	if err := w.FS.WriteFile(filepath.Join(dir, "stats.csv"), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write stats.csv: %w", err)
	}
	return dir, nil
}

func (w *Writer) copyFile(src, dst string) error {
	data, err := w.FS.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := w.FS.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}
	return nil
}
