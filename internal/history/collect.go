package history

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mocap-data/calibration.report/internal/calib"
)

// RunCSVBytes renders a single-row CSV for one run, the unit the
// per-platform CI workers deposit into the collected tree.
func RunCSVBytes(run calib.Run) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeRows(&buf, History{run}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteRunCSV writes a single-row run CSV to disk, creating parent
// directories as needed.
func WriteRunCSV(path string, run calib.Run) error {
	data, err := RunCSVBytes(run)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create run CSV dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run CSV: %w", err)
	}
	return nil
}

// CollectRuns walks a directory tree of deposited per-run CSVs and returns
// every row found, in deterministic path order so intra-batch collisions
// resolve the same way on every machine. Finding no rows at all is
// ErrNoNewData: an empty collected tree means upstream collection failed.
func CollectRuns(root string) ([]calib.Run, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan collected runs in %s: %w", root, err)
	}
	sort.Strings(paths)

	var runs []calib.Run
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open collected run: %w", err)
		}
		rows, err := readRows(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		runs = append(runs, rows...)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w (searched %s)", ErrNoNewData, root)
	}
	return runs, nil
}
