package history

import (
	"errors"
	"fmt"

	"github.com/mocap-data/calibration.report/internal/calib"
)

// ErrNoNewData signals a merge invoked with zero new rows. An empty batch
// usually means an upstream collection failure, so the merge fails loudly
// instead of no-opping.
var ErrNoNewData = errors.New("no new calibration rows to merge")

// ErrMissingHistory signals that a persisted history was expected but not
// found.
var ErrMissingHistory = errors.New("calibration history not found")

// History is the historical dataset of calibration runs. Row order carries
// no meaning; identity is the (platform, version) key and each key appears
// at most once.
type History []calib.Run

// Lookup returns the run for the given key, if present.
func (h History) Lookup(p, version string) (calib.Run, bool) {
	for _, r := range h {
		if string(r.Platform) == p && r.Version == version {
			return r, true
		}
	}
	return calib.Run{}, false
}

// Merge folds a batch of freshly produced runs into the existing history:
//
//  1. every prior "current" row is dropped, for all platforms; a new test
//     run obsoletes the previous unreleased snapshot entirely;
//  2. the batch is appended;
//  3. rows are deduplicated by (platform, version), the latest-appended row
//     winning, so the batch supersedes surviving history rows and the last
//     row in batch order wins an intra-batch collision.
//
// Merge never mutates its inputs and is idempotent: re-merging the same
// batch yields the same history. An empty batch is ErrNoNewData.
func Merge(existing History, batch []calib.Run) (History, error) {
	if len(batch) == 0 {
		return nil, ErrNoNewData
	}
	for _, r := range batch {
		if !r.Platform.Valid() {
			return nil, fmt.Errorf("batch row %s: platform not canonical", r.Key())
		}
		if err := ValidateVersion(r.Version); err != nil {
			return nil, err
		}
	}

	combined := make([]calib.Run, 0, len(existing)+len(batch))
	for _, r := range existing {
		if r.Version == CurrentVersion {
			continue
		}
		combined = append(combined, r)
	}
	combined = append(combined, batch...)

	last := make(map[string]int, len(combined))
	for i, r := range combined {
		last[r.Key()] = i
	}

	merged := make(History, 0, len(last))
	for i, r := range combined {
		if last[r.Key()] == i {
			merged = append(merged, r)
		}
	}
	return merged, nil
}
