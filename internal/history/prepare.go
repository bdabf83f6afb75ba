package history

import (
	"sort"

	"github.com/mocap-data/calibration.report/internal/calib"
	"github.com/mocap-data/calibration.report/internal/platform"
)

// TimeSeries returns the runs for one platform ordered by version, oldest
// first, with "current" last. The history itself is never mutated.
func TimeSeries(h History, p platform.Platform) ([]calib.Run, error) {
	var series []calib.Run
	for _, r := range h {
		if r.Platform != p {
			continue
		}
		if err := ValidateVersion(r.Version); err != nil {
			return nil, err
		}
		series = append(series, r)
	}
	sort.SliceStable(series, func(i, j int) bool {
		return versionLess(series[i].Version, series[j].Version)
	})
	return series, nil
}

// LatestPerPlatform returns, for each platform present in the history, the
// run with the maximal version. A "current" row, if present for a
// platform, is always selected.
func LatestPerPlatform(h History) (map[platform.Platform]calib.Run, error) {
	latest := make(map[platform.Platform]calib.Run)
	for _, r := range h {
		if err := ValidateVersion(r.Version); err != nil {
			return nil, err
		}
		best, ok := latest[r.Platform]
		if !ok || versionLess(best.Version, r.Version) {
			latest[r.Platform] = r
		}
	}
	return latest, nil
}
