package calib

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData signals that no valid adjacent-point distances could
// be computed for a run. Callers must not persist a run record in that case.
var ErrInsufficientData = errors.New("no valid neighbor distances (total detection failure)")

// Stats summarizes one run's neighbor distances against the known square
// size. All values are in millimeters. MeanError is signed: positive means
// the calibration overestimates the board scale.
type Stats struct {
	MeanDistance   float64 `json:"mean_distance"`
	MedianDistance float64 `json:"median_distance"`
	StdDistance    float64 `json:"std_distance"`
	MeanError      float64 `json:"mean_error"`
}

// ComputeStats reduces a set of neighbor distances to summary statistics.
// The standard deviation is the sample statistic (n-1 denominator); per-run
// detection counts vary, so the sample form is the safer estimator.
// Returns ErrInsufficientData when distances is empty.
func ComputeStats(distances []float64, squareSizeMM float64) (Stats, error) {
	if len(distances) == 0 {
		return Stats{}, ErrInsufficientData
	}

	mean, std := stat.MeanStdDev(distances, nil)
	if len(distances) < 2 {
		// The sample statistic is undefined for a single measurement;
		// report zero spread rather than NaN.
		std = 0
	}

	sorted := make([]float64, len(distances))
	copy(sorted, distances)
	sort.Float64s(sorted)

	return Stats{
		MeanDistance:   mean,
		MedianDistance: median(sorted),
		StdDistance:    std,
		MeanError:      mean - squareSizeMM,
	}, nil
}

// median of an already-sorted slice; averages the middle pair for even
// lengths. gonum's empirical quantile does not average, so this is computed
// directly.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
