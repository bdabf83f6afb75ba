package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mocap-data/calibration.report/internal/history"
	"github.com/mocap-data/calibration.report/internal/platform"
)

var plotColors = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
}

// SavePNG writes a static trend plot of the signed mean error per platform
// across versions, for embedding where the HTML report cannot be served.
// Parent directories are created as needed.
func SavePNG(path string, h history.History) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	versions, series, err := alignSeries(h)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return fmt.Errorf("cannot plot an empty history")
	}

	p := plot.New()
	p.Title.Text = "Mean error in square size estimate"
	p.X.Label.Text = "version"
	p.Y.Label.Text = "mean error (mm)"
	p.NominalX(versions...)
	p.Legend.Top = true

	index := make(map[string]int, len(versions))
	for i, v := range versions {
		index[v] = i
	}

	for i, plat := range platform.Order {
		runs, ok := series[plat]
		if !ok {
			continue
		}
		pts := make(plotter.XYs, 0, len(runs))
		for _, r := range runs {
			pts = append(pts, plotter.XY{X: float64(index[r.Version]), Y: r.Stats.MeanError})
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("failed to build series for %s: %w", plat, err)
		}
		c := plotColors[i%len(plotColors)]
		line.Color = c
		points.Color = c
		p.Add(line, points)
		p.Legend.Add(plat.String(), line, points)
	}

	// Zero line marks a perfect reconstruction.
	zero := plotter.NewFunction(func(x float64) float64 { return 0 })
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	zero.Color = color.Gray{Y: 0x80}
	p.Add(zero)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
