// Package report renders the merged calibration history for humans: an
// HTML page of version trend charts, a PNG trend plot, and a terminal
// summary table. It consumes only the prepared views from the history
// package and never mutates the dataset.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mocap-data/calibration.report/internal/calib"
	"github.com/mocap-data/calibration.report/internal/history"
	"github.com/mocap-data/calibration.report/internal/platform"
)

// WriteHTML renders the full regression report page: mean square-size
// estimate per platform across versions (with the expected size as a
// reference series) and the signed mean error per platform.
func WriteHTML(w io.Writer, h history.History, expectedMM float64) error {
	versions, series, err := alignSeries(h)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.PageTitle = "Calibration Diagnostics"
	page.AddCharts(
		meanDistanceChart(versions, series, expectedMM),
		meanErrorChart(versions, series),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// SaveHTML writes the report page to a file, creating parent directories
// as needed.
func SaveHTML(path string, h history.History, expectedMM float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := WriteHTML(f, h, expectedMM); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// alignSeries sorts the distinct versions in the history and returns, per
// platform, the runs indexed into that shared axis.
func alignSeries(h history.History) ([]string, map[platform.Platform][]calib.Run, error) {
	seen := map[string]bool{}
	for _, r := range h {
		if err := history.ValidateVersion(r.Version); err != nil {
			return nil, nil, err
		}
		seen[r.Version] = true
	}
	versions := make([]string, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		c, _ := history.CompareVersions(versions[i], versions[j])
		return c < 0
	})

	series := make(map[platform.Platform][]calib.Run)
	for _, p := range platform.Order {
		s, err := history.TimeSeries(h, p)
		if err != nil {
			return nil, nil, err
		}
		if len(s) > 0 {
			series[p] = s
		}
	}
	return versions, series, nil
}

func lineData(versions []string, series []calib.Run, value func(calib.Stats) float64) []opts.LineData {
	byVersion := make(map[string]calib.Stats, len(series))
	for _, r := range series {
		byVersion[r.Version] = r.Stats
	}
	data := make([]opts.LineData, len(versions))
	for i, v := range versions {
		if s, ok := byVersion[v]; ok {
			data[i] = opts.LineData{Value: value(s)}
		} else {
			data[i] = opts.LineData{Value: nil}
		}
	}
	return data
}

func meanDistanceChart(versions []string, series map[platform.Platform][]calib.Run, expectedMM float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Mean square size estimate (mm)",
			Subtitle: fmt.Sprintf("expected %.1f mm", expectedMM),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "version"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "mm", Scale: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	line.SetXAxis(versions)
	for _, p := range platform.Order {
		s, ok := series[p]
		if !ok {
			continue
		}
		line.AddSeries(p.String(), lineData(versions, s, func(st calib.Stats) float64 { return st.MeanDistance }))
	}

	expected := make([]opts.LineData, len(versions))
	for i := range versions {
		expected[i] = opts.LineData{Value: expectedMM}
	}
	line.AddSeries("expected", expected, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	return line
}

func meanErrorChart(versions []string, series map[platform.Platform][]calib.Run) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean error in square size estimate (mm)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "version"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "mm", Scale: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	line.SetXAxis(versions)
	for _, p := range platform.Order {
		s, ok := series[p]
		if !ok {
			continue
		}
		line.AddSeries(p.String(), lineData(versions, s, func(st calib.Stats) float64 { return st.MeanError }))
	}
	return line
}
