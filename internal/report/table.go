package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mocap-data/calibration.report/internal/history"
	"github.com/mocap-data/calibration.report/internal/platform"
)

// LatestTable renders the latest run per platform as a terminal table.
func LatestTable(h history.History, expectedMM float64) (string, error) {
	latest, err := history.LatestPerPlatform(h)
	if err != nil {
		return "", err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("Latest calibration per OS (expected %.1f mm)", expectedMM))
	tw.AppendHeader(table.Row{"OS", "Version", "Mean ± SD (mm)", "Median (mm)", "Mean error (mm)"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	for _, p := range platform.Order {
		r, ok := latest[p]
		if !ok {
			continue
		}
		tw.AppendRow(table.Row{
			p.String(),
			r.Version,
			fmt.Sprintf("%.2f ± %.2f", r.Stats.MeanDistance, r.Stats.StdDistance),
			fmt.Sprintf("%.2f", r.Stats.MedianDistance),
			fmt.Sprintf("%+.2f", r.Stats.MeanError),
		})
	}
	return tw.Render(), nil
}

// HistoryTable renders the full history as a terminal table, grouped by
// platform and ordered by version within each group.
func HistoryTable(h history.History) (string, error) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"OS", "Version", "Mean (mm)", "Median (mm)", "SD (mm)", "Mean error (mm)"})

	for _, p := range platform.Order {
		series, err := history.TimeSeries(h, p)
		if err != nil {
			return "", err
		}
		for _, r := range series {
			tw.AppendRow(table.Row{
				p.String(),
				r.Version,
				fmt.Sprintf("%.3f", r.Stats.MeanDistance),
				fmt.Sprintf("%.3f", r.Stats.MedianDistance),
				fmt.Sprintf("%.3f", r.Stats.StdDistance),
				fmt.Sprintf("%+.3f", r.Stats.MeanError),
			})
		}
	}
	return tw.Render(), nil
}
