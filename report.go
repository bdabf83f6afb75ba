package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mocap-data/calibration.report/internal/history"
	"github.com/mocap-data/calibration.report/internal/report"
	"github.com/mocap-data/calibration.report/internal/rundb"
)

func handleReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML configuration file")
	outDir := fs.String("out", "", "output directory (defaults to the configured report dir)")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	dir := *outDir
	if dir == "" {
		dir = cfg.Paths.ReportDir
	}

	h := loadHistory(cfg.Paths.HistoryCSV)
	expected := cfg.Board.SquareSizeMM

	htmlPath := filepath.Join(dir, "calibration_report.html")
	if err := report.SaveHTML(htmlPath, h, expected); err != nil {
		log.Fatalf("report: %v", err)
	}
	log.Printf("Wrote HTML report to %s", htmlPath)

	pngPath := filepath.Join(dir, "trend.png")
	if err := report.SavePNG(pngPath, h); err != nil {
		log.Fatalf("report: %v", err)
	}
	log.Printf("Wrote trend plot to %s", pngPath)

	table, err := report.LatestTable(h, expected)
	if err != nil {
		log.Fatalf("report: %v", err)
	}
	fmt.Println(table)
}

func handleHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML configuration file")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	h := loadHistory(cfg.Paths.HistoryCSV)

	table, err := report.HistoryTable(h)
	if err != nil {
		log.Fatalf("history: %v", err)
	}
	fmt.Println(table)
}

func handleRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML configuration file")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	if _, err := os.Stat(cfg.Paths.RunDB); err != nil {
		log.Fatalf("runs: no run database at %s", cfg.Paths.RunDB)
	}

	db, err := rundb.Open(cfg.Paths.RunDB)
	if err != nil {
		log.Fatalf("runs: %v", err)
	}
	defer db.Close()

	records, err := db.ListRuns()
	if err != nil {
		log.Fatalf("runs: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No recorded runs.")
		return
	}
	for _, rec := range records {
		fmt.Printf("%s  %s  %s/%s  mean=%.3fmm mean_error=%+.3fmm  %s\n",
			rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Platform, rec.Version,
			rec.Stats.MeanDistance, rec.Stats.MeanError, rec.GridPath)
	}
}

func loadHistory(path string) history.History {
	h, err := history.NewStore(path).Load()
	if err != nil {
		log.Fatalf("%v (run the merge step first)", err)
	}
	return h
}
