package main

import (
	"errors"
	"flag"
	"log"

	"github.com/mocap-data/calibration.report/internal/history"
)

func handleMerge(args []string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML configuration file")
	initHistory := fs.Bool("init", false, "start a fresh history when none exists yet")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	store := history.NewStore(cfg.Paths.HistoryCSV)

	release, err := store.Lock()
	if err != nil {
		log.Fatalf("merge: %v", err)
	}
	defer release()

	var existing history.History
	if *initHistory {
		existing, err = store.LoadOrInit()
	} else {
		existing, err = store.Load()
	}
	if err != nil {
		if errors.Is(err, history.ErrMissingHistory) {
			log.Fatalf("merge: %v (pass -init to start a fresh history)", err)
		}
		log.Fatalf("merge: %v", err)
	}

	batch, err := history.CollectRuns(cfg.Paths.CollectedDir)
	if err != nil {
		if errors.Is(err, history.ErrNoNewData) {
			log.Fatalf("merge: %v; check that the collection step ran", err)
		}
		log.Fatalf("merge: %v", err)
	}
	log.Printf("Collected %d run rows from %s", len(batch), cfg.Paths.CollectedDir)

	merged, err := history.Merge(existing, batch)
	if err != nil {
		log.Fatalf("merge: %v", err)
	}

	if err := store.Save(merged); err != nil {
		log.Fatalf("merge: %v", err)
	}
	log.Printf("Merged %d rows into %s (%d before, %d new)",
		len(merged), cfg.Paths.HistoryCSV, len(existing), len(batch))
}
