package main

import (
	"errors"
	"flag"
	"log"
	"path/filepath"

	"github.com/mocap-data/calibration.report/internal/artifact"
	"github.com/mocap-data/calibration.report/internal/board"
	"github.com/mocap-data/calibration.report/internal/calib"
	"github.com/mocap-data/calibration.report/internal/config"
	"github.com/mocap-data/calibration.report/internal/grid"
	"github.com/mocap-data/calibration.report/internal/history"
	"github.com/mocap-data/calibration.report/internal/platform"
	"github.com/mocap-data/calibration.report/internal/rundb"
)

func handleRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "TOML configuration file")
	gridPath := fs.String("grid", "", "triangulated board points (.npy), required")
	boardPath := fs.String("board", "", "board_info.json (defaults to the configured board)")
	calibPath := fs.String("calibration", "", "calibration parameter file to archive; identity is parsed from its name when -os/-run-version are omitted")
	osFlag := fs.String("os", "", "platform label (defaults to the running OS)")
	versionFlag := fs.String("run-version", "", "version under test (defaults to \"current\")")
	fs.Parse(args)

	if *gridPath == "" {
		log.Fatal("run: -grid is required")
	}

	cfg := loadConfig(*configPath)

	resolved, err := cfg.Locate(*gridPath)
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	g, err := grid.LoadNPY(resolved)
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	log.Printf("Loaded %d frames of %dx%d board points from %s", g.Frames, g.Rows, g.Cols, resolved)

	geom, err := resolveGeometry(cfg, *boardPath)
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	p, runVersion, err := resolveIdentity(*calibPath, *osFlag, *versionFlag)
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	run, err := calib.BuildRun(g, geom, p, runVersion)
	if err != nil {
		if errors.Is(err, calib.ErrInsufficientData) {
			log.Fatalf("run: %v; refusing to record a row for %s/%s", err, p, runVersion)
		}
		log.Fatalf("run: %v", err)
	}
	log.Printf("Computed stats for %s: mean=%.3fmm median=%.3fmm std=%.3fmm mean_error=%+.3fmm",
		run.Key(), run.Stats.MeanDistance, run.Stats.MedianDistance, run.Stats.StdDistance, run.Stats.MeanError)

	// The collected row is the merge step's input; failing to deposit it is
	// fatal, unlike the traceability side channels below.
	rowPath := collectedRowPath(cfg, run)
	if err := history.WriteRunCSV(rowPath, run); err != nil {
		log.Fatalf("run: %v", err)
	}
	log.Printf("Deposited run row at %s", rowPath)

	writer := artifact.NewWriter(cfg.Paths.ArtifactRoot)
	if dir, err := writer.Write(run, geom, artifact.Sources{CalibrationPath: *calibPath, GridPath: resolved}); err != nil {
		log.Printf("run: artifact write failed (continuing): %v", err)
	} else {
		log.Printf("Wrote artifacts to %s", dir)
	}

	if db, err := rundb.Open(cfg.Paths.RunDB); err != nil {
		log.Printf("run: run database unavailable (continuing): %v", err)
	} else {
		defer db.Close()
		if id, err := db.RecordRun(run, resolved); err != nil {
			log.Printf("run: failed to record run (continuing): %v", err)
		} else {
			log.Printf("Recorded run %s", id)
		}
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}

func resolveGeometry(cfg *config.Config, boardPath string) (board.Geometry, error) {
	if boardPath != "" {
		resolved, err := cfg.Locate(boardPath)
		if err != nil {
			return board.Geometry{}, err
		}
		return board.LoadGeometry(resolved)
	}
	geom := board.Geometry{
		SquaresWidth:  cfg.Board.SquaresWidth,
		SquaresHeight: cfg.Board.SquaresHeight,
		SquareSizeMM:  cfg.Board.SquareSizeMM,
	}
	return geom, geom.Validate()
}

// resolveIdentity determines the (platform, version) key for this run.
// Explicit flags win; otherwise the calibration filename supplies both;
// the final fallbacks are the running OS and the "current" sentinel.
func resolveIdentity(calibPath, osFlag, versionFlag string) (platform.Platform, string, error) {
	var id platform.FileIdentity
	if calibPath != "" && (osFlag == "" || versionFlag == "") {
		parsed, err := platform.ParseCalibrationFilename(calibPath)
		if err != nil {
			return "", "", err
		}
		id = parsed
	}

	p := id.Platform
	if osFlag != "" {
		normalized, err := platform.Normalize(osFlag)
		if err != nil {
			return "", "", err
		}
		p = normalized
	}
	if p == "" {
		detected, err := platform.Detect()
		if err != nil {
			return "", "", err
		}
		p = detected
	}

	v := id.Version
	if versionFlag != "" {
		v = versionFlag
	}
	if v == "" {
		v = history.CurrentVersion
	}
	if err := history.ValidateVersion(v); err != nil {
		return "", "", err
	}
	return p, v, nil
}

func collectedRowPath(cfg *config.Config, run calib.Run) string {
	return filepath.Join(cfg.Paths.CollectedDir, string(run.Platform), run.Version, "stats.csv")
}
