// Package rundb records every diagnostic execution in a local sqlite
// database for traceability. The database is a side channel: the merge
// pipeline works from the CSV rows, not from here.
package rundb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mocap-data/calibration.report/internal/calib"
	"github.com/mocap-data/calibration.report/internal/platform"
)

type DB struct {
	*sql.DB
}

// Open opens (creating if needed) the run database and applies any pending
// schema migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run database: %w", err)
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// RunRecord is one stored diagnostic execution.
type RunRecord struct {
	ID        string
	Platform  platform.Platform
	Version   string
	Stats     calib.Stats
	GridPath  string
	CreatedAt time.Time
}

// RecordRun stores one run and returns its generated id.
func (db *DB) RecordRun(run calib.Run, gridPath string) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO calibration_runs
			(run_id, os, version, mean_distance, median_distance, std_distance, mean_error, grid_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(run.Platform), run.Version,
		run.Stats.MeanDistance, run.Stats.MedianDistance, run.Stats.StdDistance, run.Stats.MeanError,
		gridPath,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns() ([]RunRecord, error) {
	rows, err := db.Query(`
		SELECT run_id, os, version, mean_distance, median_distance, std_distance, mean_error,
		       COALESCE(grid_path, ''), created_at
		FROM calibration_runs
		ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RunsForKey returns the stored executions for one (platform, version)
// key, newest first. Multiple executions of the same key are kept; only
// the merged history deduplicates.
func (db *DB) RunsForKey(p platform.Platform, version string) ([]RunRecord, error) {
	rows, err := db.Query(`
		SELECT run_id, os, version, mean_distance, median_distance, std_distance, mean_error,
		       COALESCE(grid_path, ''), created_at
		FROM calibration_runs
		WHERE os = ? AND version = ?
		ORDER BY created_at DESC, run_id`,
		string(p), version)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs for %s/%s: %w", p, version, err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRun(rows *sql.Rows) (RunRecord, error) {
	var rec RunRecord
	var os string
	if err := rows.Scan(
		&rec.ID, &os, &rec.Version,
		&rec.Stats.MeanDistance, &rec.Stats.MedianDistance, &rec.Stats.StdDistance, &rec.Stats.MeanError,
		&rec.GridPath, &rec.CreatedAt,
	); err != nil {
		return RunRecord{}, fmt.Errorf("failed to scan run row: %w", err)
	}
	rec.Platform = platform.Platform(os)
	return rec, nil
}
