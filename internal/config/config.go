// Package config holds the diagnostics pipeline configuration. All paths
// and the board geometry live in one explicit struct owned by the
// top-level command, never in package-level mutable state.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Paths configures where the pipeline reads and writes.
type Paths struct {
	HistoryCSV   string `toml:"history_csv"`   // merged historical dataset
	CollectedDir string `toml:"collected_dir"` // per-platform deposited run rows
	ArtifactRoot string `toml:"artifact_root"` // per-run traceability folders
	RunDB        string `toml:"run_db"`        // sqlite run log
	ReportDir    string `toml:"report_dir"`    // rendered reports
}

// Board configures the reference target used by the test recordings.
type Board struct {
	SquaresWidth  int     `toml:"squares_width"`
	SquaresHeight int     `toml:"squares_height"`
	SquareSizeMM  float64 `toml:"square_size_mm"`
}

// Config is the root configuration.
type Config struct {
	Paths Paths `toml:"paths"`
	Board Board `toml:"board"`

	// SearchRoots is the ordered list of directories Locate consults when
	// resolving a relative data file. Explicit and injectable; there are
	// no implicit fallbacks elsewhere.
	SearchRoots []string `toml:"search_roots"`
}

// Default returns the configuration used when no config file is given:
// everything under ./diagnostics, with the standard 7x5 58mm test board.
func Default() *Config {
	return &Config{
		Paths: Paths{
			HistoryCSV:   filepath.Join("diagnostics", "calibration_summary.csv"),
			CollectedDir: filepath.Join("diagnostics", "collected"),
			ArtifactRoot: filepath.Join("diagnostics", "artifacts"),
			RunDB:        filepath.Join("diagnostics", "runs.db"),
			ReportDir:    filepath.Join("diagnostics", "reports"),
		},
		Board: Board{
			SquaresWidth:  7,
			SquaresHeight: 5,
			SquareSizeMM:  58,
		},
		SearchRoots: []string{"."},
	}
}

// Load reads a TOML config file over the defaults, so partial configs are
// safe, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.Paths.HistoryCSV == "" {
		return errors.New("paths.history_csv must be set")
	}
	if c.Paths.CollectedDir == "" {
		return errors.New("paths.collected_dir must be set")
	}
	if c.Board.SquaresWidth < 2 || c.Board.SquaresHeight < 2 {
		return fmt.Errorf("board must be at least 2x2 squares, got %dx%d", c.Board.SquaresWidth, c.Board.SquaresHeight)
	}
	if c.Board.SquareSizeMM <= 0 {
		return fmt.Errorf("board.square_size_mm must be positive, got %g", c.Board.SquareSizeMM)
	}
	if len(c.SearchRoots) == 0 {
		return errors.New("search_roots must list at least one directory")
	}
	return nil
}

// NotFoundError reports a data file that none of the search roots contain.
type NotFoundError struct {
	Name  string
	Roots []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in search roots %v", e.Name, e.Roots)
}

// Locate resolves a data file against the configured search roots, in
// order. Absolute paths are checked as-is. A miss is a NotFoundError
// naming every root consulted.
func (c *Config) Locate(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", &NotFoundError{Name: name, Roots: []string{"/"}}
			}
			return "", err
		}
		return name, nil
	}
	for _, root := range c.SearchRoots {
		candidate := filepath.Join(root, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", &NotFoundError{Name: name, Roots: c.SearchRoots}
}
