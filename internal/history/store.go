package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"

	"github.com/mocap-data/calibration.report/internal/calib"
	"github.com/mocap-data/calibration.report/internal/platform"
)

// csvHeader is the column layout of the persisted dataset and of the
// one-row per-run files the CI workers deposit.
var csvHeader = []string{"os", "version", "mean_distance", "median_distance", "std_distance", "mean_error"}

// Store persists the history as a CSV file. Saves go through a temp file
// and rename so a crash mid-write leaves the previous dataset intact, and
// take an advisory flock so two merge steps on the same machine cannot
// interleave their read-modify-write cycles.
type Store struct {
	Path string
}

// NewStore returns a Store for the given summary CSV path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Exists reports whether a persisted history is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Load reads the persisted history. A missing file is ErrMissingHistory;
// use LoadOrInit when a fresh start is acceptable.
func (s *Store) Load() (History, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingHistory, s.Path)
		}
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	h, err := readRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return h, nil
}

// LoadOrInit reads the persisted history, or returns an empty one when no
// file exists yet. That is a valid initial state, not an error.
func (s *Store) LoadOrInit() (History, error) {
	h, err := s.Load()
	if err != nil {
		if errors.Is(err, ErrMissingHistory) {
			return History{}, nil
		}
		return nil, err
	}
	return h, nil
}

// Save atomically replaces the persisted history.
func (s *Store) Save(h History) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp history: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeRows(tmp, h); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush history: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("failed to replace history: %w", err)
	}
	return nil
}

// Lock takes the advisory merge lock for this store. The caller must call
// the returned release function.
func (s *Store) Lock() (release func(), err error) {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	lock := flock.New(s.Path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock history: %w", err)
	}
	return func() { lock.Unlock() }, nil
}

func readRows(r io.Reader) (History, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return History{}, nil
	}
	if err := checkHeader(records[0]); err != nil {
		return nil, err
	}

	h := make(History, 0, len(records)-1)
	for i, rec := range records[1:] {
		run, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		h = append(h, run)
	}
	return h, nil
}

func checkHeader(got []string) error {
	if len(got) != len(csvHeader) {
		return fmt.Errorf("unexpected CSV header %v", got)
	}
	for i, col := range csvHeader {
		if got[i] != col {
			return fmt.Errorf("unexpected CSV column %q, want %q", got[i], col)
		}
	}
	return nil
}

func parseRow(rec []string) (calib.Run, error) {
	if len(rec) != len(csvHeader) {
		return calib.Run{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(rec))
	}
	p, err := platform.Normalize(rec[0])
	if err != nil {
		return calib.Run{}, err
	}
	if err := ValidateVersion(rec[1]); err != nil {
		return calib.Run{}, err
	}

	vals := make([]float64, 4)
	for i, raw := range rec[2:] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return calib.Run{}, fmt.Errorf("bad %s value %q", csvHeader[i+2], raw)
		}
		vals[i] = v
	}
	return calib.Run{
		Platform: p,
		Version:  rec[1],
		Stats: calib.Stats{
			MeanDistance:   vals[0],
			MedianDistance: vals[1],
			StdDistance:    vals[2],
			MeanError:      vals[3],
		},
	}, nil
}

func writeRows(w io.Writer, h History) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, run := range h {
		if err := cw.Write(formatRow(run)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRow(run calib.Run) []string {
	return []string{
		string(run.Platform),
		run.Version,
		strconv.FormatFloat(run.Stats.MeanDistance, 'f', -1, 64),
		strconv.FormatFloat(run.Stats.MedianDistance, 'f', -1, 64),
		strconv.FormatFloat(run.Stats.StdDistance, 'f', -1, 64),
		strconv.FormatFloat(run.Stats.MeanError, 'f', -1, 64),
	}
}
