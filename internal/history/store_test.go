package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mocap-data/calibration.report/internal/calib"
	"github.com/mocap-data/calibration.report/internal/platform"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "summary.csv"))
	h := History{
		run(platform.Windows, "1.0.0", 58.123456),
		run(platform.Linux, "current", 57.9),
	}

	if store.Exists() {
		t.Error("Exists() = true before first Save")
	}
	if err := store.Save(h); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !store.Exists() {
		t.Error("Exists() = false after Save")
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(h, got); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "summary.csv"))
	if _, err := store.Load(); !errors.Is(err, ErrMissingHistory) {
		t.Errorf("Load() error = %v, want ErrMissingHistory", err)
	}

	h, err := store.LoadOrInit()
	if err != nil {
		t.Fatalf("LoadOrInit failed: %v", err)
	}
	if len(h) != 0 {
		t.Errorf("LoadOrInit returned %d rows, want empty history", len(h))
	}
}

func TestStoreLoadNormalizesPlatforms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	raw := "os,version,mean_distance,median_distance,std_distance,mean_error\n" +
		"darwin,1.2.0,58.1,58.0,0.2,0.1\n" +
		" windows ,current,57.9,57.9,0.3,-0.1\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	h, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if h[0].Platform != platform.MacOS {
		t.Errorf("row 0 platform = %q, want macOS", h[0].Platform)
	}
	if h[1].Platform != platform.Windows {
		t.Errorf("row 1 platform = %q, want Windows", h[1].Platform)
	}
}

func TestStoreLoadRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad header", "a,b,c,d,e,f\nLinux,1.0.0,1,1,1,0\n"},
		{"bad version", "os,version,mean_distance,median_distance,std_distance,mean_error\nLinux,one,1,1,1,0\n"},
		{"bad platform", "os,version,mean_distance,median_distance,std_distance,mean_error\nBeOS,1.0.0,1,1,1,0\n"},
		{"bad float", "os,version,mean_distance,median_distance,std_distance,mean_error\nLinux,1.0.0,x,1,1,0\n"},
		{"short row", "os,version,mean_distance,median_distance,std_distance,mean_error\nLinux,1.0.0,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "summary.csv")
			if err := os.WriteFile(path, []byte(tt.raw), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := NewStore(path).Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStoreSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "summary.csv"))

	if err := store.Save(History{run(platform.Linux, "1.0.0", 58)}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := store.Save(History{run(platform.Linux, "1.1.0", 58)}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	h, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(h) != 1 || h[0].Version != "1.1.0" {
		t.Errorf("loaded %v, want single 1.1.0 row", keys(h))
	}

	// No temp files may survive a completed save.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "summary.csv" {
			t.Errorf("unexpected leftover file %s", e.Name())
		}
	}
}

func TestStoreLock(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "summary.csv"))
	release, err := store.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	release()
}

func TestCollectRuns(t *testing.T) {
	root := t.TempDir()

	a := run(platform.Windows, "current", 58.1)
	b := run(platform.Linux, "current", 58.2)
	if err := WriteRunCSV(filepath.Join(root, "windows", "stats.csv"), a); err != nil {
		t.Fatalf("WriteRunCSV failed: %v", err)
	}
	if err := WriteRunCSV(filepath.Join(root, "linux", "stats.csv"), b); err != nil {
		t.Fatalf("WriteRunCSV failed: %v", err)
	}

	runs, err := CollectRuns(root)
	if err != nil {
		t.Fatalf("CollectRuns failed: %v", err)
	}
	// Deterministic path order: linux/ sorts before windows/.
	want := []calib.Run{b, a}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Errorf("collected mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectRunsEmptyTree(t *testing.T) {
	if _, err := CollectRuns(t.TempDir()); !errors.Is(err, ErrNoNewData) {
		t.Errorf("CollectRuns(empty) error = %v, want ErrNoNewData", err)
	}
}
