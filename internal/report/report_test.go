package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mocap-data/calibration.report/internal/calib"
	"github.com/mocap-data/calibration.report/internal/history"
	"github.com/mocap-data/calibration.report/internal/platform"
)

func sampleHistory() history.History {
	mk := func(p platform.Platform, version string, mean float64) calib.Run {
		return calib.Run{
			Platform: p,
			Version:  version,
			Stats: calib.Stats{
				MeanDistance:   mean,
				MedianDistance: mean - 0.05,
				StdDistance:    0.3,
				MeanError:      mean - 58,
			},
		}
	}
	return history.History{
		mk(platform.Windows, "1.9.0", 58.4),
		mk(platform.Windows, "1.10.0", 58.2),
		mk(platform.Linux, "1.9.0", 57.8),
		mk(platform.Linux, "current", 58.1),
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, sampleHistory(), 58); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}
	html := buf.String()

	for _, want := range []string{"Windows", "Linux", "expected", "Mean square size estimate", "1.10.0", "current"} {
		if !strings.Contains(html, want) {
			t.Errorf("report HTML missing %q", want)
		}
	}
	if strings.Contains(html, "macOS") {
		t.Error("report HTML contains a series for a platform with no rows")
	}
}

func TestWriteHTMLRejectsBadVersion(t *testing.T) {
	h := history.History{{Platform: platform.Linux, Version: "bogus!"}}
	if err := WriteHTML(&bytes.Buffer{}, h, 58); err == nil {
		t.Error("expected error for malformed version in history")
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.png")
	if err := SavePNG(path, sampleHistory()); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat plot: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestSaveCreatesOutputDir(t *testing.T) {
	// The report directory does not exist until the first render; both
	// writers must create it rather than fail in os.Create.
	dir := filepath.Join(t.TempDir(), "diagnostics", "reports")

	htmlPath := filepath.Join(dir, "calibration_report.html")
	if err := SaveHTML(htmlPath, sampleHistory(), 58); err != nil {
		t.Fatalf("SaveHTML into missing dir failed: %v", err)
	}
	if _, err := os.Stat(htmlPath); err != nil {
		t.Errorf("stat report: %v", err)
	}

	pngPath := filepath.Join(dir, "plots", "trend.png")
	if err := SavePNG(pngPath, sampleHistory()); err != nil {
		t.Fatalf("SavePNG into missing dir failed: %v", err)
	}
	if _, err := os.Stat(pngPath); err != nil {
		t.Errorf("stat plot: %v", err)
	}
}

func TestSavePNGEmptyHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.png")
	if err := SavePNG(path, history.History{}); err == nil {
		t.Error("expected error for empty history")
	}
}

func TestLatestTable(t *testing.T) {
	out, err := LatestTable(sampleHistory(), 58)
	if err != nil {
		t.Fatalf("LatestTable failed: %v", err)
	}
	if !strings.Contains(out, "1.10.0") {
		t.Errorf("latest Windows row should be 1.10.0:\n%s", out)
	}
	if !strings.Contains(out, "current") {
		t.Errorf("latest Linux row should be current:\n%s", out)
	}
	if strings.Contains(out, "1.9.0") {
		t.Errorf("superseded rows must not appear:\n%s", out)
	}
}

func TestHistoryTable(t *testing.T) {
	out, err := HistoryTable(sampleHistory())
	if err != nil {
		t.Fatalf("HistoryTable failed: %v", err)
	}
	// Within a platform group rows are version ordered.
	if strings.Index(out, "1.9.0") > strings.Index(out, "1.10.0") {
		t.Errorf("history rows out of version order:\n%s", out)
	}
	for _, want := range []string{"Windows", "Linux", "Mean error"} {
		if !strings.Contains(out, want) {
			t.Errorf("history table missing %q:\n%s", want, out)
		}
	}
}
