// Package platform defines the canonical operating-system labels used to key
// calibration runs, and the normalization from raw platform-detection strings.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform is a canonical operating-system label.
type Platform string

const (
	Windows Platform = "Windows"
	MacOS   Platform = "macOS"
	Linux   Platform = "Linux"
)

// Order is the canonical display order for reports and tables.
var Order = []Platform{Windows, MacOS, Linux}

// String returns the canonical label.
func (p Platform) String() string { return string(p) }

// Valid reports whether p is one of the canonical platforms.
func (p Platform) Valid() bool {
	switch p {
	case Windows, MacOS, Linux:
		return true
	}
	return false
}

// Normalize maps a raw platform-detection string (GOOS value, kernel name,
// or an already-canonical label) to the canonical Platform. Leading and
// trailing whitespace is ignored, as is case.
func Normalize(raw string) (Platform, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "windows", "windows_nt", "win32", "win":
		return Windows, nil
	case "macos", "darwin", "osx", "mac":
		return MacOS, nil
	case "linux", "gnu/linux", "ubuntu":
		return Linux, nil
	}
	return "", fmt.Errorf("unrecognized platform %q", raw)
}

// Detect returns the Platform for the running process.
func Detect() (Platform, error) {
	return Normalize(runtime.GOOS)
}
