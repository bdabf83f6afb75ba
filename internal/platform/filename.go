package platform

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// calibrationNamePattern matches calibration parameter files named
// calibration_<OS>_<version>.toml, e.g. calibration_macOS_1.5.4.toml.
var calibrationNamePattern = regexp.MustCompile(`^calibration_(.+)_(\d+(?:\.\d+)*)\.toml$`)

// FileIdentity is the platform/version pair encoded in a calibration
// parameter filename.
type FileIdentity struct {
	Platform Platform
	Version  string
}

// ParseCalibrationFilename extracts the platform and version from a
// calibration parameter file path. The filename must match
// calibration_<OS>_<version>.toml; anything else is an error, never a
// silent mismatch.
func ParseCalibrationFilename(path string) (FileIdentity, error) {
	name := filepath.Base(path)
	m := calibrationNamePattern.FindStringSubmatch(name)
	if m == nil {
		return FileIdentity{}, fmt.Errorf("calibration filename %q does not match calibration_<OS>_<version>.toml", name)
	}
	p, err := Normalize(m[1])
	if err != nil {
		return FileIdentity{}, fmt.Errorf("calibration filename %q: %w", name, err)
	}
	return FileIdentity{Platform: p, Version: m[2]}, nil
}
