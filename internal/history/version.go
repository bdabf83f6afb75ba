// Package history maintains the versioned, platform-keyed dataset of
// calibration statistics: version ordering with the "current" sentinel,
// idempotent merging of new run rows, the derived views for reporting, and
// CSV persistence of the dataset itself.
package history

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// CurrentVersion is the sentinel tag for the in-progress, unreleased build.
// It orders strictly after every numeric version.
const CurrentVersion = "current"

// MalformedVersionError reports a version string that is neither a dotted
// numeric version nor the "current" sentinel.
type MalformedVersionError struct {
	Version string
}

func (e *MalformedVersionError) Error() string {
	return fmt.Sprintf("malformed version %q: want dotted numeric (e.g. 1.10.0) or %q", e.Version, CurrentVersion)
}

// ValidateVersion checks that v is a numeric version or the sentinel.
// Short forms pad with zeros ("1.2" and "2" mean "1.2.0" and "2.0.0"),
// matching how release tags are compared. It must never be silently
// coerced; callers surface the error.
func ValidateVersion(v string) error {
	if v == CurrentVersion {
		return nil
	}
	if v == "" || strings.TrimSpace(v) != v || !semver.IsValid("v"+v) || semver.Prerelease("v"+v) != "" || semver.Build("v"+v) != "" {
		return &MalformedVersionError{Version: v}
	}
	return nil
}

// CompareVersions orders two version strings: dotted numeric versions
// compare by numeric per-component precedence ("1.10.0" > "1.9.0"), and
// the sentinel compares greater than every numeric version.
func CompareVersions(a, b string) (int, error) {
	if err := ValidateVersion(a); err != nil {
		return 0, err
	}
	if err := ValidateVersion(b); err != nil {
		return 0, err
	}
	switch {
	case a == CurrentVersion && b == CurrentVersion:
		return 0, nil
	case a == CurrentVersion:
		return 1, nil
	case b == CurrentVersion:
		return -1, nil
	}
	return semver.Compare("v"+a, "v"+b), nil
}

// versionLess orders pre-validated version strings.
func versionLess(a, b string) bool {
	c, err := CompareVersions(a, b)
	if err != nil {
		// Validated upstream; treat as equal rather than panic.
		return false
	}
	return c < 0
}
