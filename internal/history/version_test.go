package history

import (
	"errors"
	"sort"
	"testing"
)

func TestValidateVersion(t *testing.T) {
	valid := []string{"current", "1.0.0", "1.10.0", "0.9", "2", "10.4.7"}
	for _, v := range valid {
		if err := ValidateVersion(v); err != nil {
			t.Errorf("ValidateVersion(%q) = %v, want nil", v, err)
		}
	}

	malformed := []string{"", "v1.0.0", "1.0.0-rc1", "1.0.0+build", "abc", "1..0", "1.0 ", " 1.0", "current-ish", "01.2.3"}
	for _, v := range malformed {
		err := ValidateVersion(v)
		if err == nil {
			t.Errorf("ValidateVersion(%q) = nil, want MalformedVersionError", v)
			continue
		}
		var mv *MalformedVersionError
		if !errors.As(err, &mv) {
			t.Errorf("ValidateVersion(%q) error type = %T", v, err)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.10.0", "1.9.0", 1},
		{"1.9.0", "1.10.0", -1},
		{"1.5.0", "1.5.0", 0},
		{"1.4", "1.4.0", 0},
		{"2", "2.0.0", 0},
		{"2.0.0", "1.99.99", 1},
		{"current", "999.0.0", 1},
		{"0.0.1", "current", -1},
		{"current", "current", 0},
	}
	for _, tt := range tests {
		got, err := CompareVersions(tt.a, tt.b)
		if err != nil {
			t.Errorf("CompareVersions(%q, %q) failed: %v", tt.a, tt.b, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}

	if _, err := CompareVersions("1.0.0", "not-a-version"); err == nil {
		t.Error("expected error for malformed operand")
	}
}

func TestVersionSortOrder(t *testing.T) {
	versions := []string{"current", "1.10.0", "1.5.0"}
	sort.Slice(versions, func(i, j int) bool { return versionLess(versions[i], versions[j]) })

	want := []string{"1.5.0", "1.10.0", "current"}
	for i := range want {
		if versions[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", versions, want)
		}
	}
}
