package version

import (
	"strings"
	"testing"
)

func withBuild(t *testing.T, version, buildTime, commit string) {
	t.Helper()
	origVersion, origTime, origCommit := Version, BuildTime, GitCommit
	Version, BuildTime, GitCommit = version, buildTime, commit
	t.Cleanup(func() {
		Version, BuildTime, GitCommit = origVersion, origTime, origCommit
	})
}

func TestGetVersionString(t *testing.T) {
	tests := []struct {
		buildTime string
		expected  string
	}{
		{"unknown", "v1.2.3"},
		{"not-a-time", "v1.2.3"},
		{"2025-02-03T04:05:06Z", "v1.2.3 (built 2025-02-03 04:05:06 UTC)"},
	}

	for _, tt := range tests {
		withBuild(t, "v1.2.3", tt.buildTime, "unknown")
		if result := GetVersionString(); result != tt.expected {
			t.Errorf("GetVersionString() with BuildTime=%s = %q; want %q", tt.buildTime, result, tt.expected)
		}
	}
}

func TestInfo(t *testing.T) {
	withBuild(t, "dev", "unknown", "unknown")
	if result := Info(); result != "dev (development build)" {
		t.Errorf("Info() = %q; want development build", result)
	}

	withBuild(t, "v1.0.0", "2025-02-03T04:05:06Z", "0123456789abcdef")
	result := Info()
	if !strings.Contains(result, "commit 01234567") || !strings.HasPrefix(result, "v1.0.0 (built") {
		t.Errorf("Info() = %q; want release build info", result)
	}
}
