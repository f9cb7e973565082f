package version

import (
	"regexp"
	"runtime"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Platform", Platform},
		{"Frege", Frege},
		{"REPL", REPL},
		{"TUI", TUI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q does not match semver format (x.y.z)", tt.name, tt.version)
			}
		})
	}
}

func TestServiceVersion(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		expected string
	}{
		{"frege service", "frege", Frege},
		{"repl", "repl", REPL},
		{"tui", "tui", TUI},
		{"unknown service", "unknown", Platform},
		{"empty service", "", Platform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ServiceVersion(tt.service)
			if result != tt.expected {
				t.Errorf("ServiceVersion(%q) = %q, want %q", tt.service, result, tt.expected)
			}
		})
	}
}

func TestString(t *testing.T) {
	s := String()

	for _, want := range []string{"mAF " + Platform, "commit " + Commit, runtime.GOOS} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
