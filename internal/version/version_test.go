package version

import (
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		built   string
		want    string
	}{
		{
			name:    "full stamp",
			version: "1.2.0",
			commit:  "0123456789abcdef",
			built:   "2026-10-01T08:00:00Z",
			want:    "riskmap 1.2.0 (commit: 0123456, built: 2026-10-01T08:00:00Z)",
		},
		{
			name:    "short commit kept",
			version: "dev",
			commit:  "abc",
			built:   "now",
			want:    "riskmap dev (commit: abc, built: now)",
		},
		{
			name:    "missing stamp",
			version: "dev",
			want:    "riskmap dev (commit: unknown, built: unknown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := format(tt.version, tt.commit, tt.built); got != tt.want {
				t.Errorf("format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestString_UsesLinkedCommit(t *testing.T) {
	oldCommit, oldBuilt := Commit, BuildTime
	t.Cleanup(func() { Commit, BuildTime = oldCommit, oldBuilt })

	Commit, BuildTime = "fedcba9876543210", "2026-10-18"
	got := String()
	if !strings.Contains(got, "commit: fedcba9") || !strings.Contains(got, "built: 2026-10-18") {
		t.Errorf("String() = %q", got)
	}
}
