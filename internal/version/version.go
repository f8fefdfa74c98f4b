// Package version reports the riskmap build.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags, e.g.
// -X github.com/example/riskmap/internal/version.Version=1.2.0
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// String returns "riskmap <version> (commit: <short>, built: <time>)".
// Commit and build time fall back to the VCS stamp embedded by go build.
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		rev, at := vcsStamp()
		if commit == "" {
			commit = rev
		}
		if built == "" {
			built = at
		}
	}
	return format(Version, commit, built)
}

func format(version, commit, built string) string {
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("riskmap %s (commit: %s, built: %s)", version, commit, built)
}

func vcsStamp() (revision, at string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	return revision, at
}
