package tagstat

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the tagstat module.
const Version = "0.1.0"

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string
	GitCommit string // Set via -ldflags, else taken from the embedded VCS info
	BuildTime string // Set via -ldflags, else taken from the embedded VCS info
	GoVersion string
}

// Variables populated at build time via -ldflags:
//
//	go build -ldflags="-X github.com/simonhull/tagstat.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/tagstat.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/tagstat
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)

// GetVersionInfo returns version information for the running binary.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "unknown":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildTime == "unknown":
				info.BuildTime = s.Value
			}
		}
	}

	return info
}

func (v VersionInfo) String() string {
	commit := v.GitCommit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return fmt.Sprintf("tagstat %s (commit %s, built %s, %s)", v.Version, commit, v.BuildTime, v.GoVersion)
}
