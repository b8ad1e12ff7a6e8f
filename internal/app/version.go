package app

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/tejashwikalptaru/govis/internal/app.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = ""
	BuildTime = "unknown"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string
	GitCommit string
	GitTag    string
	BuildTime string
}

// GetVersionInfo returns the ldflags values. When they were not set, the
// commit and build time come from the VCS stamp go build embeds.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fillFromBuild(bi.Settings)
	}
	return info
}

func (v *VersionInfo) fillFromBuild(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if v.GitCommit == "unknown" && s.Value != "" {
				v.GitCommit = s.Value[:min(len(s.Value), 12)]
			}
		case "vcs.time":
			if v.BuildTime == "unknown" && s.Value != "" {
				v.BuildTime = s.Value
			}
		}
	}
}

// FullString returns the version line printed by the version command and
// logged at startup. A git tag takes precedence over Version.
func (v VersionInfo) FullString() string {
	version := v.Version
	if v.GitTag != "" {
		version = v.GitTag
	}
	return fmt.Sprintf("GoVis %s (commit: %s, built: %s)", version, v.GitCommit, v.BuildTime)
}
