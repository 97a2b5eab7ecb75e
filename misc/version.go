// Package misc holds program identity shared by all packages.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "svgcss"

// set with -ldflags "-X svgcss/misc.version=... -X svgcss/misc.gitHash=..."
var (
	version = ""
	gitHash = ""
)

var buildInfo = sync.OnceValue(func() *debug.BuildInfo {
	if bi, ok := debug.ReadBuildInfo(); ok {
		return bi
	}
	return nil
})

func GetAppName() string {
	return appName
}

// GetVersion returns version set at link time or module version from build info.
func GetVersion() string {
	if version != "" {
		return version
	}
	if bi := buildInfo(); bi != nil && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns commit hash set at link time or recorded by the go tool.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi := buildInfo(); bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
