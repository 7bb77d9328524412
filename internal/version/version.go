package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Populated at build time with -ldflags "-X github.com/PizzaHomicide/kagami/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = "unknown"
)

// GetVersion returns the current version of the application
func GetVersion() string {
	return Version
}

// GetBuildTime returns the build time of the binary
func GetBuildTime() string {
	return BuildTime
}

// GetCommit returns the VCS revision the binary was built from.  Falls back to the revision recorded by the Go
// toolchain when ldflags did not set one.
func GetCommit() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}

// GetVersionInfo returns a one line summary for `kagami version`
func GetVersionInfo() string {
	return fmt.Sprintf("Kagami v%s (commit %s, built %s, %s %s/%s)",
		Version, GetCommit(), BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
