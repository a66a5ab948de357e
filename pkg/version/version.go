// Package version identifies the debuggee build in its banner and logs.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version of the debuggee fixture. Build is filled from the VCS revision
// stamped by the go command when it is left empty.
type Version struct {
	Major    string
	Minor    string
	Patch    string
	Metadata string
	Build    string
}

// DebuggeeVersion is the version printed in the startup banner.
var DebuggeeVersion = Version{Major: "0", Minor: "3", Patch: "0"}

// String returns the full version, build revision and toolchain, one per
// line.
func (v Version) String() string {
	if v.Build == "" {
		v.Build = revision()
	}
	return fmt.Sprintf("Version: %s\nBuild: %s\nGo: %s", v.Short(), v.Build, runtime.Version())
}

// Short returns the dotted version without build information.
func (v Version) Short() string {
	ver := fmt.Sprintf("%s.%s.%s", v.Major, v.Minor, v.Patch)
	if v.Metadata != "" {
		ver += "-" + v.Metadata
	}
	return ver
}

// revision reports vcs.revision, suffixed with "-dirty" for a modified
// tree, or "unknown" for binaries built without VCS stamping (go test,
// go run).
func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var rev, dirty string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			rev = setting.Value
		case "vcs.modified":
			if setting.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	if rev == "" {
		return "unknown"
	}
	return rev + dirty
}
