// Package version reports the build version of resinhook.
package version

import "runtime/debug"

// Set at build time with -ldflags "-X github.com/rshade/resinhook/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Overridden by the linker.
var (
	version = ""
	commit  = ""
)

// GetVersion returns the linker-provided version, then the module version
// from the build info, then "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetCommit returns the linker-provided commit, then the VCS revision from
// the build info, or "".
func GetCommit() string {
	if commit != "" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}
