package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the release of the binary, set with
// -ldflags "-X github.com/anoideaopen/mbean/version.Version=v1.2.3".
var Version = ""

// BuildInfo returns the build information
func BuildInfo() (*debug.BuildInfo, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, fmt.Errorf("fetching build info failed")
	}

	if bi == nil {
		return nil, fmt.Errorf("build information is empty")
	}

	return bi, nil
}

// Release returns Version, else the main module version, else "(devel)".
func Release() string {
	if Version != "" {
		return Version
	}
	if bi, err := BuildInfo(); err == nil && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

// GoVersion returns the version of the Go toolchain that built the binary.
func GoVersion() string {
	return runtime.Version()
}

// BuildSettings returns the build settings (vcs revision, flags, GOOS...) keyed by name.
func BuildSettings() (map[string]string, error) {
	bi, err := BuildInfo()
	if err != nil {
		return nil, err
	}

	res := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		res[s.Key] = s.Value
	}
	return res, nil
}
