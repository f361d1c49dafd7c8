// Package version holds build information set via -ldflags.
package version

import "runtime/debug"

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/neox5/gleanbox/internal/version.Version=v1.2.3"
var Version = ""

// String returns the build version, falling back to module build info.
func String() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}
