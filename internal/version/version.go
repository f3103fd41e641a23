// Package version carries the docversions build identity.
package version

import "fmt"

// Version is the release tag, injected at build time:
// go build -ldflags "-X git.home.luguber.info/inful/docversions/internal/version.Version=v0.3.0".
var Version = "unknown"

// Build metadata, also set through ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the identity shown by --version and exposed to hook modules.
func String() string {
	if GitCommit == "unknown" && BuildTime == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
