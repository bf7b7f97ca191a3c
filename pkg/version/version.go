// Package version holds sqlcmd build information.
package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X github.com/coral-mesh/sqlcmd/pkg/version.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

// String returns a one-line summary, used by `sqlcmd --version`.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", Version, GitCommit, BuildDate, GoVersion)
}
