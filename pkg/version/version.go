// Package version carries build identification stamped in via -ldflags.
package version

import "fmt"

var (
	Version   = "0.3.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func Short() string {
	return Version
}

// String is the full summary; the binaries prepend their own name.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
