// Package version holds docsum build metadata injected via ldflags:
//
//	-X github.com/kailas-cloud/docsum/internal/version.Version=v1.2.0
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for logs and the user agent.
func String() string {
	return fmt.Sprintf("docsum/%s (%s, %s)", Version, Commit, Date)
}
