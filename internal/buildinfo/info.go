// Package buildinfo holds the version stamped into the pocketbook binary.
//
//	go build -ldflags "-X github.com/cleared-dev/pocketbook/internal/buildinfo.Version=v0.3.0"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
