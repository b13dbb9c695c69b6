// Package buildinfo holds version information stamped in at build time:
//
//	go build -ldflags "-X github.com/matzehuels/graphview/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/graphview/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/graphview/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version, "dev" for local builds.
	Version = "dev"
	// Commit is the git commit SHA.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the build information as a value, for status endpoints.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the stamped build information.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String returns the build information on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
