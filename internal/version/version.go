// Package version holds build metadata reported by GET /version.
package version

// Overridden at link time, e.g.
//
//	go build -ldflags "-X github.com/bissquit/incident-tracker/internal/version.Version=1.2.0"
var (
	Version   = "0.0.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)
