package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/solitary-project/forge/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/solitary-project/forge/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/solitary-project/forge/internal/version.Date={{.Date}}
)

// String returns the version line shown by `forge --version`.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
