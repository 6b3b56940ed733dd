package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/settle/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/settle/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/settle/internal/version.Date={{.Date}}
)

// String returns the multi-line build summary printed by "settle version"
func String() string {
	return fmt.Sprintf("settle version %s\n  commit: %s\n  built:  %s\n", Version, Commit, Date)
}
