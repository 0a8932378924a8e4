package buildinfo

// Set via -ldflags "-X github.com/bank2ynab/bank2ynab/internal/buildinfo.Version=..." at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
