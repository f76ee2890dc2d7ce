// Package version carries build metadata stamped in through -ldflags.
package version

var (
	// Version is the release version.
	Version = "0.1.0"

	// BuildTime is when the binary was built, UTC.
	BuildTime = "unknown"

	// Commit is the source revision the binary was built from.
	Commit = "unknown"
)
