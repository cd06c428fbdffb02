package version

import "fmt"

var (
	// Version is the running release token that check-update compares with
	// the published one. Release builds set it with -ldflags "-X".
	Version = "1.0.1"
	// Commit identifies the source revision of the binary.
	Commit = "none"
	// BuildTime records when the binary was built, in UTC.
	BuildTime = "unknown"
)

// Short returns the release token used by the update check.
func Short() string {
	return Version
}

// Full describes the running photo-frame build.
func Full() string {
	return fmt.Sprintf("photo-frame %s (commit %s, built %s)", Version, Commit, BuildTime)
}
