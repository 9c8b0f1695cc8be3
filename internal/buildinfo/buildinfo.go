// Package buildinfo carries the release identity stamped into the binary.
package buildinfo

// Set via -ldflags at release time; empty in dev builds, where the version
// command falls back to module build info.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
