// Package shellquote quotes strings for POSIX shells.
package shellquote

import "strings"

// Quote single-quotes s, escaping internal single quotes so the result is
// safe to interpolate into an sh -c command line.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
