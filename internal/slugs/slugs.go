// Package slugs provides filename slugification for notes created on import.
//
// Imported persons and places get stable, filesystem-safe note names derived
// from their display names ("Mary Ann O'Brien" -> "mary-ann-obrien").
package slugs

import (
	"strconv"
	"strings"

	goslug "github.com/gosimple/slug"
)

// Name converts a display name to a slug suitable for a note filename.
func Name(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}

// Unique appends a numeric suffix until the slug is absent from taken.
// The chosen slug is recorded in taken before returning.
func Unique(base string, taken map[string]bool) string {
	if base == "" {
		base = "person"
	}
	candidate := base
	for i := 2; taken[candidate]; i++ {
		candidate = base + "-" + strconv.Itoa(i)
	}
	taken[candidate] = true
	return candidate
}
