package model

import "strings"

// PrivacyPolicy selects how living persons are rendered when privacy
// protection is enabled on an export.
type PrivacyPolicy string

const (
	// PolicyObfuscate replaces a living person's identity fields with
	// initials and strips dates and places, keeping the graph structure.
	PolicyObfuscate PrivacyPolicy = "obfuscate"
	// PolicyExclude removes living persons entirely, including every
	// family and event reference that would otherwise dangle.
	PolicyExclude PrivacyPolicy = "exclude"
)

// ObfuscateName reduces a name to its initials, "Living" when empty.
func ObfuscateName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "Living"
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string([]rune(f)[0]) + "."
	}
	return strings.Join(parts, " ")
}
