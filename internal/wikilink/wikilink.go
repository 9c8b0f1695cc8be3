// Package wikilink provides canonical parsing and formatting of wikilinks.
//
// Wikilink grammar:
//
//	[[target]]
//	[[target|display text]]
//
// Relationship fields in person notes store wikilinks alongside stable-ID
// fields; this package is the single place that understands the literal form.
// Targets and display text are trimmed of surrounding whitespace.
package wikilink

import (
	"regexp"
	"strings"
)

// Match represents a wikilink found in a string (typically a single line).
type Match struct {
	Target  string
	Display string
	Start   int
	End     int
	Literal string
}

// re matches [[target]] or [[target|display]]. The target cannot contain
// brackets or a pipe.
var re = regexp.MustCompile(`\[\[([^\]\[|]+)(?:\|([^\]]+))?\]\]`)

// ParseExact parses a string that is exactly a wikilink literal.
func ParseExact(s string) (target, display string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return "", "", false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	parts := strings.SplitN(inner, "|", 2)
	target = strings.TrimSpace(parts[0])
	if target == "" || strings.ContainsAny(target, "[]") {
		return "", "", false
	}
	if len(parts) == 2 {
		display = strings.TrimSpace(parts[1])
	}
	return target, display, true
}

// Target returns the target of a wikilink literal, or the input unchanged
// when it is not a wikilink. Relationship fields accept both forms.
func Target(s string) string {
	if t, _, ok := ParseExact(s); ok {
		return t
	}
	return strings.TrimSpace(s)
}

// Format builds a wikilink literal. Display is omitted when empty or equal
// to the target.
func Format(target, display string) string {
	if display == "" || display == target {
		return "[[" + target + "]]"
	}
	return "[[" + target + "|" + display + "]]"
}

// FindAllInLine finds wikilinks in a single line. Matches preceded by '['
// are skipped to avoid YAML array syntax like [[[ref]]].
func FindAllInLine(line string) []Match {
	var out []Match

	for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
		if len(m) < 4 {
			continue
		}
		start, end := m[0], m[1]
		if start > 0 && line[start-1] == '[' {
			continue
		}

		target := strings.TrimSpace(line[m[2]:m[3]])
		if target == "" {
			continue
		}

		display := ""
		if len(m) >= 6 && m[4] >= 0 && m[5] >= 0 {
			display = strings.TrimSpace(line[m[4]:m[5]])
		}

		out = append(out, Match{
			Target:  target,
			Display: display,
			Start:   start,
			End:     end,
			Literal: line[start:end],
		})
	}

	return out
}
