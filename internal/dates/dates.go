// Package dates provides canonical genealogical date parsing and conversion.
//
// Authored dates are free text. Interchange formats each have their own date
// grammar, so exporters normalize through a fallback chain: a full ISO date
// when parseable, a free-text wrapper when not, and a bare 4-digit year as a
// last resort. A date is never silently dropped.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearRegex = regexp.MustCompile(`\b(\d{4})\b`)
)

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.Parse("2006-01-02", s)
}

// ExtractYear pulls the first 4-digit year out of a free-text date.
func ExtractYear(s string) (string, bool) {
	m := yearRegex.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Kind classifies how well a date string could be normalized.
type Kind int

const (
	// KindNone means the input was empty.
	KindNone Kind = iota
	// KindFull is a complete ISO YYYY-MM-DD date.
	KindFull
	// KindYear is a bare 4-digit year extracted from free text.
	KindYear
	// KindText is unparseable free text, preserved verbatim.
	KindText
)

// Normalized is the result of normalizing a free-text date.
type Normalized struct {
	Kind Kind
	// Value is the ISO date for KindFull, the year for KindYear, and the
	// original text for KindText.
	Value string
}

// Normalize runs the fallback chain over a free-text date.
func Normalize(s string) Normalized {
	s = strings.TrimSpace(s)
	if s == "" {
		return Normalized{Kind: KindNone}
	}
	if IsValidDate(s) {
		return Normalized{Kind: KindFull, Value: s}
	}
	if y, ok := ExtractYear(s); ok {
		return Normalized{Kind: KindYear, Value: y}
	}
	return Normalized{Kind: KindText, Value: s}
}
