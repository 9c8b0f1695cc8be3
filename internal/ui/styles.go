package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): primary text
// - Accent (soft green, configurable): highlights, paths, person references
// - Muted (gray): secondary info
// - No colored success/error/warning - unicode symbols only

const defaultAccent = "#8EC07C"

var (
	// Accent style for file paths, person references, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted style for secondary info and hints
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)

	accentColor string
	accentSet   bool
	codeTheme   string
)

// ConfigureTheme applies the configured accent color to the shared styles.
// Accepts ANSI color codes ("0" to "255") or hex colors ("#RRGGBB"); the
// values "none", "off", and "default" fall back to the built-in accent.
func ConfigureTheme(accent string) {
	normalized, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		accentSet = false
		Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))
		AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)
		return
	}
	accentColor = normalized
	accentSet = true
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(normalized))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(normalized)).Bold(true)
}

// SetCodeTheme sets the Chroma theme used for rendered code blocks.
func SetCodeTheme(theme string) {
	codeTheme = strings.TrimSpace(theme)
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	return accentColor, accentSet
}

// normalizeAccentColor validates and canonicalizes an accent color value.
// Three-digit hex expands to six.
func normalizeAccentColor(value string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) == 3 {
			expanded := make([]byte, 0, 6)
			for i := 0; i < 3; i++ {
				expanded = append(expanded, hex[i], hex[i])
			}
			hex = string(expanded)
		}
		if len(hex) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", false
		}
		return "#" + hex, true
	}

	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 255 {
		return strconv.Itoa(n), true
	}
	return "", false
}
