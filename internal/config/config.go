// Package config handles global Charted Roots configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/prentissw/charted-roots/internal/model"
)

// Config represents the global configuration.
type Config struct {
	// DefaultVault is the name of the default vault (from Vaults map).
	DefaultVault string `toml:"default_vault"`

	// Vaults is a map of vault names to paths.
	Vaults map[string]string `toml:"vaults"`

	// Editor is the editor to use for opening notes (defaults to $EDITOR).
	Editor string `toml:"editor"`

	// Privacy controls how living persons are treated on export.
	Privacy PrivacyConfig `toml:"privacy"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// PrivacyConfig represents export privacy defaults.
type PrivacyConfig struct {
	// Enabled turns privacy on for every export unless overridden by a flag.
	Enabled bool `toml:"enabled"`

	// Policy is "obfuscate" (initials, no dates) or "exclude" (omit the
	// person entirely). Defaults to obfuscate.
	Policy string `toml:"policy"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown
	// rendering. Supported values are ANSI color codes ("0" to "255") or
	// hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown
	// code blocks.
	CodeTheme string `toml:"code_theme"`
}

// GetVaultPath returns the path for a named vault. If name is empty, the
// default vault is used.
func (c *Config) GetVaultPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultVault
	}
	if c.Vaults != nil {
		if path, ok := c.Vaults[name]; ok {
			return path, nil
		}
	}
	if name == "" {
		return "", fmt.Errorf("no default vault configured")
	}
	return "", fmt.Errorf("vault '%s' not found in config", name)
}

// ListVaults returns all configured vaults with their paths.
func (c *Config) ListVaults() map[string]string {
	result := make(map[string]string, len(c.Vaults))
	for name, path := range c.Vaults {
		result[name] = path
	}
	return result
}

// GetEditor returns the editor to use, falling back to $EDITOR.
func (c *Config) GetEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	return os.Getenv("EDITOR")
}

// PrivacyPolicy maps the configured policy string to a model policy.
func (c *Config) PrivacyPolicy() model.PrivacyPolicy {
	if c.Privacy.Policy == "exclude" {
		return model.PolicyExclude
	}
	return model.PolicyObfuscate
}

// Load loads the configuration from the default location. Returns a default
// config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path. Checks
// ~/.config/charted-roots/config.toml first (XDG style), then falls back to
// the OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "charted-roots", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "charted-roots", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path
// (~/.config/charted-roots/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "charted-roots", "config.toml"), nil
}

// CreateDefault creates a default config file if it doesn't exist.
func CreateDefault() (string, error) {
	configPath := DefaultPath()
	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# Charted Roots Configuration

# Default vault name (must exist in [vaults] below)
# default_vault = "family"

# Named vaults
# [vaults]
# family = "/path/to/your/family/vault"

# Editor for opening notes (defaults to $EDITOR)
# editor = "code"

# Privacy defaults for export.
#   enabled = true hides living persons unless a flag overrides it
#   policy is "obfuscate" (initials, no dates) or "exclude"
# [privacy]
# enabled = true
# policy = "obfuscate"

# Optional UI accent color for headers/links in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configPath, nil
}
