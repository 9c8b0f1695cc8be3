package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/prentissw/charted-roots/internal/atomicfile"
)

// persistedConfig mirrors Config with pointer fields so unset values stay
// out of the written file.
type persistedConfig struct {
	DefaultVault *string            `toml:"default_vault,omitempty"`
	Vaults       map[string]string  `toml:"vaults,omitempty"`
	Editor       *string            `toml:"editor,omitempty"`
	Privacy      *persistedPrivacy  `toml:"privacy,omitempty"`
	UI           *persistedUI       `toml:"ui,omitempty"`
}

type persistedPrivacy struct {
	Enabled *bool   `toml:"enabled,omitempty"`
	Policy  *string `toml:"policy,omitempty"`
}

type persistedUI struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		DefaultVault: nonEmptyPtr(cfg.DefaultVault),
		Editor:       nonEmptyPtr(cfg.Editor),
	}
	if len(cfg.Vaults) > 0 {
		out.Vaults = cfg.Vaults
	}

	policy := nonEmptyPtr(cfg.Privacy.Policy)
	if cfg.Privacy.Enabled || policy != nil {
		p := &persistedPrivacy{Policy: policy}
		if cfg.Privacy.Enabled {
			enabled := true
			p.Enabled = &enabled
		}
		out.Privacy = p
	}

	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUI{Accent: accent, CodeTheme: codeTheme}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
