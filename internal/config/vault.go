package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// VaultConfig is the per-vault configuration stored at
// <vault>/.roots/config.toml. Everything in it is optional.
type VaultConfig struct {
	// PeopleDir, PlacesDir, and EventsDir are vault-relative directories
	// used when creating notes on import. Empty falls back to the standard
	// layout (people/, places/, events/).
	PeopleDir string `toml:"people_dir"`
	PlacesDir string `toml:"places_dir"`
	EventsDir string `toml:"events_dir"`

	// Privacy overrides the global privacy settings for this vault.
	Privacy *PrivacyConfig `toml:"privacy"`
}

// VaultConfigPath returns the per-vault config path.
func VaultConfigPath(vaultPath string) string {
	return filepath.Join(vaultPath, ".roots", "config.toml")
}

// LoadVaultConfig loads the per-vault configuration. A missing file is not
// an error; defaults apply.
func LoadVaultConfig(vaultPath string) (*VaultConfig, error) {
	path := VaultConfigPath(vaultPath)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &VaultConfig{}, nil
	}
	var vc VaultConfig
	if _, err := toml.DecodeFile(path, &vc); err != nil {
		return nil, fmt.Errorf("failed to parse vault config %s: %w", path, err)
	}
	return &vc, nil
}

// EffectivePeopleDir returns the directory for new person notes.
func (vc *VaultConfig) EffectivePeopleDir() string {
	if vc.PeopleDir != "" {
		return vc.PeopleDir
	}
	return "people"
}

// EffectivePrivacy merges vault-level privacy over the global settings.
func (c *Config) EffectivePrivacy(vc *VaultConfig) PrivacyConfig {
	if vc != nil && vc.Privacy != nil {
		return *vc.Privacy
	}
	return c.Privacy
}
