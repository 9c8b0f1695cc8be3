// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/config"
	"github.com/prentissw/charted-roots/internal/ui"
)

var (
	// Global flags
	vaultName     string // Named vault from config
	vaultPathFlag string // Explicit path
	configPath    string

	// Resolved values
	resolvedVaultPath string
	cfg               *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cr",
	Short: "Charted Roots - genealogy on plain markdown",
	Long: `Charted Roots builds family graphs from a vault of markdown notes.

Each person, place, and event is a markdown file with YAML frontmatter.
Relationships are stored twice - as wikilinks for navigation and as stable
ids that survive renames - and the sync command keeps the two in step.
Import and export speak Gramps XML and GEDCOM 5.5.1.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that work without a vault.
		switch cmd.Name() {
		case "init", "vaults", "completion", "help", "version", "docs":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.SetCodeTheme(cfg.UI.CodeTheme)

		// Resolve vault path: explicit path > named vault > default.
		if vaultPathFlag != "" {
			resolvedVaultPath = vaultPathFlag
		} else if vaultName != "" {
			resolvedVaultPath, err = cfg.GetVaultPath(vaultName)
			if err != nil {
				return fmt.Errorf("vault '%s' not found\n\nRun 'cr vaults' to see configured vaults", vaultName)
			}
		} else {
			resolvedVaultPath, err = cfg.GetVaultPath("")
			if err != nil {
				return fmt.Errorf(`no vault specified

Either:
  1. Use --vault <name> (from config)
  2. Use --vault-path /path/to/vault
  3. Set default_vault in ~/.config/charted-roots/config.toml
  4. Run 'cr init /path/to/new/vault' to create one`)
			}
		}

		if _, err := os.Stat(resolvedVaultPath); os.IsNotExist(err) {
			return fmt.Errorf("vault not found: %s\n\nRun 'cr init %s' to create it", resolvedVaultPath, resolvedVaultPath)
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&vaultName, "vault", "v", "", "Named vault from config")
	rootCmd.PersistentFlags().StringVar(&vaultPathFlag, "vault-path", "", "Explicit path to vault directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getVaultPath returns the resolved vault path.
func getVaultPath() string {
	return resolvedVaultPath
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

func loadGlobalConfig() (*config.Config, error) {
	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}
	return loadedCfg, nil
}
