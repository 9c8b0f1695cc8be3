package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Initialize a new vault",
	Long: `Creates a new vault at the specified path.

Creates:
  - people/, places/, events/  (note directories)
  - .roots/                    (index and vault configuration)
  - .roots/config.toml         (per-vault settings)
  - .gitignore                 (ignores derived files)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if err := os.MkdirAll(path, 0o755); err != nil {
			return handleError(ErrFileWriteError, fmt.Errorf("failed to create vault directory: %w", err), "")
		}
		for _, sub := range []string{"people", "places", "events", ".roots"} {
			if err := os.MkdirAll(filepath.Join(path, sub), 0o755); err != nil {
				return handleError(ErrFileWriteError, fmt.Errorf("failed to create %s directory: %w", sub, err), "")
			}
		}
		rootsDir := filepath.Join(path, ".roots")

		vaultConfigPath := filepath.Join(rootsDir, "config.toml")
		if _, err := os.Stat(vaultConfigPath); os.IsNotExist(err) {
			content := `# Charted Roots vault configuration

# Vault-relative directories for notes created on import.
people_dir = "people"
places_dir = "places"
events_dir = "events"

# Override the global privacy settings for this vault.
# [privacy]
# enabled = true
# policy = "obfuscate"
`
			if err := os.WriteFile(vaultConfigPath, []byte(content), 0o644); err != nil {
				return handleError(ErrFileWriteError, fmt.Errorf("failed to write vault config: %w", err), "")
			}
		}

		gitignoreStatus, err := ensureGitignore(path)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{
				"vault_path": path,
				"gitignore":  gitignoreStatus,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Initialized vault at %s", path))
		fmt.Println(ui.Hint("Add person notes (type: person frontmatter) or run 'cr import' to get started"))
		return nil
	},
}

// ensureGitignore adds the derived-file entries, preserving any existing
// content. Returns "created", "updated", or "unchanged".
func ensureGitignore(vaultPath string) (string, error) {
	gitignorePath := filepath.Join(vaultPath, ".gitignore")
	entries := []string{".roots/", ".trash/"}

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}

	var missing []string
	for _, entry := range entries {
		if !strings.Contains(existing, entry) {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return "unchanged", nil
	}

	var content string
	status := "updated"
	if existing == "" {
		status = "created"
		content = `# Charted Roots derived files - the markdown is the source of truth

# Index database (rebuilt automatically)
.roots/

# Trashed files
.trash/
`
	} else {
		content = strings.TrimRight(existing, "\n") + "\n\n# Charted Roots\n"
		for _, entry := range missing {
			content += entry + "\n"
		}
	}

	if err := os.WriteFile(gitignorePath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return status, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
