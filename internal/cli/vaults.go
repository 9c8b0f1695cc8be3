package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var vaultsCmd = &cobra.Command{
	Use:   "vaults",
	Short: "List configured vaults",
	Long: `Lists all vaults configured in ~/.config/charted-roots/config.toml.

Example config:
  default_vault = "family"

  [vaults]
  family = "/home/you/genealogy"
  research = "/home/you/research-vault"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// This command skips the vault-resolving PreRun, so load the
		// config directly.
		loadedCfg, err := loadGlobalConfig()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		vaults := loadedCfg.ListVaults()

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"default": loadedCfg.DefaultVault,
				"vaults":  vaults,
			}, &Meta{Count: len(vaults)})
			return nil
		}

		if len(vaults) == 0 {
			fmt.Println("No vaults configured.")
			fmt.Println()
			fmt.Println("Add vaults to ~/.config/charted-roots/config.toml:")
			fmt.Println()
			fmt.Println("  default_vault = \"family\"")
			fmt.Println()
			fmt.Println("  [vaults]")
			fmt.Println("  family = \"/path/to/your/vault\"")
			return nil
		}

		names := make([]string, 0, len(vaults))
		for name := range vaults {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			marker := "  "
			if name == loadedCfg.DefaultVault {
				marker = "* "
			}
			fmt.Printf("%s%-12s %s\n", marker, name, vaults[name])
		}

		if loadedCfg.DefaultVault != "" {
			fmt.Println()
			fmt.Println("* = default vault")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(vaultsCmd)
}
