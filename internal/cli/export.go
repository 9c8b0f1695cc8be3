package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/audit"
	"github.com/prentissw/charted-roots/internal/config"
	"github.com/prentissw/charted-roots/internal/gedcom"
	"github.com/prentissw/charted-roots/internal/gramps"
	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/ui"
)

var (
	exportFormat  string
	exportPrivacy bool
	exportPolicy  string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the vault as Gramps XML or GEDCOM",
	Long: `Builds the family graph from the vault and writes it out in an
interchange format. The format is inferred from the output file's
extension unless --format is given.

With --privacy, living persons are obfuscated (or excluded entirely
with --policy exclude, along with every person whose record would
otherwise reveal them).

Examples:
  cr export family.ged
  cr export backup.gramps --privacy
  cr export shared.ged --privacy --policy exclude`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		format, err := importExportFormat(exportFormat, path)
		if err != nil {
			return handleError(ErrFormatUnsupported, err, "Use --format gramps or --format gedcom")
		}

		v, err := loadVault()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}
		g := buildGraph(v)

		privacy, policy, err := exportPrivacySettings()
		if err != nil {
			return handleError(ErrInvalidValue, err, "Valid policies are obfuscate and exclude")
		}

		var (
			out      []byte
			warnings []string
		)
		switch format {
		case "gramps":
			out, warnings, err = gramps.Export(g, gramps.ExportOptions{Privacy: privacy, Policy: policy})
		case "gedcom":
			out, warnings, err = gedcom.Export(g, gedcom.ExportOptions{Privacy: privacy, Policy: policy})
		}
		if err != nil {
			return handleError(ErrExportFailed, err, "")
		}

		if err := os.WriteFile(path, out, 0o644); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if err := audit.Open(getVaultPath()).Append(audit.Entry{
			Operation: "export",
			Count:     len(g.Persons()),
			Source:    path,
		}); err != nil {
			warnings = append(warnings, fmt.Sprintf("journal: %v", err))
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"format":  format,
				"file":    path,
				"persons": len(g.Persons()),
				"privacy": privacy,
			}, warningsFrom(WarnExportDropped, warnings), nil)
			return nil
		}

		fmt.Println(ui.Successf("Exported %d persons to %s", len(g.Persons()), ui.FilePath(path)))
		for _, w := range warnings {
			fmt.Println(ui.Warning(w))
		}
		return nil
	},
}

// exportPrivacySettings merges the --privacy/--policy flags with the global
// and per-vault config. Flags win when set.
func exportPrivacySettings() (bool, model.PrivacyPolicy, error) {
	cfg := getConfig()
	vc, err := config.LoadVaultConfig(getVaultPath())
	if err != nil {
		return false, "", err
	}
	eff := cfg.EffectivePrivacy(vc)

	privacy := eff.Enabled || exportPrivacy
	policy := cfg.PrivacyPolicy()
	switch exportPolicy {
	case "":
		if eff.Policy == "exclude" {
			policy = model.PolicyExclude
		}
	case "obfuscate":
		policy = model.PolicyObfuscate
	case "exclude":
		policy = model.PolicyExclude
	default:
		return false, "", fmt.Errorf("unknown privacy policy %q", exportPolicy)
	}
	if exportPolicy != "" {
		privacy = true
	}
	return privacy, policy, nil
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: gramps or gedcom (inferred from extension)")
	exportCmd.Flags().BoolVar(&exportPrivacy, "privacy", false, "Obfuscate or exclude living persons")
	exportCmd.Flags().StringVar(&exportPolicy, "policy", "", "Privacy policy: obfuscate or exclude (implies --privacy)")
	rootCmd.AddCommand(exportCmd)
}
