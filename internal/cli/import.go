package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/audit"
	"github.com/prentissw/charted-roots/internal/config"
	"github.com/prentissw/charted-roots/internal/gedcom"
	"github.com/prentissw/charted-roots/internal/gramps"
	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/note"
	"github.com/prentissw/charted-roots/internal/storage"
	"github.com/prentissw/charted-roots/internal/ui"
)

var (
	importFormat string
	importDryRun bool
)

// ImportSummary is the JSON payload of a completed import.
type ImportSummary struct {
	Format   string   `json:"format"`
	Persons  int      `json:"persons"`
	Created  int      `json:"created"`
	Skipped  int      `json:"skipped"`
	DryRun   bool     `json:"dry_run"`
	Warnings []string `json:"warnings,omitempty"`
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a Gramps XML or GEDCOM file into the vault",
	Long: `Parses a genealogy interchange file and creates one person note per
individual. Relationship fields are written id-first; a sync pass then
fills in the wikilinks and mirror references.

The format is inferred from the file extension (.gramps, .xml, .ged)
unless --format is given.

Examples:
  cr import family.ged
  cr import export.gramps --dry-run
  cr import data.xml --format gramps`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		format, err := importExportFormat(importFormat, path)
		if err != nil {
			return handleError(ErrFormatUnsupported, err, "Use --format gramps or --format gedcom")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}

		persons, warnings, parseErrs, err := parseImport(format, data)
		if err != nil {
			return handleError(ErrParseFailed, err, "")
		}
		if len(parseErrs) > 0 {
			// Nothing is committed; the complete error list goes to the
			// caller for review.
			msg := fmt.Sprintf("%d validation errors in %s", len(parseErrs), filepath.Base(path))
			if isJSONOutput() {
				outputError(ErrValidationFailed, msg, parseErrs, "")
				return nil
			}
			for _, e := range parseErrs {
				fmt.Println(ui.Error(e))
			}
			return handleErrorMsg(ErrValidationFailed, msg, "")
		}

		v, err := loadVault()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}
		vc, err := config.LoadVaultConfig(getVaultPath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		summary := ImportSummary{
			Format:   format,
			Persons:  len(persons),
			DryRun:   importDryRun,
			Warnings: warnings,
		}

		var created []string
		for _, p := range persons {
			if v.PersonByID(p.CrID) != nil {
				summary.Skipped++
				summary.Warnings = append(summary.Warnings,
					fmt.Sprintf("person %s already in vault, skipped", p.CrID))
				continue
			}
			if importDryRun {
				summary.Created++
				continue
			}
			if _, err := v.CreatePerson(vc.EffectivePeopleDir(), note.FromPerson(p)); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
			created = append(created, p.CrID)
			summary.Created++
		}

		if !importDryRun && summary.Created > 0 {
			// Fill in wikilinks and mirror references for the new notes.
			plan := storage.Sync(v.Persons)
			if _, err := v.Apply(plan); err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
			summary.Warnings = append(summary.Warnings, plan.Warnings...)

			db, err := openIndex(v)
			if err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
			db.Close()

			if err := audit.Open(getVaultPath()).Append(audit.Entry{
				Operation: "import",
				Count:     summary.Created,
				Source:    path,
				IDs:       created,
			}); err != nil {
				summary.Warnings = append(summary.Warnings, fmt.Sprintf("journal: %v", err))
			}
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(summary, warningsFrom(WarnImportIssue, summary.Warnings), &Meta{Count: summary.Created})
			return nil
		}

		if importDryRun {
			fmt.Println(ui.Infof("Dry run: %d of %d persons would be created (%d already present)",
				summary.Created, summary.Persons, summary.Skipped))
		} else {
			fmt.Println(ui.Successf("Imported %d of %d persons (%d already present)",
				summary.Created, summary.Persons, summary.Skipped))
		}
		for _, w := range summary.Warnings {
			fmt.Println(ui.Warning(w))
		}
		return nil
	},
}

// importExportFormat resolves the format flag or infers it from the file
// extension.
func importExportFormat(flag, path string) (string, error) {
	switch strings.ToLower(flag) {
	case "gramps", "gedcom":
		return strings.ToLower(flag), nil
	case "":
	default:
		return "", fmt.Errorf("unsupported format %q", flag)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gramps", ".xml":
		return "gramps", nil
	case ".ged", ".gedcom":
		return "gedcom", nil
	}
	return "", fmt.Errorf("cannot infer format from %q", filepath.Base(path))
}

// parseImport runs the format's importer. Structural failures are fatal.
// Accumulated validation errors are returned as a complete list so the
// caller can surface every problem at once; warnings and resolution notes
// are carried through to the summary.
func parseImport(format string, data []byte) (persons []*model.Person, warnings, errs []string, err error) {
	switch format {
	case "gramps":
		res, err := gramps.Import(data)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, e := range res.Diagnostics.Errors {
			errs = append(errs, e.String())
		}
		for _, w := range res.Diagnostics.Warnings {
			warnings = append(warnings, w.String())
		}
		warnings = append(warnings, res.Resolution.Warnings...)
		return res.Persons, warnings, errs, nil
	case "gedcom":
		res, err := gedcom.Import(data)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, e := range res.Diagnostics.Errors {
			errs = append(errs, e.String())
		}
		for _, w := range res.Diagnostics.Warnings {
			warnings = append(warnings, w.String())
		}
		warnings = append(warnings, res.Resolution.Warnings...)
		return res.Persons, warnings, errs, nil
	}
	return nil, nil, nil, fmt.Errorf("unsupported format %q", format)
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "Input format: gramps or gedcom (inferred from extension)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and report without writing notes")
	rootCmd.AddCommand(importCmd)
}
