package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/check"
	"github.com/prentissw/charted-roots/internal/ui"
)

// CheckIssue is one validation finding in JSON output.
type CheckIssue struct {
	Level   string `json:"level"`
	File    string `json:"file"`
	Message string `json:"message"`
}

// CheckSummary is the JSON payload of a validation run.
type CheckSummary struct {
	Errors   int          `json:"errors"`
	Warnings int          `json:"warnings"`
	Issues   []CheckIssue `json:"issues,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the vault",
	Long: `Checks every note for missing or duplicate cr_ids, dangling
relationship references, self-references, asymmetric parent/child links,
dual-storage drift, place-hierarchy cycles, and unresolvable body links.

Exits non-zero when error-level issues are found; warnings alone do not
fail the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadVault()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}

		report := check.Run(v)
		summary := CheckSummary{Errors: report.Errors(), Warnings: report.Warnings()}
		for _, i := range report.Issues {
			summary.Issues = append(summary.Issues, CheckIssue{
				Level:   i.Level.String(),
				File:    i.FilePath,
				Message: i.Message,
			})
		}

		if isJSONOutput() {
			if summary.Errors > 0 {
				outputJSON(Response{OK: false, Data: summary, Error: &ErrorInfo{
					Code:    ErrValidationFailed,
					Message: fmt.Sprintf("%d errors found", summary.Errors),
				}})
				return nil
			}
			outputSuccess(summary, &Meta{Count: len(summary.Issues)})
			return nil
		}

		for _, i := range report.Issues {
			line := fmt.Sprintf("%s: %s", ui.FilePath(i.FilePath), i.Message)
			if i.Level == check.LevelError {
				fmt.Println(ui.Error(line))
			} else {
				fmt.Println(ui.Warning(line))
			}
		}
		if summary.Errors == 0 && summary.Warnings == 0 {
			fmt.Println(ui.Successf("No issues in %d persons, %d places, %d events",
				len(v.Persons), len(v.Places), len(v.Events)))
			return nil
		}
		fmt.Println(ui.Infof("%d errors, %d warnings", summary.Errors, summary.Warnings))
		if summary.Errors > 0 {
			return handleErrorMsg(ErrValidationFailed,
				fmt.Sprintf("%d errors found", summary.Errors), "Run cr sync to repair drift issues")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
