package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/audit"
	"github.com/prentissw/charted-roots/internal/storage"
	"github.com/prentissw/charted-roots/internal/ui"
)

var syncDryRun bool

// SyncSummary is the JSON payload of a sync run.
type SyncSummary struct {
	Changed  int          `json:"changed"`
	DryRun   bool         `json:"dry_run"`
	Changes  []SyncChange `json:"changes,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// SyncChange lists the fields a sync run patched (or would patch) in one
// note.
type SyncChange struct {
	Path   string   `json:"path"`
	Fields []string `json:"fields"`
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Repair dual-storage drift across the vault",
	Long: `Recomputes every relationship wikilink from its cr_id field, makes
spouse arrays symmetric, and rebuilds children lists from the children's
own parent references. With --dry-run the plan is printed without
touching any file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadVault()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}

		plan := storage.Sync(v.Persons)
		summary := SyncSummary{DryRun: syncDryRun, Warnings: plan.Warnings}
		for _, c := range plan.Changes {
			fields := make([]string, 0, len(c.Fields))
			for f := range c.Fields {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			summary.Changes = append(summary.Changes, SyncChange{Path: c.Path, Fields: fields})
		}

		if syncDryRun {
			summary.Changed = len(plan.Changes)
		} else {
			written, err := v.Apply(plan)
			if err != nil {
				return handleError(ErrFileWriteError, err, "")
			}
			summary.Changed = written

			db, err := openIndex(v)
			if err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
			db.Close()

			if written > 0 {
				if err := audit.Open(getVaultPath()).Append(audit.Entry{
					Operation: "sync",
					Count:     written,
				}); err != nil {
					summary.Warnings = append(summary.Warnings, fmt.Sprintf("journal: %v", err))
				}
			}
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(summary, warningsFrom(WarnSyncIssue, summary.Warnings), &Meta{Count: summary.Changed})
			return nil
		}

		if plan.Empty() {
			fmt.Println(ui.Success("Vault is already in sync"))
		} else if syncDryRun {
			fmt.Println(ui.Infof("%d notes would change:", len(summary.Changes)))
			for _, c := range summary.Changes {
				fmt.Printf("  %s  %v\n", ui.FilePath(c.Path), c.Fields)
			}
		} else {
			fmt.Println(ui.Successf("Synced %d notes", summary.Changed))
		}
		for _, w := range summary.Warnings {
			fmt.Println(ui.Warning(w))
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print the plan without writing")
	rootCmd.AddCommand(syncCmd)
}
