package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/ui"
)

// StatsResult is the JSON payload of a stats query.
type StatsResult struct {
	Persons         int         `json:"persons"`
	Places          int         `json:"places"`
	Events          int         `json:"events"`
	ParentLinks     int         `json:"parent_links"`
	SpouseLinks     int         `json:"spouse_links"`
	Living          int         `json:"living"`
	ByResearchLevel map[int]int `json:"by_research_level,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vault statistics",
	Long: `Displays counts of persons, places, events, and relationship links,
plus the research-level distribution.

Examples:
  cr stats
  cr stats --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		v, err := loadVault()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}
		db, err := openIndex(v)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		stats, err := db.VaultStats()
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccess(StatsResult{
				Persons:         stats.Persons,
				Places:          stats.Places,
				Events:          stats.Events,
				ParentLinks:     stats.ParentLinks,
				SpouseLinks:     stats.SpouseLinks,
				Living:          stats.Living,
				ByResearchLevel: stats.ByResearchLevel,
			}, &Meta{QueryTimeMs: elapsed})
			return nil
		}

		fmt.Println(ui.Header("Vault Statistics"))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Persons:     "), ui.Accent.Render(fmt.Sprintf("%d", stats.Persons)))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Places:      "), ui.Accent.Render(fmt.Sprintf("%d", stats.Places)))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Events:      "), ui.Accent.Render(fmt.Sprintf("%d", stats.Events)))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Parent links:"), ui.Accent.Render(fmt.Sprintf("%d", stats.ParentLinks)))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Spouse links:"), ui.Accent.Render(fmt.Sprintf("%d", stats.SpouseLinks)))
		fmt.Printf("%s  %s\n", ui.Muted.Render("Living:      "), ui.Accent.Render(fmt.Sprintf("%d", stats.Living)))

		if len(stats.ByResearchLevel) > 0 {
			fmt.Println()
			fmt.Println(ui.Header("Research Levels"))
			for level := 0; level <= int(model.MaxResearchLevel); level++ {
				if n, ok := stats.ByResearchLevel[level]; ok {
					fmt.Printf("%s  %s\n", ui.Muted.Render(fmt.Sprintf("Level %d:", level)), ui.Accent.Render(fmt.Sprintf("%d", n)))
				}
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
