package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/index"
	"github.com/prentissw/charted-roots/internal/ui"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over person notes",
	Long: `Searches person names and note bodies with the vault's full-text
index. Multi-word queries match notes containing every word.

Examples:
  cr search "merchant marine"
  cr search Galveston --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadVault()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}
		db, err := openIndex(v)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		defer db.Close()

		query := strings.Join(args, " ")
		results, err := db.Search(query, searchLimit)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"query":   query,
				"results": formatSearchResults(results),
			}, &Meta{Count: len(results)})
			return nil
		}

		if len(results) == 0 {
			fmt.Printf("No results for: %s\n", query)
			return nil
		}

		fmt.Println(ui.Infof("%d results for: %s", len(results), query))
		fmt.Println()
		for i, r := range results {
			fmt.Printf("%d. %s %s\n", i+1, ui.PersonRef(r.Name), ui.Muted.Render(r.CrID))
			fmt.Printf("   %s\n", ui.FilePath(r.FilePath))
			snippet := strings.TrimSpace(strings.ReplaceAll(r.Snippet, "\n", " "))
			if snippet != "" {
				fmt.Printf("   %s\n", snippet)
			}
			fmt.Println()
		}
		return nil
	},
}

func formatSearchResults(results []index.SearchResult) []map[string]interface{} {
	formatted := make([]map[string]interface{}, len(results))
	for i, r := range results {
		formatted[i] = map[string]interface{}{
			"id":        r.CrID,
			"name":      r.Name,
			"file_path": r.FilePath,
			"snippet":   r.Snippet,
		}
	}
	return formatted
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}
