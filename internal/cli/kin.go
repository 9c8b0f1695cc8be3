package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/ui"
)

// KinStep is one hop of a relationship path in JSON output.
type KinStep struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// KinResult is the JSON payload of a kinship query.
type KinResult struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	Kinship  string    `json:"kinship"`
	Distance int       `json:"distance"`
	Path     []KinStep `json:"path"`
}

var kinCmd = &cobra.Command{
	Use:   "kin <person> <person>",
	Short: "Describe how two people are related",
	Long: `Finds the shortest relationship path between two people and names
the kinship where a standard term exists (sister, great-grandfather,
second cousin once removed). People can be given by cr_id, note name, or
an unambiguous name prefix.

Examples:
  cr kin "Harold Prentiss" "June Prentiss"
  cr kin p-harold p-sam`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadVault()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}

		fromID, err := resolvePersonID(v, args[0])
		if err != nil {
			return handleError(ErrPersonNotFound, err, "")
		}
		toID, err := resolvePersonID(v, args[1])
		if err != nil {
			return handleError(ErrPersonNotFound, err, "")
		}

		g := buildGraph(v)
		path := g.Path(fromID, toID)
		if path == nil {
			return handleErrorMsg(ErrPersonNotFound,
				fmt.Sprintf("no relationship path between %s and %s", args[0], args[1]), "")
		}

		result := KinResult{
			From:     fromID,
			To:       toID,
			Kinship:  g.Kinship(path),
			Distance: len(path),
		}
		for _, s := range path {
			name := s.ID
			if p, ok := g.Person(s.ID); ok {
				name = p.Name
			}
			result.Path = append(result.Path, KinStep{ID: s.ID, Name: name, Relation: string(s.Rel)})
		}

		if isJSONOutput() {
			outputSuccess(result, &Meta{Count: result.Distance})
			return nil
		}

		fromName, toName := args[0], args[1]
		if p, ok := g.Person(fromID); ok {
			fromName = p.Name
		}
		if p, ok := g.Person(toID); ok {
			toName = p.Name
		}
		fmt.Println(ui.Header(fmt.Sprintf("%s is the %s of %s", toName, result.Kinship, fromName)))
		current := fromName
		for _, s := range result.Path {
			fmt.Printf("  %s %s %s\n", s.Name, ui.Muted.Render(s.Relation+" of"), current)
			current = s.Name
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kinCmd)
}
