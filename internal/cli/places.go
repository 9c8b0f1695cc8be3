package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/places"
	"github.com/prentissw/charted-roots/internal/ui"
)

// PlaceNode is one place in the rendered hierarchy, in JSON output.
type PlaceNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     string      `json:"type,omitempty"`
	FullName string      `json:"full_name"`
	Children []PlaceNode `json:"children,omitempty"`
}

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Show the place hierarchy",
	Long: `Renders the vault's places as a tree, following parent links.
Places whose parent link does not resolve appear as roots.

Examples:
  cr places
  cr places --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadVault()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}

		h := places.NewHierarchy(v.PlaceModels())
		var roots []PlaceNode
		for _, id := range h.Roots() {
			roots = append(roots, buildPlaceNode(h, id))
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"places": roots}, &Meta{Count: len(h.Places())})
			return nil
		}

		if len(roots) == 0 {
			fmt.Println("No places in vault.")
			return nil
		}
		fmt.Println(ui.Header("Places"))
		for _, r := range roots {
			printPlace(r, 0)
		}
		return nil
	},
}

func buildPlaceNode(h *places.Hierarchy, id string) PlaceNode {
	node := PlaceNode{ID: id, FullName: h.FullName(id)}
	if p, ok := h.Place(id); ok {
		node.Name = p.Name
		node.Type = string(p.Type)
	}
	for _, child := range h.ChildrenOf(id) {
		node.Children = append(node.Children, buildPlaceNode(h, child))
	}
	return node
}

func printPlace(node PlaceNode, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	line := indent + node.Name
	if node.Type != "" {
		line += " " + ui.Muted.Render("("+node.Type+")")
	}
	fmt.Println(line)
	for _, c := range node.Children {
		printPlace(c, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(placesCmd)
}
