package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prentissw/charted-roots/internal/graph"
	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/ui"
)

var (
	treeDepth       int
	treeDescendants bool
)

// TreeNode is one person in a rendered tree, in JSON output.
type TreeNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Lifespan string     `json:"lifespan,omitempty"`
	Children []TreeNode `json:"children,omitempty"`
}

var treeCmd = &cobra.Command{
	Use:   "tree <person>",
	Short: "Show a person's ancestor or descendant tree",
	Long: `Renders the ancestor tree of a person (or the descendant tree with
--descendants), walking parent or child edges up to --depth generations.
Cycles in the data are cut rather than followed.

Examples:
  cr tree "Harold Prentiss"
  cr tree p-sam --descendants --depth 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadVault()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}
		id, err := resolvePersonID(v, args[0])
		if err != nil {
			return handleError(ErrPersonNotFound, err, "")
		}

		g := buildGraph(v)
		seen := map[string]bool{}
		root := buildTree(g, id, treeDepth, treeDescendants, seen)

		if isJSONOutput() {
			outputSuccess(root, &Meta{Count: len(seen)})
			return nil
		}

		direction := "Ancestors"
		if treeDescendants {
			direction = "Descendants"
		}
		fmt.Println(ui.Header(fmt.Sprintf("%s of %s", direction, root.Name)))
		fmt.Println(treeLabel(root))
		for i, c := range root.Children {
			printBranch(c, "", i == len(root.Children)-1)
		}
		return nil
	},
}

// buildTree walks parent edges (or child edges when descendants is true)
// breadth-limited by depth. seen cuts cycles and doubles as a node count.
func buildTree(g *graph.Graph, id string, depth int, descendants bool, seen map[string]bool) TreeNode {
	node := TreeNode{ID: id, Name: id}
	if p, ok := g.Person(id); ok {
		node.Name = p.Name
		node.Lifespan = lifespan(p)
	}
	if seen[id] || depth == 0 {
		return node
	}
	seen[id] = true

	var next []string
	if descendants {
		next = g.ChildrenOf(id)
	} else if p, ok := g.Person(id); ok {
		next = p.ParentIDs()
	}
	for _, n := range next {
		if _, ok := g.Person(n); !ok {
			continue
		}
		node.Children = append(node.Children, buildTree(g, n, depth-1, descendants, seen))
	}
	return node
}

// lifespan formats "1890–1964", "1890–", or "" when no dates are known.
func lifespan(p *model.Person) string {
	birth := yearOf(p.BirthDate)
	death := yearOf(p.DeathDate)
	if birth == "" && death == "" {
		return ""
	}
	return birth + "–" + death
}

func yearOf(date string) string {
	date = strings.TrimSpace(date)
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}

func treeLabel(node TreeNode) string {
	label := node.Name
	if node.Lifespan != "" {
		label += " " + ui.Muted.Render("("+node.Lifespan+")")
	}
	return label
}

func printBranch(node TreeNode, prefix string, last bool) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if last {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	fmt.Println(prefix + connector + treeLabel(node))
	for i, c := range node.Children {
		printBranch(c, childPrefix, i == len(node.Children)-1)
	}
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 4, "Generations to walk")
	treeCmd.Flags().BoolVar(&treeDescendants, "descendants", false, "Walk child edges instead of parent edges")
	rootCmd.AddCommand(treeCmd)
}
