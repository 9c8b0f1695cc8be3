package cli

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/prentissw/charted-roots/docs"
	"github.com/prentissw/charted-roots/internal/ui"
)

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Browse bundled documentation",
	Long: `Browse long-form documentation bundled into the cr binary.

Without arguments, lists the available topics. For command-level usage,
use 'cr help <command>'.

Examples:
  cr docs
  cr docs notes
  cr docs formats`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := listDocTopics()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if len(args) == 0 {
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{"topics": topics}, &Meta{Count: len(topics)})
				return nil
			}
			fmt.Println(ui.Header("Topics"))
			for _, t := range topics {
				fmt.Printf("  %s\n", t)
			}
			fmt.Println()
			fmt.Println(ui.Hint("cr docs <topic> to read one"))
			return nil
		}

		topic := strings.TrimSuffix(args[0], ".md")
		content, err := fs.ReadFile(builtindocs.FS, "topics/"+topic+".md")
		if err != nil {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("no topic %q", topic),
				"Run 'cr docs' to list topics")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"topic": topic, "content": string(content)}, nil)
			return nil
		}

		d := ui.NewDisplayContext()
		rendered, err := ui.RenderMarkdown(string(content), d.AvailableWidth(0))
		if err != nil {
			fmt.Print(string(content))
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func listDocTopics() ([]string, error) {
	entries, err := fs.ReadDir(builtindocs.FS, "topics")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		topics = append(topics, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(topics)
	return topics, nil
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
