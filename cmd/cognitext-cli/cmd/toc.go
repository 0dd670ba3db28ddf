package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cognitext/internal/adapters/markdown"
	"cognitext/internal/application/commands"
)

var tocCmd = &cobra.Command{
	Use:   "toc <path>",
	Short: "Print the outline of a note",
	Long: `Print the headings of a note as an indented outline. A heading that
skips levels is placed under the closest shallower heading.

Example:
  cognitext-cli toc Projects/Plan.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}

		result, err := commands.NewTOCCommand(repo, markdown.NewParser(), path).Execute(context.Background())
		if err != nil {
			return err
		}

		if len(result.Lines) == 0 {
			fmt.Println("No headings")
			return nil
		}
		for _, line := range result.Lines {
			fmt.Printf("%s- %s\n", strings.Repeat("  ", line.Depth), line.Entry.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tocCmd)
}
