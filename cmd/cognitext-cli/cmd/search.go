package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cognitext/internal/application/commands"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search note contents",
	Long: `Search the full text of every note in the workspace.

Matches in the snippet are shown in [brackets].

Examples:
  cognitext-cli search kubernetes
  cognitext-cli search "release plan" --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		idx, err := openIndex(ctx)
		if err != nil {
			return err
		}
		defer idx.Close()

		results, err := commands.NewSearchCommand(idx, strings.Join(args, " "), searchLimit).Execute(ctx)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%s  %s\n", relPath(r.Path), r.Title)
			if r.Snippet != "" {
				fmt.Printf("    %s\n", strings.ReplaceAll(r.Snippet, "\n", " "))
			}
		}
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find notes by name",
	Long: `Fuzzy match the query against the paths of every note.

Example:
  cognitext-cli find mtgnotes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matches, err := commands.NewQuickOpenCommand(repo, args[0], searchLimit).Execute(context.Background())
		if err != nil {
			return err
		}

		if len(matches) == 0 {
			fmt.Println("No results found")
			return nil
		}
		for _, m := range matches {
			fmt.Println(m.RelPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(findCmd)
	for _, c := range []*cobra.Command{searchCmd, findCmd} {
		c.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	}
}
