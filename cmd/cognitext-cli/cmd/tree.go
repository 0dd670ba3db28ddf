package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cognitext/internal/application/commands"
	"cognitext/internal/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the workspace tree",
	Long: `Display every folder and file of the workspace. Hidden entries are
left out.

Example:
  cognitext-cli tree`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := commands.NewExpandAllCommand(repo).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(repo.Root())
		for _, child := range root.Children {
			printTree(child, 1)
		}
		return nil
	},
}

func printTree(node *domain.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	name := node.Name
	if node.IsDir() {
		name += "/"
	}
	fmt.Printf("%s%s\n", indent, name)

	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
