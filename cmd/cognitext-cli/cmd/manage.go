package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cognitext/internal/application/commands"
)

var renameCmd = &cobra.Command{
	Use:   "rename <path> <new-name>",
	Short: "Rename a note or folder",
	Long: `Rename a note or folder in place. Notes keep their extension when the
new name has none.

Example:
  cognitext-cli rename Inbox/draft.md "Release plan"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}

		index, closeIndex := indexOrNil(ctx)
		defer closeIndex()

		result, err := commands.NewRenameCommand(repo, index, path, args[1]).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <path> <dest-folder>",
	Short: "Move a note or folder",
	Long: `Move a note or folder into another folder of the workspace. Use "."
for the workspace root.

Examples:
  cognitext-cli move Inbox/draft.md Projects
  cognitext-cli move Projects/Old .`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		source, err := resolvePath(args[0])
		if err != nil {
			return err
		}
		dest, err := resolvePath(args[1])
		if err != nil {
			return err
		}

		index, closeIndex := indexOrNil(ctx)
		defer closeIndex()

		result, err := commands.NewMoveCommand(repo, index, source, dest).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete a note or folder",
	Long: `Delete a note or folder from the workspace.

Warning: This operation cannot be undone. Deleting a folder also
deletes everything inside it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}

		index, closeIndex := indexOrNil(ctx)
		defer closeIndex()

		result, err := commands.NewDeleteCommand(repo, index, path).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(deleteCmd)
}
