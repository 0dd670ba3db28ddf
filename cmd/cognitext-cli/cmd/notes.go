package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cognitext/internal/adapters/editor"
	"cognitext/internal/application/commands"
)

var (
	parentDir string
	stdinBody bool
)

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}
		content, err := repo.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a note",
	Long: `Create a markdown note. The .md extension is added when missing and
the note starts with a heading of its name.

Examples:
  cognitext-cli new "Meeting notes"
  cognitext-cli new ideas --in Projects
  echo "- buy milk" | cognitext-cli new todo --stdin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		dir, err := resolvePath(parentDir)
		if err != nil {
			return err
		}

		index, closeIndex := indexOrNil(ctx)
		defer closeIndex()

		result, err := commands.NewCreateNoteCommand(repo, index, dir, args[0]).Execute(ctx)
		if err != nil {
			return err
		}

		if stdinBody {
			body, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			if err := repo.WriteFile(result.Path, string(body)); err != nil {
				return err
			}
			if index != nil {
				if err := index.Reindex(result.Path); err != nil {
					log.Warn("failed to index note", zap.Error(err))
				}
			}
		}
		fmt.Println(result.Message)
		return nil
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolvePath(parentDir)
		if err != nil {
			return err
		}
		result, err := commands.NewCreateFolderCommand(repo, dir, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <path>",
	Short: "Open a note in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}
		if err := editor.NewOpener().OpenFile(path); err != nil {
			return err
		}

		index, closeIndex := indexOrNil(context.Background())
		defer closeIndex()
		if index != nil {
			return index.Reindex(path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(editCmd)

	for _, c := range []*cobra.Command{newCmd, mkdirCmd} {
		c.Flags().StringVar(&parentDir, "in", "", "folder to create in, relative to the workspace")
	}
	newCmd.Flags().BoolVar(&stdinBody, "stdin", false, "read the note content from stdin")
}
