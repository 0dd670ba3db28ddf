package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cognitext/internal/adapters/reveal"
)

var openDefault bool

var revealCmd = &cobra.Command{
	Use:   "reveal <path>",
	Short: "Show a file in the system file manager",
	Long: `Open the folder containing a file in the system file manager, or
with --open the file itself in its default application.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}
		opener := reveal.NewOpener()
		if openDefault {
			return opener.OpenDefault(path)
		}
		return opener.Reveal(path)
	},
}

var imageCmd = &cobra.Command{
	Use:   "image <note> <image-file>",
	Short: "Add an image to a note",
	Long: `Copy an image next to a note as configured by the image settings and
append a markdown link to it.

Example:
  cognitext-cli image Journal/today.md ~/Pictures/whiteboard.png`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := resolvePath(args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		link, err := repo.SaveImage(note, filepath.Base(args[1]), data, settings.Image)
		if err != nil {
			return err
		}

		content, err := repo.ReadFile(note)
		if err != nil {
			return err
		}
		markup := fmt.Sprintf("![%s](%s)\n", filepath.Base(args[1]), link)
		if content != "" && content[len(content)-1] != '\n' {
			markup = "\n" + markup
		}
		if err := repo.WriteFile(note, content+markup); err != nil {
			return err
		}
		fmt.Println(link)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revealCmd)
	rootCmd.AddCommand(imageCmd)
	revealCmd.Flags().BoolVar(&openDefault, "open", false, "open the file itself")
}
