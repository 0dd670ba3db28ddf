package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cognitext/internal/adapters/gitcli"
	"cognitext/internal/application/commands"
)

var (
	commitMessage string
	logLimit      int
)

func gitRepo() (*gitcli.Repo, error) {
	git := gitcli.NewRepo(repo.Root())
	if !git.IsAvailable() {
		return nil, errors.New("git is not installed")
	}
	return git, nil
}

var gitCmd = &cobra.Command{
	Use:   "git",
	Short: "Version the workspace with git",
}

var gitStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List changed files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		git, err := gitRepo()
		if err != nil {
			return err
		}
		ctx := context.Background()
		if !git.IsRepository(ctx) {
			fmt.Println("Not a git repository, 'git commit' creates one")
			return nil
		}

		status, err := git.Status(ctx)
		if err != nil {
			return err
		}
		if len(status) == 0 {
			fmt.Println("Nothing to commit")
			return nil
		}
		for _, s := range status {
			fmt.Printf("%-3s %s\n", s.Status, s.Path)
		}
		return nil
	},
}

var gitCommitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit every change",
	Long: `Stage and commit every change in the workspace. The repository is
created on first use and a timestamped message is used when none is
given.

Examples:
  cognitext-cli git commit
  cognitext-cli git commit -m "Weekly review"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		git, err := gitRepo()
		if err != nil {
			return err
		}
		result, err := commands.NewCommitCommand(git, commitMessage).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var gitLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent commits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		git, err := gitRepo()
		if err != nil {
			return err
		}
		history, err := git.History(context.Background(), logLimit)
		if err != nil {
			return err
		}
		for _, c := range history {
			fmt.Printf("%s %s %s  %s\n", shortHash(c.Hash), c.Time.Format("2006-01-02 15:04"), c.Author, c.Message)
		}
		return nil
	},
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

func init() {
	rootCmd.AddCommand(gitCmd)
	gitCmd.AddCommand(gitStatusCmd)
	gitCmd.AddCommand(gitCommitCmd)
	gitCmd.AddCommand(gitLogCmd)
	gitCommitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
	gitLogCmd.Flags().IntVarP(&logLimit, "limit", "n", 10, "number of commits")
}
