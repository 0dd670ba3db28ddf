package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"cognitext/internal/adapters/chatprovider"
	"cognitext/internal/adapters/markdown"
	"cognitext/internal/application"
)

var (
	chatWrite    bool
	chatThinking bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Write with the configured chat model",
}

var chatContinueCmd = &cobra.Command{
	Use:   "continue <path>",
	Short: "Continue writing a note",
	Long: `Stream a continuation of a note from the chat model configured in the
settings. The text is printed as it arrives; with --write it is also
appended to the note and saved. Press ctrl+c to stop, which leaves the
note unchanged.

Examples:
  cognitext-cli chat continue Journal/today.md
  cognitext-cli chat continue draft.md --write`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		session := application.NewSession(application.SessionConfig{
			SettingsStore: settingsStore,
			Repo:          repo,
			Parser:        markdown.NewParser(),
			NewProvider:   chatprovider.New,
			Logger:        log,
		})
		if _, err := session.Start(ctx); err != nil {
			return err
		}
		defer session.Close()

		if _, err := session.Tabs.Open(path); err != nil {
			return err
		}

		var printed, printedThinking int
		generated, err := session.Chat.ContinueActive(ctx, func(p application.ChatProgress) {
			if chatThinking && len(p.Thinking) > printedThinking {
				fmt.Fprint(os.Stderr, p.Thinking[printedThinking:])
				printedThinking = len(p.Thinking)
			}
			if len(p.Content) > printed {
				fmt.Print(p.Content[printed:])
				printed = len(p.Content)
			}
		})
		if printed > 0 && !strings.HasSuffix(generated, "\n") {
			fmt.Println()
		}
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("stopped, %s was left unchanged", relPath(path))
			}
			return err
		}

		if !chatWrite || generated == "" {
			return nil
		}
		if err := session.Tabs.SaveActive(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Appended to %s\n", relPath(path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.AddCommand(chatContinueCmd)
	chatContinueCmd.Flags().BoolVarP(&chatWrite, "write", "w", false, "append the text to the note and save it")
	chatContinueCmd.Flags().BoolVar(&chatThinking, "thinking", false, "print the model's reasoning to stderr")
}
