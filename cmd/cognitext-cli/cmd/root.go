package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cognitext/internal/adapters/filesystem"
	"cognitext/internal/adapters/sqlite"
	"cognitext/internal/application"
	"cognitext/internal/config"
	"cognitext/internal/domain"
	"cognitext/internal/pkg/logger"
	"cognitext/internal/ports"
)

var (
	workspaceDir  string
	logLevel      string
	repo          *filesystem.Repository
	settingsStore *filesystem.SettingsStore
	settings      domain.Settings
	log           *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cognitext-cli",
	Short: "CLI for a cognitext markdown workspace",
	Long: `cognitext-cli works on the same markdown workspace and settings as
the cognitext terminal app.

It provides commands to browse, create, rename, move, delete and search
notes, show their outline, continue writing with a chat model, edit the
settings and commit the workspace with git.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		log = logger.NewConsole(logLevel)
		settingsStore = filesystem.NewSettingsStore(config.SettingsPath())

		var err error
		settings, err = settingsStore.Load()
		if err != nil {
			log.Warn("using default settings", zap.Error(err))
		}
		repo = filesystem.NewRepository(application.ResolveWorkspace(workspaceDir, settings), config.BackupsDir())
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Flag defaults read COGNITEXT_DIR, so the env file goes first
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "dir", "d", config.WorkspaceOverride(), "workspace folder")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

// resolvePath turns a path given on the command line into an absolute
// path inside the workspace. Relative paths start at the workspace root.
func resolvePath(arg string) (string, error) {
	return repo.Resolve(arg)
}

// indexOrNil opens the search index for commands that keep it in step
// with file changes. Without an index those commands still work.
func indexOrNil(ctx context.Context) (ports.SearchIndex, func()) {
	idx, err := openIndex(ctx)
	if err != nil {
		log.Warn("search index unavailable", zap.Error(err))
		return nil, func() {}
	}
	return idx, func() { idx.Close() }
}

// relPath shows path relative to the workspace root
func relPath(path string) string {
	rel, err := filepath.Rel(repo.Root(), path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// openIndex opens the search index of the workspace and brings it up to
// date. Callers close it.
func openIndex(ctx context.Context) (*sqlite.Index, error) {
	idx := sqlite.NewIndex(sqlite.WithLogger(log))
	if err := idx.Open(repo.Root()); err != nil {
		return nil, err
	}

	var err error
	if idx.NeedsFullRebuild() {
		_, err = idx.IndexDirectory(ctx)
	} else {
		_, err = idx.SyncIncremental(ctx)
	}
	if err != nil {
		idx.Close()
		return nil, err
	}
	return idx, nil
}
