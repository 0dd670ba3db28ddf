package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"cognitext/internal/adapters/chatprovider"
	"cognitext/internal/adapters/editor"
	"cognitext/internal/adapters/filesystem"
	"cognitext/internal/adapters/gitcli"
	"cognitext/internal/adapters/markdown"
	"cognitext/internal/adapters/reveal"
	"cognitext/internal/adapters/sqlite"
	"cognitext/internal/adapters/tui"
	"cognitext/internal/adapters/watcher"
	"cognitext/internal/application"
	"cognitext/internal/config"
	"cognitext/internal/domain"
	"cognitext/internal/pkg/logger"
	"cognitext/internal/ports"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	dirFlag := flag.String("dir", config.WorkspaceOverride(), "workspace folder to open")
	flag.Parse()

	log, err := logger.New(config.LogPath(), config.LogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*dirFlag, log); err != nil {
		log.Error("cognitext stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dirOverride string, log *zap.Logger) error {
	store := filesystem.NewSettingsStore(config.SettingsPath())
	settings, err := store.Load()
	if err != nil {
		log.Warn("failed to read settings, using defaults", zap.Error(err))
		settings = domain.DefaultSettings()
	}
	if _, err := os.Stat(store.Path()); errors.Is(err, fs.ErrNotExist) {
		if err := store.Save(settings); err != nil {
			log.Warn("failed to write default settings", zap.Error(err))
		}
	}

	root := application.ResolveWorkspace(dirOverride, settings)
	repo := filesystem.NewRepository(root, config.BackupsDir())
	if err := os.MkdirAll(config.BackupsDir(), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create backups directory: %w", err)
	}

	session := application.NewSession(application.SessionConfig{
		SettingsStore: store,
		Repo:          repo,
		Index:         sqlite.NewIndex(sqlite.WithLogger(log)),
		Parser:        markdown.NewParser(),
		NewProvider:   chatprovider.New,
		Logger:        log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stats, err := session.Start(ctx)
	if err != nil {
		return err
	}
	defer session.Close()
	log.Info("workspace ready",
		zap.String("root", repo.Root()),
		zap.Int("added", stats.Added),
		zap.Int("updated", stats.Updated),
		zap.Int("removed", stats.Removed),
		zap.Duration("took", stats.Duration),
	)

	watchWorkspace(ctx, session, repo.Root(), store.Path(), log)

	var vcs ports.VersionControl
	if git := gitcli.NewRepo(repo.Root()); git.IsAvailable() {
		vcs = git
	}

	app := tui.NewApp(session, tui.Options{
		Editor:   editor.NewOpener(),
		Revealer: reveal.NewOpener(),
		VCS:      vcs,
		Renderer: markdown.NewRenderer(settings.ColorTheme),
		Logger:   log,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// watchWorkspace feeds outside changes to the workspace and the settings
// file into the session until ctx is done
func watchWorkspace(ctx context.Context, session *application.Session, root, settingsPath string, log *zap.Logger) {
	w, err := watcher.New(watcher.WithLogger(log))
	if err != nil {
		log.Warn("file watching disabled", zap.Error(err))
		return
	}
	for _, path := range []string{root, settingsPath} {
		if err := w.Add(path); err != nil {
			log.Warn("failed to watch path", zap.String("path", path), zap.Error(err))
		}
	}

	go func() {
		defer w.Close()
		err := w.Run(ctx, func(path string) {
			session.HandleExternalChange(ctx, path)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("file watcher stopped", zap.Error(err))
		}
	}()
}
