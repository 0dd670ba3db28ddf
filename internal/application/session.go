package application

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"cognitext/internal/domain"
	"cognitext/internal/events"
	"cognitext/internal/pkg/logger"
	"cognitext/internal/ports"
)

// SessionConfig holds the collaborators of a Session
type SessionConfig struct {
	Bus           *events.Bus
	SettingsStore ports.SettingsStore
	Repo          ports.WorkspaceRepository
	Index         ports.SearchIndex    // Optional
	Parser        ports.MarkdownParser // Optional
	// NewProvider builds the chat provider for the chat settings. Called
	// again whenever those settings change.
	NewProvider func(domain.ChatSettings) ports.ChatProvider
	Logger      *zap.Logger
}

// Session ties the services of one open workspace to a shared bus
type Session struct {
	Bus      *events.Bus
	Settings *SettingsService
	Tabs     *TabManager
	Chat     *ChatService
	Repo     ports.WorkspaceRepository
	Index    ports.SearchIndex

	store       ports.SettingsStore
	newProvider func(domain.ChatSettings) ports.ChatProvider
	logger      *zap.Logger
	subs        []*events.Subscription

	mu         sync.Mutex
	chatConfig *domain.ChatSettings
}

// NewSession creates the services. Nothing is loaded until Start.
func NewSession(cfg SessionConfig) *Session {
	log := logger.OrNop(cfg.Logger)
	bus := cfg.Bus
	if bus == nil {
		bus = events.NewBus(log)
	}

	tabs := NewTabManager(cfg.Repo, cfg.Parser, bus, log)
	return &Session{
		Bus:         bus,
		Settings:    NewSettingsService(cfg.SettingsStore, bus, log),
		Tabs:        tabs,
		Chat:        NewChatService(nil, tabs, log),
		Repo:        cfg.Repo,
		Index:       cfg.Index,
		store:       cfg.SettingsStore,
		newProvider: cfg.NewProvider,
		logger:      log.Named("session"),
	}
}

// ResolveWorkspace picks the workspace root: the override when set, then
// the startup folder from the settings, then the working directory
func ResolveWorkspace(override string, settings domain.Settings) string {
	if override != "" {
		return override
	}
	if settings.ActionOnStartup.Action == domain.StartupOpenDir && settings.ActionOnStartup.Dir != "" {
		return settings.ActionOnStartup.Dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Start loads the settings, wires the services to the bus and brings the
// search index up to date with the workspace
func (s *Session) Start(ctx context.Context) (*domain.SyncStats, error) {
	settings, err := s.Settings.Load()
	if err != nil {
		// Keep running on defaults, the next save rewrites the file
		s.logger.Warn("using default settings", zap.Error(err))
	}

	s.Settings.Wire()
	s.Tabs.Wire()
	s.applyChatSettings(settings.Chat)

	s.subs = append(s.subs,
		events.On(s.Bus, func(e events.SettingsUpdated) error {
			s.applyChatSettings(e.Settings.Chat)
			return nil
		}),
		events.On(s.Bus, func(e events.FileSaved) error {
			if s.Index == nil || !domain.IsMarkdown(e.Path) || !s.Repo.Contains(e.Path) {
				return nil
			}
			return s.Index.Reindex(e.Path)
		}),
	)

	if s.Index == nil {
		return &domain.SyncStats{}, nil
	}
	if err := s.Index.Open(s.Repo.Root()); err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	if s.Index.NeedsFullRebuild() {
		s.logger.Info("rebuilding search index", zap.String("root", s.Repo.Root()))
		return s.Index.IndexDirectory(ctx)
	}
	return s.Index.SyncIncremental(ctx)
}

// applyChatSettings swaps the chat provider when the chat settings differ
// from the ones it was built from
func (s *Session) applyChatSettings(chat domain.ChatSettings) {
	if s.newProvider == nil {
		return
	}

	s.mu.Lock()
	if s.chatConfig != nil && *s.chatConfig == chat {
		s.mu.Unlock()
		return
	}
	s.chatConfig = &chat
	s.mu.Unlock()

	s.Chat.SetProvider(s.newProvider(chat))
	s.logger.Debug("chat provider configured", zap.String("provider", chat.Provider), zap.String("model", chat.Model))
}

// HandleExternalChange reacts to a path changed outside the application:
// the settings file is reloaded, workspace changes update the index and
// are announced with WorkspaceChanged
func (s *Session) HandleExternalChange(ctx context.Context, path string) {
	if s.store != nil && domain.IsSamePath(path, s.store.Path()) {
		if _, err := s.Settings.ReloadFromDisk(); err != nil {
			s.logger.Warn("failed to reload settings", zap.Error(err))
		}
		return
	}

	if !s.Repo.Contains(path) {
		s.logger.Debug("ignoring change outside the workspace", zap.String("path", path))
		return
	}

	if s.Index != nil {
		var err error
		if domain.IsMarkdown(path) {
			err = s.Index.Reindex(path)
		} else {
			_, err = s.Index.SyncIncremental(ctx)
		}
		if err != nil {
			s.logger.Warn("failed to update index", zap.String("path", path), zap.Error(err))
		}
	}
	s.Bus.Publish(events.WorkspaceChanged{Path: path})
}

// Close unwires the services and closes the index
func (s *Session) Close() error {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
	s.Tabs.Unwire()
	s.Settings.Unwire()
	s.Chat.Abort()

	if s.Index != nil {
		return s.Index.Close()
	}
	return nil
}
