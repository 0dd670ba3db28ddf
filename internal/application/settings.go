package application

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"cognitext/internal/domain"
	"cognitext/internal/events"
	"cognitext/internal/pkg/logger"
	"cognitext/internal/ports"
)

// SettingsService keeps the in-memory settings and persists them whenever
// a settings-updated signal arrives
type SettingsService struct {
	mu      sync.RWMutex
	store   ports.SettingsStore
	bus     *events.Bus
	logger  *zap.Logger
	current domain.Settings
	sub     *events.Subscription
}

// NewSettingsService creates a settings service holding the defaults
func NewSettingsService(store ports.SettingsStore, bus *events.Bus, log *zap.Logger) *SettingsService {
	return &SettingsService{
		store:   store,
		bus:     bus,
		logger:  logger.OrNop(log).Named("settings"),
		current: domain.DefaultSettings(),
	}
}

// Load reads the stored settings once at startup
func (s *SettingsService) Load() (domain.Settings, error) {
	loaded, err := s.store.Load()
	if err != nil {
		return s.Current(), fmt.Errorf("failed to load settings: %w", err)
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	s.logger.Info("settings loaded", zap.String("path", s.store.Path()))
	return loaded, nil
}

// Wire makes the service persist every settings-updated signal
func (s *SettingsService) Wire() {
	s.sub = events.On(s.bus, func(e events.SettingsUpdated) error {
		if e.FromDisk {
			s.replace(e.Settings)
			return nil
		}
		return s.Apply(e.Settings)
	})
}

// Unwire removes the bus subscription
func (s *SettingsService) Unwire() {
	s.sub.Unsubscribe()
}

// Current returns a copy of the in-memory settings
func (s *SettingsService) Current() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Apply overwrites the settings file with settings and replaces the
// in-memory copy
func (s *SettingsService) Apply(settings domain.Settings) error {
	if err := s.store.Save(settings); err != nil {
		s.logger.Error("failed to persist settings", zap.Error(err))
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Info("settings saved", zap.String("path", s.store.Path()))
	s.replace(settings)
	return nil
}

// Update edits a copy of the current settings and broadcasts the result
// as a settings-updated signal
func (s *SettingsService) Update(edit func(*domain.Settings)) domain.Settings {
	next := s.Current()
	edit(&next)
	s.bus.Publish(events.SettingsUpdated{Settings: next})
	return next
}

// ReloadFromDisk picks up a settings file rewritten by another process.
// It reports whether anything changed.
func (s *SettingsService) ReloadFromDisk() (bool, error) {
	loaded, err := s.store.Load()
	if err != nil {
		return false, fmt.Errorf("failed to reload settings: %w", err)
	}
	if loaded == s.Current() {
		return false, nil
	}
	s.logger.Info("settings changed on disk")
	s.bus.Publish(events.SettingsUpdated{Settings: loaded, FromDisk: true})
	return true, nil
}

func (s *SettingsService) replace(settings domain.Settings) {
	s.mu.Lock()
	prevTheme := s.current.ColorTheme
	s.current = settings
	s.mu.Unlock()

	if prevTheme != settings.ColorTheme {
		s.bus.Publish(events.ThemeChanged{Theme: settings.ColorTheme})
	}
}
