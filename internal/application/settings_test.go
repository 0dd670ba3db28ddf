package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cognitext/internal/domain"
	"cognitext/internal/events"
)

type memorySettingsStore struct {
	stored  *domain.Settings
	saves   int
	failErr error
}

func (m *memorySettingsStore) Load() (domain.Settings, error) {
	if m.failErr != nil {
		return domain.Settings{}, m.failErr
	}
	if m.stored == nil {
		return domain.DefaultSettings(), nil
	}
	return *m.stored, nil
}

func (m *memorySettingsStore) Save(s domain.Settings) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.stored = &s
	return nil
}

func (m *memorySettingsStore) Path() string { return "/config/settings.json" }

func TestSettingsService_LoadDefaults(t *testing.T) {
	svc := NewSettingsService(&memorySettingsStore{}, events.NewBus(nil), nil)

	got, err := svc.Load()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)
}

func TestSettingsService_LoadError(t *testing.T) {
	svc := NewSettingsService(&memorySettingsStore{failErr: errors.New("corrupt")}, events.NewBus(nil), nil)

	got, err := svc.Load()

	assert.Error(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)
}

func TestSettingsService_UpdatePersistsThroughBus(t *testing.T) {
	store := &memorySettingsStore{}
	bus := events.NewBus(nil)
	svc := NewSettingsService(store, bus, nil)
	svc.Wire()
	defer svc.Unwire()

	var themes []string
	events.On(bus, func(e events.ThemeChanged) error { themes = append(themes, e.Theme); return nil })

	svc.Update(func(s *domain.Settings) {
		s.ColorTheme = "dark"
		s.Editor.TabSize = 4
	})

	require.NotNil(t, store.stored)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 4, store.stored.Editor.TabSize)
	assert.Equal(t, "dark", svc.Current().ColorTheme)
	assert.Equal(t, []string{"dark"}, themes)
}

func TestSettingsService_FromDiskDoesNotRewrite(t *testing.T) {
	store := &memorySettingsStore{}
	bus := events.NewBus(nil)
	svc := NewSettingsService(store, bus, nil)
	svc.Wire()
	defer svc.Unwire()

	changed := domain.DefaultSettings()
	changed.Locale = "zh"
	store.stored = &changed

	updated, err := svc.ReloadFromDisk()
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "zh", svc.Current().Locale)
	assert.Equal(t, 0, store.saves)

	updated, err = svc.ReloadFromDisk()
	require.NoError(t, err)
	assert.False(t, updated, "unchanged file is not broadcast again")
}

func TestSettingsService_ApplyError(t *testing.T) {
	store := &memorySettingsStore{failErr: errors.New("read-only")}
	svc := NewSettingsService(store, events.NewBus(nil), nil)

	next := domain.DefaultSettings()
	next.Locale = "fr"

	assert.Error(t, svc.Apply(next))
	assert.Equal(t, "en", svc.Current().Locale)
}
