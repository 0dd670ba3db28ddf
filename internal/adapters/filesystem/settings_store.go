package filesystem

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// SettingsStore keeps the settings object as a JSON document
type SettingsStore struct {
	path string
}

// Ensure SettingsStore implements ports.SettingsStore
var _ ports.SettingsStore = (*SettingsStore)(nil)

// NewSettingsStore creates a store for the settings file at path
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Path returns the settings file location
func (s *SettingsStore) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields the defaults, and
// keys absent from the file keep their default values.
func (s *SettingsStore) Load() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return settings, nil
}

// Save overwrites the settings file, creating the config directory on
// demand
func (s *SettingsStore) Save(settings domain.Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return writeAtomic(s.path, append(data, '\n'))
}
