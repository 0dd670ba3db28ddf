package ports

import "cognitext/internal/domain"

// SettingsStore persists the settings object as a whole
type SettingsStore interface {
	// Load returns the stored settings, or defaults when none exist
	Load() (domain.Settings, error)
	// Save overwrites the stored settings
	Save(settings domain.Settings) error
	Path() string
}
