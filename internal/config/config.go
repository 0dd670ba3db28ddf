package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// AppName names the per-user config and data directories
	AppName = "cognitext"

	// SettingsFileName is the settings document inside the config directory
	SettingsFileName = "settings.json"

	// BackupsDirName holds new documents that were never saved to a user location
	BackupsDirName = "Backups"

	// LogFileName is the rotating log file inside the data directory
	LogFileName = "cognitext.log"

	// EnvFileName holds COGNITEXT_* variables for users who do not export them
	EnvFileName = ".env"

	FilePermissions = 0644
	DirPermissions  = 0755
)

// LoadEnvFile reads KEY=value pairs from the .env file in the config
// directory. Variables already set in the environment win. A missing
// file is not an error.
func LoadEnvFile() error {
	path := filepath.Join(ConfigDir(), EnvFileName)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ConfigDir returns the config directory from COGNITEXT_CONFIG_DIR,
// falling back to $XDG_CONFIG_HOME/cognitext and then ~/.config/cognitext.
func ConfigDir() string {
	if env := os.Getenv("COGNITEXT_CONFIG_DIR"); env != "" {
		return ExpandHome(env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", AppName)
}

// DataDir returns $XDG_DATA_HOME/cognitext or ~/.local/share/cognitext
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// SettingsPath returns the full path of the settings file
func SettingsPath() string {
	return filepath.Join(ConfigDir(), SettingsFileName)
}

// BackupsDir returns the directory for unsaved documents
func BackupsDir() string {
	return filepath.Join(ConfigDir(), BackupsDirName)
}

// LogPath returns the log file path, honouring COGNITEXT_LOG_FILE
func LogPath() string {
	if env := os.Getenv("COGNITEXT_LOG_FILE"); env != "" {
		return ExpandHome(env)
	}
	return filepath.Join(DataDir(), LogFileName)
}

// LogLevel returns the configured log level (debug, info, warn, error)
func LogLevel() string {
	if env := os.Getenv("COGNITEXT_LOG_LEVEL"); env != "" {
		return strings.ToLower(env)
	}
	return "info"
}

// WorkspaceOverride returns COGNITEXT_DIR, which takes precedence over
// the startup directory stored in the settings file. Empty if unset.
func WorkspaceOverride() string {
	return ExpandHome(os.Getenv("COGNITEXT_DIR"))
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
