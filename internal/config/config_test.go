package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDir_Precedence(t *testing.T) {
	t.Setenv("COGNITEXT_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("ConfigDir() = %q, want xdg based path", got)
	}

	t.Setenv("COGNITEXT_CONFIG_DIR", "/tmp/explicit")
	if got := ConfigDir(); got != "/tmp/explicit" {
		t.Errorf("ConfigDir() = %q, want /tmp/explicit", got)
	}
}

func TestDerivedPaths(t *testing.T) {
	t.Setenv("COGNITEXT_CONFIG_DIR", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("COGNITEXT_LOG_FILE", "")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"settings", SettingsPath(), "/tmp/cfg/settings.json"},
		{"backups", BackupsDir(), "/tmp/cfg/Backups"},
		{"data", DataDir(), "/tmp/data/cognitext"},
		{"log", LogPath(), "/tmp/data/cognitext/cognitext.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	if got := ExpandHome("~/Notes"); got != filepath.Join(home, "Notes") {
		t.Errorf("ExpandHome(~/Notes) = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome(/abs/path) = %q", got)
	}
}

func TestLogLevel_Default(t *testing.T) {
	t.Setenv("COGNITEXT_LOG_LEVEL", "")
	if got := LogLevel(); got != "info" {
		t.Errorf("LogLevel() = %q, want info", got)
	}
	t.Setenv("COGNITEXT_LOG_LEVEL", "DEBUG")
	if got := LogLevel(); got != "debug" {
		t.Errorf("LogLevel() = %q, want debug", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COGNITEXT_CONFIG_DIR", dir)
	t.Setenv("COGNITEXT_LOG_LEVEL", "error")
	t.Setenv("COGNITEXT_DIR", "")
	os.Unsetenv("COGNITEXT_DIR")

	if err := LoadEnvFile(); err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}

	content := "COGNITEXT_DIR=/tmp/notes\nCOGNITEXT_LOG_LEVEL=debug\n"
	if err := os.WriteFile(filepath.Join(dir, EnvFileName), []byte(content), FilePermissions); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnvFile(); err != nil {
		t.Fatal(err)
	}

	if got := WorkspaceOverride(); got != "/tmp/notes" {
		t.Errorf("WorkspaceOverride() = %q, want /tmp/notes", got)
	}
	if got := LogLevel(); got != "error" {
		t.Errorf("LogLevel() = %q, exported value should win over the file", got)
	}
}
