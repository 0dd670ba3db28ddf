package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"cognitext/internal/domain"
)

func TestSettingsStore_MissingFileYieldsDefaults(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "cfg", "settings.json"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != domain.DefaultSettings() {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestSettingsStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")
	store := NewSettingsStore(path)

	want := domain.DefaultSettings()
	want.ColorTheme = "dark"
	want.Editor.RenderWhitespace = true
	want.ActionOnStartup = domain.StartupSettings{Action: domain.StartupBlankFile, Dir: "/notes"}
	want.Image.GlobalDir = "/images"
	want.Chat = domain.ChatSettings{Provider: domain.ProviderOpenAI, BaseURL: "https://api.openai.com/v1", APIKey: "sk-test", Model: "gpt-4o"}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSettingsStore_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"colorTheme":"dark","editor":{"tabSize":8}}`), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewSettingsStore(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ColorTheme != "dark" || got.Editor.TabSize != 8 {
		t.Errorf("file values not applied: %+v", got)
	}
	if got.Editor.FontSize != domain.DefaultSettings().Editor.FontSize {
		t.Errorf("missing key lost its default: %d", got.Editor.FontSize)
	}
	if got.Image.RelativeFolderName != "${filename}.assets" {
		t.Errorf("image defaults lost: %+v", got.Image)
	}
}

func TestSettingsStore_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewSettingsStore(path).Load()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if got != domain.DefaultSettings() {
		t.Error("expected defaults on parse error")
	}
}
