package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cognitext/internal/domain"
)

func TestSaveImage_RelativeFolder(t *testing.T) {
	root, cleanup := setupTestWorkspace(t)
	defer cleanup()

	repo := NewRepository(root, "")
	doc := filepath.Join(root, "journal", "day1.md")
	cfg := domain.DefaultSettings().Image

	link, err := repo.SaveImage(doc, "shot.png", []byte("png-bytes"), cfg)
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if link != "day1.assets/shot.png" {
		t.Errorf("link = %q, want day1.assets/shot.png", link)
	}

	// A second image with the same name gets a suffix
	link, err = repo.SaveImage(doc, "shot.png", []byte("other"), cfg)
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if link != "day1.assets/shot-1.png" {
		t.Errorf("link = %q, want day1.assets/shot-1.png", link)
	}

	data, err := os.ReadFile(filepath.Join(root, "journal", "day1.assets", "shot.png"))
	if err != nil || string(data) != "png-bytes" {
		t.Errorf("first image changed or missing: %q, %v", data, err)
	}
}

func TestSaveImage_GlobalFolder(t *testing.T) {
	root, cleanup := setupTestWorkspace(t)
	defer cleanup()

	repo := NewRepository(root, "")
	global := filepath.Join(root, "images")
	cfg := domain.ImageSettings{
		Action:               domain.ImageCopy,
		GlobalDir:            global,
		PreferRelativeFolder: false,
	}

	link, err := repo.SaveImage(filepath.Join(root, "Ideas.md"), "a.png", []byte("x"), cfg)
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if link != filepath.Join(global, "a.png") {
		t.Errorf("link = %q", link)
	}
}

func TestSaveImage_UnsupportedActions(t *testing.T) {
	root, cleanup := setupTestWorkspace(t)
	defer cleanup()

	repo := NewRepository(root, "")

	for _, action := range []domain.ImageAction{domain.ImageKeep, domain.ImageUpload} {
		_, err := repo.SaveImage(filepath.Join(root, "Ideas.md"), "a.png", nil, domain.ImageSettings{Action: action})
		if !errors.Is(err, errors.ErrUnsupported) {
			t.Errorf("action %d: expected ErrUnsupported, got %v", action, err)
		}
	}
}
