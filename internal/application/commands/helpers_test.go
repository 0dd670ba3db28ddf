package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cognitext/internal/adapters/filesystem"
	"cognitext/internal/domain"
)

// fakeIndex records the single document updates made by commands
type fakeIndex struct {
	reindexed []string
	removed   []string
	synced    int
}

func (f *fakeIndex) Open(root string) error { return nil }
func (f *fakeIndex) Close() error           { return nil }
func (f *fakeIndex) IndexDirectory(ctx context.Context) (*domain.SyncStats, error) {
	return &domain.SyncStats{}, nil
}
func (f *fakeIndex) SyncIncremental(ctx context.Context) (*domain.SyncStats, error) {
	f.synced++
	return &domain.SyncStats{}, nil
}
func (f *fakeIndex) NeedsFullRebuild() bool { return false }
func (f *fakeIndex) Search(query string, limit int) ([]domain.SearchResult, error) {
	return nil, nil
}
func (f *fakeIndex) Reindex(path string) error {
	f.reindexed = append(f.reindexed, path)
	return nil
}
func (f *fakeIndex) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

// setupWorkspace creates a temporary workspace holding files (relative
// path to content; a trailing slash creates a folder)
func setupWorkspace(t *testing.T, files map[string]string) (*filesystem.Repository, string) {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("failed to create folder: %v", err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create folder: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}

	return filesystem.NewRepository(root, filepath.Join(t.TempDir(), "Backups")), root
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
