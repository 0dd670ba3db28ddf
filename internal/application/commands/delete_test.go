package commands

import (
	"context"
	"path/filepath"
	"testing"
)

func TestDeleteCommand_Execute(t *testing.T) {
	repo, root := setupWorkspace(t, map[string]string{
		"a.md":        "# A",
		"folder/b.md": "# B",
	})
	index := &fakeIndex{}

	tests := []struct {
		name string
		path string
	}{
		{name: "note", path: filepath.Join(root, "a.md")},
		{name: "folder", path: filepath.Join(root, "folder")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewDeleteCommand(repo, index, tt.path).Execute(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.DeletedPath != tt.path {
				t.Errorf("expected %s, got %s", tt.path, result.DeletedPath)
			}
			if fileExists(tt.path) {
				t.Errorf("%s still exists", tt.path)
			}
		})
	}

	if len(index.removed) != 1 {
		t.Errorf("expected the note to be removed from the index, got %v", index.removed)
	}
}

func TestDeleteCommand_RefusesRoot(t *testing.T) {
	repo, root := setupWorkspace(t, nil)

	_, err := NewDeleteCommand(repo, nil, root).Execute(context.Background())

	if err == nil || !contains(err.Error(), "workspace root") {
		t.Errorf("expected root error, got %v", err)
	}
	if !fileExists(root) {
		t.Error("root was deleted")
	}
}

func TestDeleteCommand_Missing(t *testing.T) {
	repo, root := setupWorkspace(t, nil)

	_, err := NewDeleteCommand(repo, nil, filepath.Join(root, "missing.md")).Execute(context.Background())

	if err == nil {
		t.Error("expected error for a missing path")
	}
}
