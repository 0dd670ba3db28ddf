package commands

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateNoteCommand_Validate(t *testing.T) {
	tests := []struct {
		name      string
		parentDir string
		noteName  string
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid note",
			parentDir: "/notes",
			noteName:  "Ideas",
		},
		{
			name:      "empty parent",
			parentDir: "",
			noteName:  "Ideas",
			wantErr:   true,
			errMsg:    "path is required",
		},
		{
			name:      "empty name",
			parentDir: "/notes",
			noteName:  "  ",
			wantErr:   true,
			errMsg:    "name is required",
		},
		{
			name:      "name with separator",
			parentDir: "/notes",
			noteName:  "a/b",
			wantErr:   true,
			errMsg:    "invalid name",
		},
		{
			name:      "hidden name",
			parentDir: "/notes",
			noteName:  ".secret",
			wantErr:   true,
			errMsg:    "cannot start with a dot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &CreateNoteCommand{
				ParentDir: tt.parentDir,
				Name:      tt.noteName,
			}
			err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestCreateNoteCommand_Execute(t *testing.T) {
	repo, root := setupWorkspace(t, nil)
	index := &fakeIndex{}

	result, err := NewCreateNoteCommand(repo, index, root, "Ideas").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(root, "Ideas.md")
	if result.Path != want {
		t.Errorf("expected path %s, got %s", want, result.Path)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("note not created: %v", err)
	}
	if string(data) != "# Ideas\n" {
		t.Errorf("unexpected content %q", data)
	}
	if len(index.reindexed) != 1 || index.reindexed[0] != want {
		t.Errorf("expected %s to be indexed, got %v", want, index.reindexed)
	}
}

func TestCreateNoteCommand_ExistingFile(t *testing.T) {
	repo, root := setupWorkspace(t, map[string]string{"Ideas.md": "keep me"})

	_, err := NewCreateNoteCommand(repo, nil, root, "Ideas.md").Execute(context.Background())

	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("expected already exists error, got %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(root, "Ideas.md"))
	if string(data) != "keep me" {
		t.Errorf("existing file was overwritten: %q", data)
	}
}

func TestCreateFolderCommand_Execute(t *testing.T) {
	repo, root := setupWorkspace(t, map[string]string{"projects/": ""})

	result, err := NewCreateFolderCommand(repo, root, "journal").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info, err := os.Stat(result.Path); err != nil || !info.IsDir() {
		t.Errorf("folder not created at %s", result.Path)
	}

	_, err = NewCreateFolderCommand(repo, root, "projects").Execute(context.Background())
	if !errors.Is(err, fs.ErrExist) {
		t.Errorf("expected already exists error, got %v", err)
	}
}

func TestCreateFolderCommand_Validate(t *testing.T) {
	tests := []struct {
		name       string
		folderName string
		wantErr    bool
	}{
		{name: "plain", folderName: "journal"},
		{name: "assets folder", folderName: "assets", wantErr: true},
		{name: "image folder", folderName: "note.assets", wantErr: true},
		{name: "empty", folderName: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&CreateFolderCommand{ParentDir: "/notes", Name: tt.folderName}).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
