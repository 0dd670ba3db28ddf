package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cognitext/internal/application"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	OldPath string
	NewPath string
	Message string
}

// RenameCommand renames a note or folder inside its folder
type RenameCommand struct {
	repo    ports.WorkspaceRepository
	index   ports.SearchIndex
	Path    string
	NewName string
}

// NewRenameCommand creates a new RenameCommand. index may be nil.
func NewRenameCommand(repo ports.WorkspaceRepository, index ports.SearchIndex, path, newName string) *RenameCommand {
	return &RenameCommand{
		repo:    repo,
		index:   index,
		Path:    path,
		NewName: newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return err
	}
	if err := application.ValidateFileName("newName", c.NewName); err != nil {
		return err
	}
	if c.repo != nil && domain.IsSamePath(c.Path, c.repo.Root()) {
		return &application.ValidationError{
			Field:   "path",
			Message: "cannot rename the workspace root",
		}
	}
	return nil
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	newName := strings.TrimSpace(c.NewName)
	info, err := os.Stat(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}
	// Notes keep their extension when the new name has none
	if !info.IsDir() && filepath.Ext(newName) == "" {
		newName += filepath.Ext(c.Path)
	}

	newPath := filepath.Join(filepath.Dir(c.Path), newName)
	if err := c.repo.Rename(c.Path, newPath); err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}
	if info.IsDir() {
		if c.index != nil {
			_, _ = c.index.SyncIncremental(ctx)
		}
	} else {
		reindex(c.index, c.Path, newPath)
	}

	return &RenameResult{
		OldPath: c.Path,
		NewPath: newPath,
		Message: fmt.Sprintf("Renamed %s to %s", filepath.Base(c.Path), newName),
	}, nil
}
