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

// MoveResult contains the result of a move operation
type MoveResult struct {
	OldPath string
	NewPath string
	Message string
}

// MoveCommand moves a note or folder into another folder
type MoveCommand struct {
	repo    ports.WorkspaceRepository
	index   ports.SearchIndex
	Source  string
	DestDir string
}

// NewMoveCommand creates a new MoveCommand. index may be nil.
func NewMoveCommand(repo ports.WorkspaceRepository, index ports.SearchIndex, source, destDir string) *MoveCommand {
	return &MoveCommand{
		repo:    repo,
		index:   index,
		Source:  source,
		DestDir: destDir,
	}
}

// Validate checks if the move operation is valid
func (c *MoveCommand) Validate() error {
	if err := application.ValidateRequired("path", c.Source); err != nil {
		return err
	}
	if err := application.ValidateRequired("destination", c.DestDir); err != nil {
		return err
	}
	src := domain.NormalizePath(c.Source)
	dst := domain.NormalizePath(c.DestDir)
	if src == dst || strings.HasPrefix(dst, src+"/") {
		return &application.ValidationError{
			Field:   "destination",
			Message: "cannot move a folder into itself",
		}
	}
	if domain.IsSamePath(filepath.Dir(c.Source), c.DestDir) {
		return &application.ValidationError{
			Field:   "destination",
			Message: "already in that folder",
		}
	}
	return nil
}

// Execute runs the move command
func (c *MoveCommand) Execute(ctx context.Context) (*MoveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(c.DestDir)
	if err != nil {
		return nil, fmt.Errorf("failed to move: %w", err)
	}
	if !info.IsDir() {
		return nil, &application.ValidationError{
			Field:   "destination",
			Message: fmt.Sprintf("%s is not a folder", c.DestDir),
		}
	}

	newPath := filepath.Join(c.DestDir, filepath.Base(c.Source))
	if err := c.repo.Rename(c.Source, newPath); err != nil {
		return nil, fmt.Errorf("failed to move: %w", err)
	}
	if domain.IsMarkdown(c.Source) {
		reindex(c.index, c.Source, newPath)
	} else if c.index != nil {
		_, _ = c.index.SyncIncremental(ctx)
	}

	return &MoveResult{
		OldPath: c.Source,
		NewPath: newPath,
		Message: fmt.Sprintf("Moved %s to %s", filepath.Base(c.Source), filepath.Base(c.DestDir)),
	}, nil
}
