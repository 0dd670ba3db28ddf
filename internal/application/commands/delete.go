package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"cognitext/internal/application"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedPath string
	Message     string
}

// DeleteCommand deletes a note or folder
type DeleteCommand struct {
	repo  ports.WorkspaceRepository
	index ports.SearchIndex
	Path  string
}

// NewDeleteCommand creates a new DeleteCommand. index may be nil.
func NewDeleteCommand(repo ports.WorkspaceRepository, index ports.SearchIndex, path string) *DeleteCommand {
	return &DeleteCommand{
		repo:  repo,
		index: index,
		Path:  path,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	if err := application.ValidateRequired("path", c.Path); err != nil {
		return err
	}
	if c.repo != nil && domain.IsSamePath(c.Path, c.repo.Root()) {
		return &application.ValidationError{
			Field:   "path",
			Message: "cannot delete the workspace root",
		}
	}
	return nil
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.repo.Delete(c.Path); err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.Path, err)
	}
	reindex(c.index, c.Path, "")

	return &DeleteResult{
		DeletedPath: c.Path,
		Message:     fmt.Sprintf("Deleted %s", filepath.Base(c.Path)),
	}, nil
}
