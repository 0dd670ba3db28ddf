package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cognitext/internal/application"
	"cognitext/internal/domain"
	"cognitext/internal/ports"
)

// CreateMode indicates what type of entry to create
type CreateMode int

const (
	CreateModeNote CreateMode = iota
	CreateModeFolder
)

// CreateResult contains the result of a create operation
type CreateResult struct {
	Path    string
	Message string
}

// CreateNoteCommand creates a markdown note in a folder
type CreateNoteCommand struct {
	repo      ports.WorkspaceRepository
	index     ports.SearchIndex
	ParentDir string
	Name      string
}

// NewCreateNoteCommand creates a new CreateNoteCommand. index may be nil.
func NewCreateNoteCommand(repo ports.WorkspaceRepository, index ports.SearchIndex, parentDir, name string) *CreateNoteCommand {
	return &CreateNoteCommand{
		repo:      repo,
		index:     index,
		ParentDir: parentDir,
		Name:      name,
	}
}

// Validate checks if the create operation is valid
func (c *CreateNoteCommand) Validate() error {
	if err := application.ValidateRequired("path", c.ParentDir); err != nil {
		return err
	}
	return application.ValidateFileName("name", c.Name)
}

// Execute runs the create note command
func (c *CreateNoteCommand) Execute(ctx context.Context) (*CreateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	fileName := domain.EnsureMarkdownExt(strings.TrimSpace(c.Name))
	path := filepath.Join(c.ParentDir, fileName)
	content := "# " + domain.FileNameWithoutExtension(fileName) + "\n"

	if err := c.repo.CreateFile(path, content); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	reindex(c.index, "", path)

	return &CreateResult{
		Path:    path,
		Message: fmt.Sprintf("Created note: %s", fileName),
	}, nil
}

// CreateFolderCommand creates a folder
type CreateFolderCommand struct {
	repo      ports.WorkspaceRepository
	ParentDir string
	Name      string
}

// NewCreateFolderCommand creates a new CreateFolderCommand
func NewCreateFolderCommand(repo ports.WorkspaceRepository, parentDir, name string) *CreateFolderCommand {
	return &CreateFolderCommand{
		repo:      repo,
		ParentDir: parentDir,
		Name:      name,
	}
}

// Validate checks if the create operation is valid
func (c *CreateFolderCommand) Validate() error {
	if err := application.ValidateRequired("path", c.ParentDir); err != nil {
		return err
	}
	if err := application.ValidateFileName("name", c.Name); err != nil {
		return err
	}
	if domain.SkipEntry(strings.TrimSpace(c.Name)) {
		return &application.ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("%s would be hidden from the tree", c.Name),
		}
	}
	return nil
}

// Execute runs the create folder command
func (c *CreateFolderCommand) Execute(ctx context.Context) (*CreateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(c.Name)
	path := filepath.Join(c.ParentDir, name)
	if err := c.repo.CreateDir(path); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return &CreateResult{
		Path:    path,
		Message: fmt.Sprintf("Created folder: %s", name),
	}, nil
}
